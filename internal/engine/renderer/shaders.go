package renderer

const avatarVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aUV;

uniform mat4 uProjection;
uniform mat4 uView;
uniform mat4 uModel;
uniform mat4 uHeadRot;
uniform vec3 uHeadPivot;
uniform float uNeckLow;
uniform float uNeckHigh;
uniform vec3 uEyeBand; // low, center, high
uniform float uEyeScale;

out vec3 vNormal;
out vec3 vWorldPos;
out vec2 vUV;

void main() {
    vec3 local = aPos;
    float e = smoothstep(uEyeBand.x, uEyeBand.y, aPos.y) * (1.0 - smoothstep(uEyeBand.y, uEyeBand.z, aPos.y));
    local.y = mix(aPos.y, uEyeBand.y + (aPos.y - uEyeBand.y) * uEyeScale, e);

    float w = smoothstep(uNeckLow, uNeckHigh, aPos.y);
    vec3 rotated = (uHeadRot * vec4(local - uHeadPivot, 1.0)).xyz + uHeadPivot;
    vec3 pos = mix(local, rotated, w);
    vec3 normal = mix(aNormal, mat3(uHeadRot) * aNormal, w);

    vec4 world = uModel * vec4(pos, 1.0);
    vWorldPos = world.xyz;
    vNormal = mat3(uModel) * normal;
    vUV = aUV;
    gl_Position = uProjection * uView * world;
}
`

const avatarFragmentShader = `
#version 410 core

in vec3 vNormal;
in vec3 vWorldPos;
in vec2 vUV;

uniform sampler2D uDiffuse;
uniform vec3 uLightDir;
uniform vec3 uCameraPos;
uniform float uAmbient;
uniform float uDirectional;
uniform float uRim;

out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    vec3 v = normalize(uCameraPos - vWorldPos);
    vec3 albedo = texture(uDiffuse, vUV).rgb;

    float diffuse = max(dot(n, normalize(uLightDir)), 0.0) * uDirectional;
    float rim = pow(1.0 - max(dot(n, v), 0.0), 3.0) * uRim;

    FragColor = vec4(albedo * (uAmbient + diffuse) + vec3(rim), 1.0);
}
`
