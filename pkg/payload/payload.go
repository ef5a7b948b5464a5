// Package payload defines the avatar data contract produced by the
// photo-processing service and the status envelope used to poll it.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Texture buffer names emitted by the processing service.
const (
	TextureDiffuse   = "diffuse"
	TextureNormal    = "normal"
	TextureSpecular  = "specular"
	TextureRoughness = "roughness"
)

// Avatar is one generated avatar as delivered by the processing service.
// Textures hold base64 encoded images keyed by buffer name.
type Avatar struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`

	Vertices [][]float32 `json:"vertices"`
	Faces    [][]int     `json:"faces"`
	UVs      [][]float32 `json:"uvs,omitempty"`
	Normals  [][]float32 `json:"normals,omitempty"`

	Textures    map[string]string    `json:"textures"`
	BlendShapes map[string][]float32 `json:"blend_shapes"`
	Animations  []AnimationClip      `json:"animations"`

	Materials        map[string]map[string]any `json:"materials"`
	LightingParams   map[string]float32        `json:"lighting_params"`
	SourceImageHash  string                    `json:"source_image_hash"`
	GenerationParams map[string]any            `json:"generation_params"`
}

// AnimationClip is a keyframed sequence shipped alongside the mesh.
type AnimationClip struct {
	Name      string     `json:"name"`
	Duration  float32    `json:"duration"` // seconds
	Loop      bool       `json:"loop"`
	Keyframes []Keyframe `json:"keyframes"`
}

// Keyframe is one sample of a clip. Absent fields leave that channel to the
// procedural generators.
type Keyframe struct {
	Time         float32            `json:"time"` // seconds
	BlendWeights map[string]float32 `json:"blend_weights,omitempty"`
	EyeScale     *float32           `json:"eye_scale,omitempty"`
	HeadRotation *[3]float32        `json:"head_rotation,omitempty"` // pitch, yaw, roll in degrees
}

// UnmarshalJSON accepts eye_scale as a number or as an [x, y] pair. For a
// pair the vertical component is used, since eye closure is vertical.
func (k *Keyframe) UnmarshalJSON(data []byte) error {
	type plain Keyframe
	var raw struct {
		plain
		EyeScale json.RawMessage `json:"eye_scale,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*k = Keyframe(raw.plain)
	k.EyeScale = nil

	if len(raw.EyeScale) == 0 || string(raw.EyeScale) == "null" {
		return nil
	}
	var v float32
	if err := json.Unmarshal(raw.EyeScale, &v); err == nil {
		k.EyeScale = &v
		return nil
	}
	var pair []float32
	if err := json.Unmarshal(raw.EyeScale, &pair); err != nil || len(pair) == 0 || len(pair) > 2 {
		return fmt.Errorf("keyframe at %gs: eye_scale %s: want a number or [x, y]", k.Time, raw.EyeScale)
	}
	v = pair[len(pair)-1]
	k.EyeScale = &v
	return nil
}

// Decode parses an avatar payload. Either a bare avatar object or a
// completed status envelope is accepted.
func Decode(r io.Reader) (*Avatar, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}

	var head struct {
		ProcessID string          `json:"process_id"`
		Avatar    json.RawMessage `json:"avatar_data"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parsing payload: %w", err)
	}
	if head.ProcessID != "" {
		resp, err := DecodeResponse(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return resp.Completed()
	}

	var a Avatar
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing payload: %w", err)
	}
	return &a, nil
}

// DecodeFile reads and parses a payload from disk.
func DecodeFile(path string) (*Avatar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
