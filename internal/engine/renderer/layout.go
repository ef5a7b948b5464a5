package renderer

import (
	"github.com/Faultbox/avatar-core/internal/avatar/mesh"
	"github.com/Faultbox/avatar-core/internal/engine/animation"
	"github.com/Faultbox/avatar-core/pkg/math"
)

// floatsPerVertex is position(3) + normal(3) + uv(2).
const floatsPerVertex = 8

// Neck band as fractions of model height. Vertices below neckLow ignore the
// head rotation, vertices above neckHigh take all of it.
const (
	neckLow  = 0.70
	neckHigh = 0.80
)

// Eye band as fractions of model height. Blinking squashes vertices toward
// the band center, fading out at the edges.
const (
	eyeLow  = 0.84
	eyeHigh = 0.92
)

// interleave packs positions, normals and uvs into dst, growing it as needed.
// Missing normals or uvs are written as zero.
func interleave(dst []float32, positions, normals []math.Vec3, uvs []math.Vec2) []float32 {
	n := len(positions) * floatsPerVertex
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	for i, p := range positions {
		o := i * floatsPerVertex
		dst[o], dst[o+1], dst[o+2] = p.X, p.Y, p.Z
		var nv math.Vec3
		if i < len(normals) {
			nv = normals[i]
		}
		dst[o+3], dst[o+4], dst[o+5] = nv.X, nv.Y, nv.Z
		var uv math.Vec2
		if i < len(uvs) {
			uv = uvs[i]
		}
		dst[o+6], dst[o+7] = uv.X, uv.Y
	}
	return dst
}

// modelMatrix scales the body vertically about the base of its bounds.
func modelMatrix(b mesh.Bounds, pose animation.Pose) math.Mat4 {
	sy := pose.BodyScaleY
	if sy == 0 {
		sy = 1
	}
	base := b.Min.Y
	return math.Translate(0, base, 0).
		Mul(math.Scale(1, sy, 1)).
		Mul(math.Translate(0, -base, 0))
}

// headRig returns the rotation pivot and the neck band heights for b.
func headRig(b mesh.Bounds) (pivot math.Vec3, lo, hi float32) {
	h := b.Size().Y
	c := b.Center()
	lo = b.Min.Y + h*neckLow
	hi = b.Min.Y + h*neckHigh
	return math.Vec3{X: c.X, Y: lo, Z: c.Z}, lo, hi
}

// headMatrix is the head rotation for pose.
func headMatrix(pose animation.Pose) math.Mat4 {
	return math.EulerDegrees(pose.Head.Pitch, pose.Head.Yaw, pose.Head.Roll)
}

// eyeRig returns the eye band heights for b.
func eyeRig(b mesh.Bounds) (lo, center, hi float32) {
	h := b.Size().Y
	lo = b.Min.Y + h*eyeLow
	hi = b.Min.Y + h*eyeHigh
	return lo, (lo + hi) / 2, hi
}

// eyeSquash is the vertical eye scale to apply in the shader. Models with a
// blink blend channel already close their eyes through it.
func eyeSquash(pose animation.Pose, hasBlinkChannel bool) float32 {
	if hasBlinkChannel || !math.IsFinite(pose.EyeScale) {
		return 1
	}
	return math.Clamp(pose.EyeScale, 0, 1)
}
