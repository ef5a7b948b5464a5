package math

import "math"

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// Clamp limits v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float32) float32 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// SmoothStep is the cubic Hermite ease 3t²-2t³ with t clamped to [0,1].
func SmoothStep(t float32) float32 {
	t = Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180
}

// WrapDegrees maps an angle into [-180, 180).
func WrapDegrees(deg float32) float32 {
	d := math.Mod(float64(deg)+180, 360)
	if d < 0 {
		d += 360
	}
	r := float32(d - 180)
	if r >= 180 {
		r -= 360
	}
	return r
}

// ShortestAngle returns the signed delta in degrees that takes from to to
// along the shorter arc.
func ShortestAngle(from, to float32) float32 {
	return WrapDegrees(to - from)
}

// SphericalToCartesian returns the unit direction for a yaw/pitch pair given
// in degrees. Yaw 0 looks down +Z, positive pitch raises the point above the
// XZ plane.
func SphericalToCartesian(yawDeg, pitchDeg float32) Vec3 {
	yaw := float64(Radians(yawDeg))
	pitch := float64(Radians(pitchDeg))
	return Vec3{
		X: float32(math.Cos(pitch) * math.Sin(yaw)),
		Y: float32(math.Sin(pitch)),
		Z: float32(math.Cos(pitch) * math.Cos(yaw)),
	}
}
