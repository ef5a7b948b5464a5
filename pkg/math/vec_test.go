package math

import (
	"math"
	"testing"
)

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
}

func TestVec3Cross(t *testing.T) {
	got := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Normalize of zero vector = %v, want zero", got)
	}
}

func TestVec3IsFinite(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	tests := []struct {
		v    Vec3
		want bool
	}{
		{Vec3{1, 2, 3}, true},
		{Vec3{nan, 0, 0}, false},
		{Vec3{0, inf, 0}, false},
		{Vec3{0, 0, -inf}, false},
	}
	for _, tt := range tests {
		if got := tt.v.IsFinite(); got != tt.want {
			t.Errorf("%v.IsFinite() = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float32
	}{
		{5, 0, 1, 1},
		{-5, 0, 1, 0},
		{0.5, 0, 1, 0.5},
		{float32(math.NaN()), 0, 1, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestSmoothStep(t *testing.T) {
	if SmoothStep(0) != 0 || SmoothStep(1) != 1 {
		t.Error("SmoothStep endpoints should be 0 and 1")
	}
	if got := SmoothStep(0.5); got != 0.5 {
		t.Errorf("SmoothStep(0.5) = %v, want 0.5", got)
	}
	if SmoothStep(-1) != 0 || SmoothStep(2) != 1 {
		t.Error("SmoothStep should clamp its input")
	}
}

func TestWrapDegrees(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{190, -170},
		{-190, 170},
		{720, 0},
		{180, -180},
	}
	for _, tt := range tests {
		if got := WrapDegrees(tt.in); abs(got-tt.want) > 0.0001 {
			t.Errorf("WrapDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestShortestAngle(t *testing.T) {
	if got := ShortestAngle(170, -170); abs(got-20) > 0.0001 {
		t.Errorf("ShortestAngle(170, -170) = %v, want 20", got)
	}
	if got := ShortestAngle(123, 0); abs(got+123) > 0.0001 {
		t.Errorf("ShortestAngle(123, 0) = %v, want -123", got)
	}
}

func TestSphericalToCartesian(t *testing.T) {
	got := SphericalToCartesian(0, 0)
	if got.Distance(Vec3{0, 0, 1}) > 0.0001 {
		t.Errorf("SphericalToCartesian(0,0) = %v, want +Z", got)
	}
	got = SphericalToCartesian(90, 0)
	if got.Distance(Vec3{1, 0, 0}) > 0.0001 {
		t.Errorf("SphericalToCartesian(90,0) = %v, want +X", got)
	}
	got = SphericalToCartesian(0, 90)
	if got.Distance(Vec3{0, 1, 0}) > 0.0001 {
		t.Errorf("SphericalToCartesian(0,90) = %v, want +Y", got)
	}
}
