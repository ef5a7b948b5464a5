package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTransformVec3(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"translate", Translate(10, 20, 30), Vec3{1, 2, 3}, Vec3{11, 22, 33}},
		{"scale", Scale(2, 2, 2), Vec3{1, 2, 3}, Vec3{2, 4, 6}},
		{"scale then translate", Translate(1, 0, 0).Mul(Scale(1, 3, 1)), Vec3{1, 1, 1}, Vec3{2, 3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformVec3(tt.in)
			if got != tt.want {
				t.Errorf("TransformVec3() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	got := m.TransformVec3(Vec3{1, 0, 0})

	// (1,0,0) rotated 90 degrees around Y lands on (0,0,-1)
	if abs(got.X) > 0.001 || abs(got.Y) > 0.001 || abs(got.Z+1) > 0.001 {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", got)
	}
}

func TestEulerDegreesYawOnly(t *testing.T) {
	got := EulerDegrees(0, 90, 0).TransformVec3(Vec3{1, 0, 0})
	want := RotateY(float32(math.Pi / 2)).TransformVec3(Vec3{1, 0, 0})
	if got.Distance(want) > 0.0001 {
		t.Errorf("EulerDegrees(0,90,0) = %v, want %v", got, want)
	}
}

func TestLookAtMapsCenterToNegativeZ(t *testing.T) {
	eye := Vec3{0, 0, 5}
	view := LookAt(eye, Vec3{}, Up)
	got := view.TransformVec3(Vec3{})

	if abs(got.X) > 0.001 || abs(got.Y) > 0.001 || abs(got.Z+5) > 0.001 {
		t.Errorf("LookAt center in view space = %v, want (0, 0, -5)", got)
	}
}

func TestPerspectiveDepthSign(t *testing.T) {
	m := Perspective(float32(math.Pi/3), 16.0/9.0, 0.1, 100)
	if m[11] != -1 {
		t.Errorf("perspective w row = %f, want -1", m[11])
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
