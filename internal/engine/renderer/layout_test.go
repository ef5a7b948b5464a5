package renderer

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/avatar-core/internal/avatar/mesh"
	"github.com/Faultbox/avatar-core/internal/engine/animation"
	"github.com/Faultbox/avatar-core/pkg/math"
)

func TestInterleave(t *testing.T) {
	pos := []math.Vec3{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}}
	nrm := []math.Vec3{{Z: 1}}
	uvs := []math.Vec2{{X: 0.25, Y: 0.75}, {X: 1, Y: 0}}

	buf := make([]float32, 0, 64)
	got := interleave(buf, pos, nrm, uvs)

	want := []float32{
		1, 2, 3, 0, 0, 1, 0.25, 0.75,
		4, 5, 6, 0, 0, 0, 1, 0,
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if &got[0] != &buf[:1][0] {
		t.Error("interleave reallocated a buffer with enough capacity")
	}
}

func TestModelMatrixKeepsBase(t *testing.T) {
	b := mesh.Bounds{Min: math.Vec3{Y: -1}, Max: math.Vec3{Y: 1}}
	m := modelMatrix(b, animation.Pose{BodyScaleY: 1.5})

	if got := m.TransformVec3(math.Vec3{Y: -1}); abs(got.Y+1) > 1e-5 {
		t.Errorf("base moved to %v", got)
	}
	if got := m.TransformVec3(math.Vec3{Y: 1}); abs(got.Y-2) > 1e-5 {
		t.Errorf("top = %v, want y=2", got)
	}
}

func TestModelMatrixZeroScaleIsIdentity(t *testing.T) {
	b := mesh.Bounds{Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	if m := modelMatrix(b, animation.Pose{}); m != math.Identity() {
		t.Errorf("modelMatrix = %v, want identity", m)
	}
}

func TestHeadRig(t *testing.T) {
	b := mesh.Bounds{Min: math.Vec3{X: -1, Y: 0, Z: -1}, Max: math.Vec3{X: 1, Y: 10, Z: 1}}
	pivot, lo, hi := headRig(b)

	if abs(lo-7) > 1e-5 || abs(hi-8) > 1e-5 {
		t.Errorf("neck band = [%v, %v], want [7, 8]", lo, hi)
	}
	if pivot.X != 0 || pivot.Z != 0 || pivot.Y != lo {
		t.Errorf("pivot = %v", pivot)
	}
}

func TestEyeRig(t *testing.T) {
	b := mesh.Bounds{Min: math.Vec3{Y: -2}, Max: math.Vec3{Y: 8}}
	lo, mid, hi := eyeRig(b)

	if abs(lo-6.4) > 1e-5 || abs(hi-7.2) > 1e-5 || abs(mid-6.8) > 1e-5 {
		t.Errorf("eye band = [%v, %v, %v], want [6.4, 6.8, 7.2]", lo, mid, hi)
	}
	if _, _, neckHi := headRig(b); lo < neckHi {
		t.Errorf("eye band starts at %v, inside the neck band ending at %v", lo, neckHi)
	}
}

func TestEyeSquash(t *testing.T) {
	tests := []struct {
		name     string
		eye      float32
		hasBlink bool
		want     float32
	}{
		{"open", 1, false, 1},
		{"half closed", 0.4, false, 0.4},
		{"blink channel drives eyes", 0.1, true, 1},
		{"clamped low", -1, false, 0},
		{"clamped high", 3, false, 1},
		{"nan", float32(gomath.NaN()), false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eyeSquash(animation.Pose{EyeScale: tt.eye}, tt.hasBlink); got != tt.want {
				t.Errorf("eyeSquash(%v, %v) = %v, want %v", tt.eye, tt.hasBlink, got, tt.want)
			}
		})
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
