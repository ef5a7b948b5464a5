package main

import (
	"image"
	"strings"
	"testing"

	"github.com/Faultbox/avatar-core/internal/avatar/geometry"
	"github.com/Faultbox/avatar-core/internal/avatar/mesh"
	"github.com/Faultbox/avatar-core/internal/engine/animation"
	"github.com/Faultbox/avatar-core/pkg/math"
)

func quadMesh() *mesh.Mesh {
	return mesh.Build(&geometry.Geometry{
		Vertices: []math.Vec3{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		Triangles: [][3]uint32{
			{0, 1, 2},
			{0, 2, 3},
		},
		UVs: []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
	}, mesh.Options{})
}

func TestRenderUVLayout(t *testing.T) {
	img := renderUVLayout(quadMesh(), 64, nil)

	tests := []struct {
		name string
		x, y int
		want bool // edge pixel
	}{
		{"uv origin is bottom left", 0, 63, true},
		{"top right corner", 63, 0, true},
		{"diagonal", 32, 31, true},
		{"interior off the diagonal", 48, 40, false},
	}
	if got := img.RGBAAt(48, 40); got != uvBackground {
		t.Errorf("background = %v, want %v", got, uvBackground)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := img.RGBAAt(tt.x, tt.y) == uvEdge
			if got != tt.want {
				t.Errorf("pixel (%d,%d) edge = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	drawLine(img, image.Pt(9, 2), image.Pt(1, 7), uvEdge)

	if img.RGBAAt(9, 2) != uvEdge || img.RGBAAt(1, 7) != uvEdge {
		t.Error("line does not cover both endpoints")
	}
}

func TestExpressionsFlag(t *testing.T) {
	e := expressions{}
	if err := e.Set("smile=0.8"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := e.Set("blink=1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if e["smile"] != 0.8 || e["blink"] != 1 {
		t.Errorf("expressions = %v", e)
	}
	if got := e.String(); got != "blink=1,smile=0.8" {
		t.Errorf("String() = %q", got)
	}

	for _, bad := range []string{"smile", "=1", "smile=lots"} {
		if err := e.Set(bad); err == nil {
			t.Errorf("Set(%q) succeeded, want error", bad)
		}
	}
}

func TestFormatPose(t *testing.T) {
	pose := animation.Pose{
		BodyScaleY: 1.005,
		EyeScale:   1,
		Weights:    map[string]float32{"smile": 0.5, "blink": 0},
	}
	got := formatPose(1.5, pose)

	if !strings.Contains(got, "t=  1.50s") {
		t.Errorf("missing time in %q", got)
	}
	if strings.Index(got, "blink=") > strings.Index(got, "smile=") {
		t.Errorf("weights not sorted in %q", got)
	}
}
