package mesh

import (
	"github.com/Faultbox/avatar-core/internal/avatar/geometry"
)

// Placeholder returns the neutral shape shown before any avatar has loaded
// or after the first load failed: an octahedron standing on its tip.
func Placeholder() *Mesh {
	raw := geometry.Raw{
		Vertices: [][]float32{
			{0, 2, 0},   // top
			{0, 0, 0},   // bottom
			{0.6, 1, 0}, // +x
			{-0.6, 1, 0},
			{0, 1, 0.6}, // +z
			{0, 1, -0.6},
		},
		Faces: [][]int{
			{0, 4, 2}, {0, 2, 5}, {0, 5, 3}, {0, 3, 4},
			{1, 2, 4}, {1, 5, 2}, {1, 3, 5}, {1, 4, 3},
		},
	}
	g, err := geometry.Validate(raw)
	if err != nil {
		panic("mesh: placeholder geometry invalid: " + err.Error())
	}
	return Build(g, Options{})
}
