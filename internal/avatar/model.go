package avatar

import (
	"github.com/Faultbox/avatar-core/internal/avatar/mesh"
	"github.com/Faultbox/avatar-core/internal/avatar/texture"
	"github.com/Faultbox/avatar-core/pkg/payload"
)

// Lighting parameter keys understood by the renderer.
const (
	LightAmbient     = "ambient_intensity"
	LightDirectional = "directional_intensity"
)

// Model is one loaded avatar. It is immutable once built; a new load
// replaces the whole model.
type Model struct {
	ID         string
	CreatedAt  string
	SourceHash string

	Mesh        *mesh.Mesh
	Material    *texture.Material
	BlendShapes *BlendShapeSet
	Clips       []payload.AnimationClip

	Lighting         map[string]float32
	MaterialProps    map[string]map[string]any
	GenerationParams map[string]any
}

// Bounds returns the mesh bounding box.
func (m *Model) Bounds() mesh.Bounds { return m.Mesh.Bounds() }

// Clip looks up a keyframed clip by name.
func (m *Model) Clip(name string) (payload.AnimationClip, bool) {
	for _, c := range m.Clips {
		if c.Name == name {
			return c, true
		}
	}
	return payload.AnimationClip{}, false
}

// LightingParam returns a lighting value or def when absent.
func (m *Model) LightingParam(name string, def float32) float32 {
	if v, ok := m.Lighting[name]; ok {
		return v
	}
	return def
}

// Placeholder returns the neutral model shown when nothing has loaded.
func Placeholder(cfg Config) *Model {
	return &Model{
		ID:          "placeholder",
		Mesh:        mesh.Placeholder(),
		Material:    texture.FlatMaterial(cfg.Tone()),
		BlendShapes: NewBlendShapeSet(nil, 0),
	}
}
