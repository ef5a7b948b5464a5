package avatar

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/avatar-core/internal/logger"
	"github.com/Faultbox/avatar-core/pkg/math"
)

// BlendShapeSet is the ordered set of morph channels of one avatar. A channel
// whose data holds three floats per vertex is a displacement; anything else is
// kept as a scalar-only channel that still accepts weights.
type BlendShapeSet struct {
	names  []string
	deltas map[string][]math.Vec3
}

// NewBlendShapeSet builds the channel set. Channels are ordered by name.
func NewBlendShapeSet(shapes map[string][]float32, vertexCount int) *BlendShapeSet {
	s := &BlendShapeSet{deltas: make(map[string][]math.Vec3, len(shapes))}
	for name, data := range shapes {
		if name == "" {
			continue
		}
		s.names = append(s.names, name)
		if vertexCount == 0 || len(data) != 3*vertexCount {
			continue
		}
		d, ok := toDeltas(data)
		if !ok {
			logger.Warn("blend shape has non-finite deltas, keeping as scalar channel",
				zap.String("channel", name))
			continue
		}
		s.deltas[name] = d
	}
	sort.Strings(s.names)
	return s
}

func toDeltas(data []float32) ([]math.Vec3, bool) {
	out := make([]math.Vec3, len(data)/3)
	for i := range out {
		v := math.Vec3{X: data[3*i], Y: data[3*i+1], Z: data[3*i+2]}
		if !v.IsFinite() {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// Names returns the channel names in order.
func (s *BlendShapeSet) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of channels.
func (s *BlendShapeSet) Len() int { return len(s.names) }

// Has reports whether the channel exists.
func (s *BlendShapeSet) Has(name string) bool {
	i := sort.SearchStrings(s.names, name)
	return i < len(s.names) && s.names[i] == name
}

// IsDisplacement reports whether the channel moves vertices.
func (s *BlendShapeSet) IsDisplacement(name string) bool {
	_, ok := s.deltas[name]
	return ok
}

// Deform writes base plus the weighted displacements into dst and returns it.
// dst is reallocated when too small. Weights are clamped to [0,1]; unknown
// and scalar-only channels contribute nothing.
func (s *BlendShapeSet) Deform(base []math.Vec3, weights map[string]float32, dst []math.Vec3) []math.Vec3 {
	if cap(dst) < len(base) {
		dst = make([]math.Vec3, len(base))
	}
	dst = dst[:len(base)]
	copy(dst, base)

	for _, name := range s.names {
		d, ok := s.deltas[name]
		if !ok || len(d) != len(base) {
			continue
		}
		w := math.Clamp(weights[name], 0, 1)
		if w == 0 {
			continue
		}
		for i := range dst {
			dst[i] = dst[i].Add(d[i].Scale(w))
		}
	}
	return dst
}
