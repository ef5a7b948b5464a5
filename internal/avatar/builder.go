package avatar

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sort"

	"github.com/tiendc/go-deepcopy"
	"go.uber.org/zap"

	"github.com/Faultbox/avatar-core/internal/avatar/geometry"
	"github.com/Faultbox/avatar-core/internal/avatar/mesh"
	"github.com/Faultbox/avatar-core/internal/avatar/texture"
	"github.com/Faultbox/avatar-core/internal/logger"
	"github.com/Faultbox/avatar-core/pkg/math"
	"github.com/Faultbox/avatar-core/pkg/payload"
)

// ErrNoPayload is returned when Build is called without a payload.
var ErrNoPayload = errors.New("no avatar payload")

// Builder turns payloads into models. It holds no per-avatar state and may
// be shared between goroutines.
type Builder struct {
	cfg     Config
	decoder texture.Decoder
}

// NewBuilder creates a builder. A nil decoder uses texture.ImageDecoder
// limited to cfg.MaxTextureSize.
func NewBuilder(cfg Config, dec texture.Decoder) *Builder {
	cfg = cfg.Sanitize()
	if dec == nil {
		dec = texture.ImageDecoder{MaxSize: cfg.MaxTextureSize}
	}
	return &Builder{cfg: cfg, decoder: dec}
}

// Build validates the payload geometry, assembles the mesh, decodes the
// textures and copies the metadata. Geometry problems return an error
// wrapping geometry.ErrInvalidGeometry; texture problems never fail the
// build. The payload is not modified or retained.
func (b *Builder) Build(ctx context.Context, p *payload.Avatar) (*Model, error) {
	if p == nil {
		return nil, ErrNoPayload
	}

	g, err := geometry.Validate(geometry.Raw{
		Vertices: p.Vertices,
		Faces:    p.Faces,
		UVs:      p.UVs,
		Normals:  p.Normals,
	})
	if err != nil {
		return nil, fmt.Errorf("avatar %q: %w", p.ID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := &Model{
		ID:          p.ID,
		CreatedAt:   p.CreatedAt,
		SourceHash:  p.SourceImageHash,
		Mesh:        mesh.Build(g, mesh.Options{FlipWinding: b.cfg.FlipWinding}),
		BlendShapes: NewBlendShapeSet(p.BlendShapes, len(g.Vertices)),
		Clips:       sanitizeClips(p.Animations),
	}

	tone := b.cfg.Tone()
	if c, ok := skinAlbedo(p.Materials); ok {
		tone = c
	}
	m.Material, err = texture.LoadSet(ctx, b.decoder, p.Textures, tone)
	if err != nil {
		return nil, err
	}

	if err := copyMetadata(m, p); err != nil {
		return nil, fmt.Errorf("avatar %q: copying metadata: %w", p.ID, err)
	}

	logger.Debug("avatar built",
		zap.String("id", m.ID),
		zap.Int("vertices", m.Mesh.VertexCount()),
		zap.Int("triangles", m.Mesh.TriangleCount()),
		zap.Int("blend_shapes", m.BlendShapes.Len()),
		zap.Int("clips", len(m.Clips)),
		zap.Bool("flat_material", m.Material.Flat))
	return m, nil
}

func copyMetadata(m *Model, p *payload.Avatar) error {
	if p.LightingParams != nil {
		m.Lighting = make(map[string]float32, len(p.LightingParams))
		for k, v := range p.LightingParams {
			if math.IsFinite(v) {
				m.Lighting[k] = v
			}
		}
	}
	if err := deepcopy.Copy(&m.MaterialProps, p.Materials); err != nil {
		return err
	}
	if err := deepcopy.Copy(&m.GenerationParams, p.GenerationParams); err != nil {
		return err
	}
	return nil
}

// skinAlbedo reads materials.skin.albedo as 3 or 4 numbers in [0,1].
func skinAlbedo(materials map[string]map[string]any) (color.RGBA, bool) {
	raw, ok := materials["skin"]["albedo"].([]any)
	if !ok || len(raw) < 3 {
		return color.RGBA{}, false
	}
	var rgb [3]float32
	for i := range rgb {
		f, ok := raw[i].(float64)
		if !ok || f < 0 || f > 1 {
			return color.RGBA{}, false
		}
		rgb[i] = float32(f)
	}
	return toneColor(rgb[0], rgb[1], rgb[2]), true
}

// sanitizeClips deep-copies the clips, drops unusable keyframes and sorts the
// rest by time. Clips left without keyframes are dropped.
func sanitizeClips(clips []payload.AnimationClip) []payload.AnimationClip {
	var out []payload.AnimationClip
	for _, c := range clips {
		var clip payload.AnimationClip
		if err := deepcopy.Copy(&clip, c); err != nil {
			logger.Warn("dropping animation clip", zap.String("clip", c.Name), zap.Error(err))
			continue
		}

		keys := clip.Keyframes[:0]
		for _, k := range clip.Keyframes {
			if math.IsFinite(k.Time) && k.Time >= 0 {
				keys = append(keys, k)
			}
		}
		if clip.Name == "" || len(keys) == 0 {
			logger.Warn("dropping animation clip without usable keyframes", zap.String("clip", c.Name))
			continue
		}
		sort.SliceStable(keys, func(i, j int) bool { return keys[i].Time < keys[j].Time })
		clip.Keyframes = keys

		if last := keys[len(keys)-1].Time; !math.IsFinite(clip.Duration) || clip.Duration < last {
			clip.Duration = last
		}
		out = append(out, clip)
	}
	return out
}
