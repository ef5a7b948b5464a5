package texture

import (
	"context"
	"image"
	"image/color"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/avatar-core/internal/logger"
	"github.com/Faultbox/avatar-core/pkg/payload"
)

// Material is the decoded texture set of one avatar. Diffuse is never nil:
// a flat material carries a 1x1 BaseColor image instead.
type Material struct {
	Diffuse   *image.RGBA
	Normal    *image.RGBA
	Specular  *image.RGBA
	Roughness *image.RGBA
	BaseColor color.RGBA
	// Flat is set when no diffuse texture could be decoded.
	Flat bool
}

// FlatMaterial returns the fallback material colored with tone.
func FlatMaterial(tone color.RGBA) *Material {
	return &Material{
		Diffuse:   Solid(tone),
		BaseColor: tone,
		Flat:      true,
	}
}

// LoadSet decodes the named buffers concurrently. Individual failures are
// logged and skipped. Only cancellation of ctx is returned as an error.
func LoadSet(ctx context.Context, dec Decoder, buffers map[string]string, tone color.RGBA) (*Material, error) {
	m := &Material{BaseColor: tone}

	var mu sync.Mutex
	decoded := make(map[string]*image.RGBA, len(buffers))

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range []string{payload.TextureDiffuse, payload.TextureNormal, payload.TextureSpecular, payload.TextureRoughness} {
		encoded, ok := buffers[name]
		if !ok || encoded == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := decodeOne(dec, name, encoded)
			if err != nil {
				logger.Warn("texture unusable, falling back",
					zap.String("texture", name), zap.Error(err))
				return nil
			}
			mu.Lock()
			decoded[name] = img
			mu.Unlock()
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m.Diffuse = decoded[payload.TextureDiffuse]
	m.Normal = decoded[payload.TextureNormal]
	m.Specular = decoded[payload.TextureSpecular]
	m.Roughness = decoded[payload.TextureRoughness]
	if m.Diffuse == nil {
		m.Diffuse = Solid(tone)
		m.Flat = true
	}
	return m, nil
}

func decodeOne(dec Decoder, name, encoded string) (*image.RGBA, error) {
	data, err := DecodeBase64(encoded)
	if err != nil {
		return nil, err
	}
	return dec.Decode(name, data)
}
