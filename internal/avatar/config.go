// Package avatar turns a decoded payload into an immutable, renderable model.
package avatar

import (
	"image/color"

	"github.com/Faultbox/avatar-core/pkg/math"
)

// Config holds mesh assembly and material settings.
type Config struct {
	// FlipWinding reverses triangle winding on import.
	FlipWinding bool `yaml:"flip_winding"`
	// MaxTextureSize caps the longest texture edge; larger images are downscaled.
	MaxTextureSize int `yaml:"max_texture_size"`
	// SkinTone colors the flat fallback material (linear RGB, 0..1).
	SkinTone [3]float32 `yaml:"skin_tone"`
}

// DefaultConfig returns the default mesh settings.
func DefaultConfig() Config {
	return Config{
		MaxTextureSize: 1024,
		SkinTone:       [3]float32{0.8, 0.7, 0.6},
	}
}

// Sanitize returns a copy with out-of-range values repaired.
func (c Config) Sanitize() Config {
	if c.MaxTextureSize <= 0 {
		c.MaxTextureSize = DefaultConfig().MaxTextureSize
	}
	for i := range c.SkinTone {
		c.SkinTone[i] = math.Clamp(c.SkinTone[i], 0, 1)
	}
	return c
}

// Tone returns the skin tone as an opaque color.
func (c Config) Tone() color.RGBA {
	return toneColor(c.SkinTone[0], c.SkinTone[1], c.SkinTone[2])
}

func toneColor(r, g, b float32) color.RGBA {
	return color.RGBA{
		R: uint8(math.Clamp(r, 0, 1)*255 + 0.5),
		G: uint8(math.Clamp(g, 0, 1)*255 + 0.5),
		B: uint8(math.Clamp(b, 0, 1)*255 + 0.5),
		A: 255,
	}
}
