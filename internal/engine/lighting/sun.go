// Package lighting turns the avatar's lighting parameters into the values
// the mesh shader consumes.
package lighting

import (
	"math"

	"github.com/Faultbox/avatar-core/internal/avatar"
)

// Parameter keys beyond the ambient and directional ones.
const (
	KeyRim       = "rim_light_intensity"
	KeyAzimuth   = "light_azimuth"   // degrees around Y
	KeyElevation = "light_elevation" // degrees above the horizon
)

// maxIntensity bounds every intensity read from a payload.
const maxIntensity = 4

// Params is the resolved lighting for one avatar.
type Params struct {
	Ambient     float32
	Directional float32
	Rim         float32
	Direction   [3]float32 // normalized, pointing toward the light
}

// Default is the lighting used when a payload carries none.
func Default() Params {
	return Params{
		Ambient:     0.2,
		Directional: 0.8,
		Rim:         0.3,
		Direction:   SunDirection(30, 45),
	}
}

// FromModel resolves the model's lighting parameters over the defaults.
// Intensities are clamped to [0, 4].
func FromModel(m *avatar.Model) Params {
	def := Default()
	if m == nil {
		return def
	}
	get := func(key string, fallback float32) float32 {
		v := m.LightingParam(key, fallback)
		if v < 0 {
			return 0
		}
		if v > maxIntensity {
			return maxIntensity
		}
		return v
	}
	return Params{
		Ambient:     get(avatar.LightAmbient, def.Ambient),
		Directional: get(avatar.LightDirectional, def.Directional),
		Rim:         get(KeyRim, def.Rim),
		Direction:   SunDirection(m.LightingParam(KeyAzimuth, 30), m.LightingParam(KeyElevation, 45)),
	}
}

// SunDirection converts azimuth/elevation angles in degrees to a unit vector
// pointing toward the light.
func SunDirection(azimuth, elevation float32) [3]float32 {
	az := float64(azimuth) * math.Pi / 180.0
	el := float64(elevation) * math.Pi / 180.0

	x := float32(math.Cos(el) * math.Sin(az))
	y := float32(math.Sin(el))
	z := float32(math.Cos(el) * math.Cos(az))

	return [3]float32{x, y, z}
}
