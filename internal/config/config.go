// Package config handles viewer and engine configuration loading.
package config

import (
	"fmt"

	"github.com/Faultbox/avatar-core/internal/avatar"
	"github.com/Faultbox/avatar-core/internal/engine/animation"
	"github.com/Faultbox/avatar-core/internal/engine/camera"
)

// Config holds all settings. Engine sections reuse the engine packages'
// own config types so YAML maps straight onto them.
type Config struct {
	Animation animation.Config `yaml:"animation"`
	Camera    camera.Config    `yaml:"camera"`
	Mesh      avatar.Config    `yaml:"mesh"`
	Viewer    ViewerConfig     `yaml:"viewer"`
	Logging   LoggingConfig    `yaml:"logging"`
}

// ViewerConfig holds window and host-side settings for the desktop viewer.
type ViewerConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Fullscreen    bool    `yaml:"fullscreen"`
	VSync         bool    `yaml:"vsync"`
	FieldOfView   float32 `yaml:"field_of_view"` // degrees
	Payload       string  `yaml:"payload"`       // avatar JSON loaded at startup
	CaptureDir    string  `yaml:"capture_dir"`
	CaptureFormat string  `yaml:"capture_format"` // png or webp
	Seed          uint64  `yaml:"seed"`           // 0 picks a time-based seed
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Animation: animation.DefaultConfig(),
		Camera:    camera.DefaultConfig(),
		Mesh:      avatar.DefaultConfig(),
		Viewer: ViewerConfig{
			Width:         1280,
			Height:        720,
			VSync:         true,
			FieldOfView:   45,
			CaptureDir:    "captures",
			CaptureFormat: "png",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate repairs out-of-range engine values in place and rejects settings
// that cannot be repaired.
func (c *Config) Validate() error {
	c.Animation = c.Animation.Sanitize()
	c.Camera = c.Camera.Sanitize()
	c.Mesh = c.Mesh.Sanitize()

	switch c.Viewer.CaptureFormat {
	case "png", "webp":
	case "":
		c.Viewer.CaptureFormat = "png"
	default:
		return fmt.Errorf("viewer.capture_format %q: want png or webp", c.Viewer.CaptureFormat)
	}
	if c.Viewer.FieldOfView <= 1 || c.Viewer.FieldOfView >= 179 {
		c.Viewer.FieldOfView = 45
	}
	return nil
}
