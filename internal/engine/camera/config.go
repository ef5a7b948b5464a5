package camera

import (
	"time"

	"github.com/Faultbox/avatar-core/pkg/math"
)

// Config holds orbit limits, input sensitivities and transition timing.
// Angles are degrees, distances world units.
type Config struct {
	DefaultYaw      float32 `yaml:"default_yaw"`
	DefaultPitch    float32 `yaml:"default_pitch"`
	DefaultDistance float32 `yaml:"default_distance"`

	MinDistance float32 `yaml:"min_distance"`
	MaxDistance float32 `yaml:"max_distance"`
	MinPitch    float32 `yaml:"min_pitch"`
	MaxPitch    float32 `yaml:"max_pitch"`

	DragSensitivity  float32 `yaml:"drag_sensitivity"`  // degrees per pixel
	PinchSensitivity float32 `yaml:"pinch_sensitivity"` // units per pixel of separation
	WheelSensitivity float32 `yaml:"wheel_sensitivity"` // units per notch
	InvertY          bool    `yaml:"invert_y"`

	AutoRotateSpeed float32       `yaml:"auto_rotate_speed"` // degrees per second
	IdleDelay       time.Duration `yaml:"idle_delay"`

	VerticalOffset float32 `yaml:"vertical_offset"`

	TransitionDuration time.Duration `yaml:"transition_duration"`
	FocusPitch         float32       `yaml:"focus_pitch"`
	FocusDistance      float32       `yaml:"focus_distance"`
	IntroDuration      time.Duration `yaml:"intro_duration"`
	IntroOnLoad        bool          `yaml:"intro_on_load"`
	DoubleTapDuration  time.Duration `yaml:"double_tap_duration"`
}

// DefaultConfig returns the default camera settings.
func DefaultConfig() Config {
	return Config{
		DefaultYaw:         0,
		DefaultPitch:       20,
		DefaultDistance:    4,
		MinDistance:        1,
		MaxDistance:        10,
		MinPitch:           -30,
		MaxPitch:           80,
		DragSensitivity:    0.3,
		PinchSensitivity:   0.02,
		WheelSensitivity:   0.5,
		AutoRotateSpeed:    10,
		IdleDelay:          5 * time.Second,
		TransitionDuration: time.Second,
		FocusPitch:         10,
		FocusDistance:      2,
		IntroDuration:      3 * time.Second,
		IntroOnLoad:        true,
		DoubleTapDuration:  600 * time.Millisecond,
	}
}

// Sanitize returns a copy with inconsistent limits repaired and every
// preset pulled inside them.
func (c Config) Sanitize() Config {
	def := DefaultConfig()

	finite := func(v *float32, fallback float32) {
		if !math.IsFinite(*v) {
			*v = fallback
		}
	}
	finite(&c.DefaultYaw, def.DefaultYaw)
	finite(&c.DefaultPitch, def.DefaultPitch)
	finite(&c.DefaultDistance, def.DefaultDistance)
	finite(&c.MinDistance, def.MinDistance)
	finite(&c.MaxDistance, def.MaxDistance)
	finite(&c.MinPitch, def.MinPitch)
	finite(&c.MaxPitch, def.MaxPitch)
	finite(&c.DragSensitivity, def.DragSensitivity)
	finite(&c.PinchSensitivity, def.PinchSensitivity)
	finite(&c.WheelSensitivity, def.WheelSensitivity)
	finite(&c.AutoRotateSpeed, def.AutoRotateSpeed)
	finite(&c.VerticalOffset, 0)
	finite(&c.FocusPitch, def.FocusPitch)
	finite(&c.FocusDistance, def.FocusDistance)

	if c.MinDistance > c.MaxDistance {
		c.MinDistance, c.MaxDistance = c.MaxDistance, c.MinDistance
	}
	if c.MinDistance < 0.01 {
		c.MinDistance = 0.01
	}
	if c.MaxDistance < c.MinDistance {
		c.MaxDistance = c.MinDistance
	}

	if c.MinPitch > c.MaxPitch {
		c.MinPitch, c.MaxPitch = c.MaxPitch, c.MinPitch
	}
	// Looking straight up or down breaks LookAt.
	c.MinPitch = math.Clamp(c.MinPitch, -89, 89)
	c.MaxPitch = math.Clamp(c.MaxPitch, -89, 89)

	c.DefaultYaw = math.WrapDegrees(c.DefaultYaw)
	c.DefaultPitch = math.Clamp(c.DefaultPitch, c.MinPitch, c.MaxPitch)
	c.DefaultDistance = math.Clamp(c.DefaultDistance, c.MinDistance, c.MaxDistance)
	c.FocusPitch = math.Clamp(c.FocusPitch, c.MinPitch, c.MaxPitch)
	c.FocusDistance = math.Clamp(c.FocusDistance, c.MinDistance, c.MaxDistance)

	for _, d := range []*time.Duration{&c.IdleDelay, &c.TransitionDuration, &c.IntroDuration, &c.DoubleTapDuration} {
		if *d < 0 {
			*d = 0
		}
	}
	return c
}
