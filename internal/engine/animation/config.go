package animation

import "time"

// Config holds the tuning of the procedural generators.
type Config struct {
	BreathingIntensity float32 `yaml:"breathing_intensity"` // fraction of body height
	BreathingSpeed     float32 `yaml:"breathing_speed"`     // radians per second

	BlinkInterval    time.Duration `yaml:"blink_interval"`
	BlinkJitter      time.Duration `yaml:"blink_jitter"`
	BlinkDuration    time.Duration `yaml:"blink_duration"`
	BlinkClosedScale float32       `yaml:"blink_closed_scale"`

	HeadRange    float32       `yaml:"head_range"` // degrees of yaw; pitch and roll are fractions of it
	HeadMoveMin  time.Duration `yaml:"head_move_min"`
	HeadMoveMax  time.Duration `yaml:"head_move_max"`
	HeadPauseMin time.Duration `yaml:"head_pause_min"`
	HeadPauseMax time.Duration `yaml:"head_pause_max"`

	MorphSpeed float32 `yaml:"morph_speed"` // weight units per second
}

// minBlinkInterval keeps jitter from producing back-to-back blinks.
const minBlinkInterval = 50 * time.Millisecond

// DefaultConfig returns the default generator settings.
func DefaultConfig() Config {
	return Config{
		BreathingIntensity: 0.01,
		BreathingSpeed:     2,
		BlinkInterval:      3 * time.Second,
		BlinkJitter:        500 * time.Millisecond,
		BlinkDuration:      150 * time.Millisecond,
		BlinkClosedScale:   0.1,
		HeadRange:          10,
		HeadMoveMin:        3 * time.Second,
		HeadMoveMax:        6 * time.Second,
		HeadPauseMin:       1 * time.Second,
		HeadPauseMax:       3 * time.Second,
		MorphSpeed:         2,
	}
}

// Sanitize returns a copy with unusable values replaced or clamped.
func (c Config) Sanitize() Config {
	def := DefaultConfig()

	if !(c.BreathingIntensity >= 0) {
		c.BreathingIntensity = 0
	}
	if c.BreathingIntensity > 0.5 {
		c.BreathingIntensity = 0.5
	}
	if !(c.BreathingSpeed >= 0) {
		c.BreathingSpeed = def.BreathingSpeed
	}

	if c.BlinkInterval < minBlinkInterval {
		c.BlinkInterval = minBlinkInterval
	}
	if c.BlinkJitter < 0 {
		c.BlinkJitter = 0
	}
	if c.BlinkDuration <= 0 {
		c.BlinkDuration = def.BlinkDuration
	}
	if !(c.BlinkClosedScale >= 0) {
		c.BlinkClosedScale = 0
	}
	if c.BlinkClosedScale > 1 {
		c.BlinkClosedScale = 1
	}

	if !(c.HeadRange >= 0) {
		c.HeadRange = 0
	}
	if c.HeadRange > 90 {
		c.HeadRange = 90
	}
	c.HeadMoveMin, c.HeadMoveMax = orderedRange(c.HeadMoveMin, c.HeadMoveMax, 100*time.Millisecond)
	c.HeadPauseMin, c.HeadPauseMax = orderedRange(c.HeadPauseMin, c.HeadPauseMax, 0)

	if !(c.MorphSpeed > 0) {
		c.MorphSpeed = def.MorphSpeed
	}
	return c
}

// orderedRange returns lo <= hi with both at least floor.
func orderedRange(lo, hi, floor time.Duration) (time.Duration, time.Duration) {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < floor {
		lo = floor
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
