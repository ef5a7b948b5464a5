package animation

import "github.com/Faultbox/avatar-core/pkg/math"

// BlinkPhase is the state of the blink generator.
type BlinkPhase int

const (
	BlinkIdle BlinkPhase = iota
	BlinkBlinking
)

func (p BlinkPhase) String() string {
	if p == BlinkBlinking {
		return "blinking"
	}
	return "idle"
}

type blinker struct {
	phase    BlinkPhase
	wait     float64 // seconds until the next blink while idle
	elapsed  float64 // seconds into the current blink
	eyeScale float32
}

func (b *blinker) reset(c *Controller) {
	b.phase = BlinkIdle
	b.eyeScale = 1
	b.wait = c.blinkInterval()
}

func (b *blinker) start() {
	b.phase = BlinkBlinking
	b.elapsed = 0
}

func (b *blinker) update(c *Controller, dt float64) {
	if b.phase == BlinkIdle {
		b.wait -= dt
		if b.wait > 0 {
			return
		}
		// Carry the overshoot into the blink.
		leftover := -b.wait
		b.start()
		dt = leftover
	}

	b.elapsed += dt
	total := c.cfg.BlinkDuration.Seconds()
	half := total / 2
	closed := c.cfg.BlinkClosedScale

	switch {
	case b.elapsed < half:
		b.eyeScale = math.Lerp(1, closed, float32(b.elapsed/half))
	case b.elapsed < total:
		b.eyeScale = math.Lerp(closed, 1, float32((b.elapsed-half)/half))
	default:
		b.eyeScale = 1
		b.phase = BlinkIdle
		b.wait = c.blinkInterval()
	}
}

// blinkInterval samples the idle wait: base ± jitter, uniform.
func (c *Controller) blinkInterval() float64 {
	base := c.cfg.BlinkInterval.Seconds()
	jitter := c.cfg.BlinkJitter.Seconds()
	w := c.uniform(base-jitter, base+jitter)
	if floor := minBlinkInterval.Seconds(); w < floor {
		w = floor
	}
	return w
}

// TriggerBlink starts a blink now. A blink already in progress is left alone.
func (c *Controller) TriggerBlink() {
	if c.blink.phase == BlinkBlinking {
		return
	}
	c.blink.start()
}

// BlinkPhase reports the blink generator state.
func (c *Controller) BlinkPhase() BlinkPhase { return c.blink.phase }
