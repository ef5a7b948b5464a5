package animation

import "github.com/Faultbox/avatar-core/pkg/math"

// Pitch and roll travel a fraction of the yaw range.
const (
	headPitchFactor = 0.3
	headRollFactor  = 0.2
)

type headMotion struct {
	from, to, current Head
	elapsed, duration float64
	pause             float64 // remaining seconds of rest; 0 while moving
}

func (h *headMotion) reset(c *Controller) {
	h.current = Head{}
	h.retarget(c)
}

func (h *headMotion) retarget(c *Controller) {
	r := c.cfg.HeadRange
	h.from = h.current
	h.to = Head{
		Pitch: c.symmetric(r * headPitchFactor),
		Yaw:   c.symmetric(r),
		Roll:  c.symmetric(r * headRollFactor),
	}
	h.elapsed = 0
	h.duration = c.uniform(c.cfg.HeadMoveMin.Seconds(), c.cfg.HeadMoveMax.Seconds())
}

func (h *headMotion) update(c *Controller, dt float64) {
	if h.pause > 0 {
		h.pause -= dt
		if h.pause > 0 {
			return
		}
		dt = -h.pause
		h.pause = 0
		h.retarget(c)
	}

	h.elapsed += dt
	if h.elapsed >= h.duration {
		h.current = h.to
		h.pause = c.uniform(c.cfg.HeadPauseMin.Seconds(), c.cfg.HeadPauseMax.Seconds())
		if h.pause <= 0 {
			h.retarget(c)
		}
		return
	}
	h.current = h.from.lerp(h.to, math.SmoothStep(float32(h.elapsed/h.duration)))
}
