package camera

import (
	"time"

	"github.com/Faultbox/avatar-core/pkg/math"
)

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(float32) float32

// TransitionKind names the scripted moves.
type TransitionKind int

const (
	TransitionNone TransitionKind = iota
	TransitionReset
	TransitionFocus
	TransitionIntro
	TransitionDoubleTap
	TransitionDistance
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionReset:
		return "reset"
	case TransitionFocus:
		return "focus"
	case TransitionIntro:
		return "intro"
	case TransitionDoubleTap:
		return "double-tap"
	case TransitionDistance:
		return "distance"
	default:
		return "none"
	}
}

// segment is one eased move. The start state is captured when the segment
// begins; end computes the destination from it.
type segment struct {
	duration float64
	easing   Easing
	end      func(from State) State

	started  bool
	from, to State
}

type transition struct {
	kind     TransitionKind
	segments []segment
	index    int
	elapsed  float64 // seconds into the current segment
}

func (c *Controller) start(kind TransitionKind, segs ...segment) {
	c.transition = &transition{kind: kind, segments: segs}
}

func ease(d time.Duration, end func(State) State) segment {
	return segment{duration: d.Seconds(), easing: math.SmoothStep, end: end}
}

func fixed(s State) func(State) State {
	return func(State) State { return s }
}

// advance moves the active transition forward, spilling leftover time into
// the next segment.
func (c *Controller) advance(dt float64) {
	tr := c.transition
	tr.elapsed += dt

	for {
		seg := &tr.segments[tr.index]
		if !seg.started {
			seg.started = true
			seg.from = c.state
			seg.to = c.clamp(seg.end(seg.from))
			// Unwrap the destination yaw so interpolation takes the short way.
			seg.to.Yaw = seg.from.Yaw + math.ShortestAngle(seg.from.Yaw, seg.to.Yaw)
		}

		if tr.elapsed < seg.duration {
			p := seg.easing(float32(tr.elapsed / seg.duration))
			c.state = State{
				Yaw:      math.WrapDegrees(math.Lerp(seg.from.Yaw, seg.to.Yaw, p)),
				Pitch:    math.Lerp(seg.from.Pitch, seg.to.Pitch, p),
				Distance: math.Lerp(seg.from.Distance, seg.to.Distance, p),
			}
			return
		}

		c.state = c.clamp(seg.to)
		tr.elapsed -= seg.duration
		tr.index++
		if tr.index == len(tr.segments) {
			c.transition = nil
			c.idle = 0
			return
		}
	}
}

// InTransition reports whether a scripted move owns the camera.
func (c *Controller) InTransition() bool { return c.transition != nil }

// Transition returns the kind of the active transition.
func (c *Controller) Transition() TransitionKind {
	if c.transition == nil {
		return TransitionNone
	}
	return c.transition.kind
}

// Reset eases back to the default state.
func (c *Controller) Reset() {
	c.start(TransitionReset, ease(c.cfg.TransitionDuration, fixed(c.defaultState())))
}

// FocusOnSubject eases to the close-up framing of the face.
func (c *Controller) FocusOnSubject() {
	c.start(TransitionFocus, ease(c.cfg.TransitionDuration, fixed(State{
		Yaw:      c.cfg.DefaultYaw,
		Pitch:    c.cfg.FocusPitch,
		Distance: c.cfg.FocusDistance,
	})))
}

// PlayIntro cuts to a wide side shot and sweeps in to the default state in
// two moves.
func (c *Controller) PlayIntro() {
	def := c.defaultState()
	c.state = c.clamp(State{
		Yaw:      def.Yaw + 90,
		Pitch:    def.Pitch + 25,
		Distance: c.cfg.MaxDistance * 0.9,
	})

	total := c.cfg.IntroDuration
	sweep := total * 6 / 10
	c.start(TransitionIntro,
		ease(sweep, fixed(State{
			Yaw:      def.Yaw - 20,
			Pitch:    def.Pitch + 10,
			Distance: def.Distance * 1.5,
		})),
		ease(total-sweep, fixed(def)),
	)
}

// DoubleTapTarget returns the distance a double tap zooms to from d: far
// when close, close when far.
func (c *Controller) DoubleTapTarget(d float32) float32 {
	mid := (c.cfg.MinDistance + c.cfg.MaxDistance) / 2
	if d < mid {
		return c.cfg.MaxDistance * 0.8
	}
	return c.cfg.MinDistance * 1.5
}

// DoubleTapZoom toggles between a close and a far framing.
func (c *Controller) DoubleTapZoom() {
	dist := c.DoubleTapTarget(c.state.Distance)
	c.start(TransitionDoubleTap, ease(c.cfg.DoubleTapDuration, keepAngles(dist)))
}

// SetDistance eases to distance d, clamped. Non-finite values are ignored.
func (c *Controller) SetDistance(d float32) {
	if !math.IsFinite(d) {
		return
	}
	c.start(TransitionDistance, ease(c.cfg.TransitionDuration, keepAngles(d)))
}

func keepAngles(d float32) func(State) State {
	return func(from State) State {
		return State{Yaw: from.Yaw, Pitch: from.Pitch, Distance: d}
	}
}
