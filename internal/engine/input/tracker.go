package input

import (
	"time"

	"github.com/Faultbox/avatar-core/pkg/math"
)

// Double tap recognition limits.
const (
	DefaultDoubleTapWindow = 300 * time.Millisecond
	DefaultDoubleTapRadius = 20 // pixels
)

// Frame is the gesture snapshot for one tick.
type Frame struct {
	DragDX, DragDY float32 // single-pointer movement in pixels
	Dragging       bool
	PinchDelta     float32 // change of two-pointer separation in pixels
	Pinching       bool
	Wheel          float32
	DoubleTap      bool
	// Active is set when any event arrived or a pointer is held down.
	Active bool
}

type tap struct {
	pos   math.Vec2
	at    time.Duration
	valid bool
}

// Tracker turns raw events into frames. It keeps pointer state between
// ticks and is owned by the tick thread.
type Tracker struct {
	DoubleTapWindow time.Duration
	DoubleTapRadius float32

	pointers map[int]math.Vec2
	lastTap  tap
}

// NewTracker creates a tracker with the default double tap limits.
func NewTracker() *Tracker {
	return &Tracker{
		DoubleTapWindow: DefaultDoubleTapWindow,
		DoubleTapRadius: DefaultDoubleTapRadius,
		pointers:        make(map[int]math.Vec2),
	}
}

// Apply folds a drained batch into a frame.
func (t *Tracker) Apply(events []Event) Frame {
	var f Frame
	for _, e := range events {
		if !e.pos().IsFinite() || !math.IsFinite(e.Delta) {
			continue
		}
		f.Active = true

		switch e.Kind {
		case KindPointerDown:
			t.down(&f, e)
		case KindPointerMove:
			t.move(&f, e)
		case KindPointerUp:
			delete(t.pointers, e.ID)
		case KindWheel:
			f.Wheel += e.Delta
		case KindDoubleTap:
			f.DoubleTap = true
		}
	}
	if len(t.pointers) > 0 {
		f.Active = true
	}
	return f
}

func (t *Tracker) down(f *Frame, e Event) {
	t.pointers[e.ID] = e.pos()

	if len(t.pointers) != 1 {
		// A second finger is a pinch, not a tap.
		t.lastTap.valid = false
		return
	}

	last := t.lastTap
	if last.valid && e.Time-last.at <= t.DoubleTapWindow && e.pos().Distance(last.pos) <= t.DoubleTapRadius {
		f.DoubleTap = true
		t.lastTap.valid = false
		return
	}
	t.lastTap = tap{pos: e.pos(), at: e.Time, valid: true}
}

func (t *Tracker) move(f *Frame, e Event) {
	prev, ok := t.pointers[e.ID]
	if !ok {
		return
	}

	switch len(t.pointers) {
	case 1:
		d := e.pos().Sub(prev)
		f.DragDX += d.X
		f.DragDY += d.Y
		f.Dragging = true
	case 2:
		other := t.other(e.ID)
		before := prev.Distance(other)
		after := e.pos().Distance(other)
		f.PinchDelta += after - before
		f.Pinching = true
	}
	t.pointers[e.ID] = e.pos()
}

func (t *Tracker) other(id int) math.Vec2 {
	for k, p := range t.pointers {
		if k != id {
			return p
		}
	}
	return math.Vec2{}
}

// Pointers returns the number of pointers held down.
func (t *Tracker) Pointers() int { return len(t.pointers) }

// Reset forgets all pointers, e.g. when the window loses focus.
func (t *Tracker) Reset() {
	clear(t.pointers)
	t.lastTap = tap{}
}
