// Package input buffers pointer, touch and wheel events delivered from any
// goroutine and folds them into one snapshot per tick.
package input

import (
	"sync"
	"time"

	"github.com/Faultbox/avatar-core/pkg/math"
)

// Kind identifies an input event.
type Kind int

const (
	KindNone Kind = iota
	KindPointerDown
	KindPointerMove
	KindPointerUp
	KindWheel
	KindDoubleTap // recognized by the platform
)

func (k Kind) String() string {
	switch k {
	case KindPointerDown:
		return "pointer-down"
	case KindPointerMove:
		return "pointer-move"
	case KindPointerUp:
		return "pointer-up"
	case KindWheel:
		return "wheel"
	case KindDoubleTap:
		return "double-tap"
	default:
		return "none"
	}
}

// Event is one raw input event. Pointer IDs distinguish touches; a mouse is
// pointer 0. Time is a monotonic timestamp used for tap detection.
type Event struct {
	Kind  Kind
	ID    int
	X, Y  float32
	Delta float32 // wheel notches, positive zooms in
	Time  time.Duration
}

// PointerDown returns a pointer-down event.
func PointerDown(id int, x, y float32, at time.Duration) Event {
	return Event{Kind: KindPointerDown, ID: id, X: x, Y: y, Time: at}
}

// PointerMove returns a pointer-move event.
func PointerMove(id int, x, y float32, at time.Duration) Event {
	return Event{Kind: KindPointerMove, ID: id, X: x, Y: y, Time: at}
}

// PointerUp returns a pointer-up event.
func PointerUp(id int, x, y float32, at time.Duration) Event {
	return Event{Kind: KindPointerUp, ID: id, X: x, Y: y, Time: at}
}

// Wheel returns a wheel event.
func Wheel(delta float32, at time.Duration) Event {
	return Event{Kind: KindWheel, Delta: delta, Time: at}
}

func (e Event) pos() math.Vec2 { return math.Vec2{X: e.X, Y: e.Y} }

// Queue collects events between ticks. Push may be called from any
// goroutine; Drain is called once per tick by the owner.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{events: make([]Event, 0, 16)}
}

// Push appends an event.
func (q *Queue) Push(e Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

// Drain returns everything pushed since the last drain. buf is reused as
// the next buffer, so the caller must be done with it.
func (q *Queue) Drain(buf []Event) []Event {
	q.mu.Lock()
	out := q.events
	q.events = buf[:0]
	q.mu.Unlock()
	return out
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
