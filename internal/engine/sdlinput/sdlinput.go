// Package sdlinput polls SDL2 events, forwards pointer input to the
// presenter and keeps window and keyboard events for the host.
package sdlinput

import (
	"math"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/avatar-core/internal/engine/input"
)

// EventType is a host-level event kind.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventDropFile
)

// Event is a host-level event. Pointer input never shows up here.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	Path   string // dropped file
}

// Sink receives pointer events.
type Sink interface {
	PushInput(e input.Event)
}

// mouseID is the pointer id of the mouse. Fingers start above it.
const mouseID = 0

// touchMouseID marks mouse events SDL synthesizes from touches (SDL_TOUCH_MOUSEID).
// Fingers are handled directly, so those are dropped.
const touchMouseID = math.MaxUint32

// Input translates SDL events.
type Input struct {
	sink    Sink
	events  []Event
	width   float32
	height  float32
	fingers map[sdl.FingerID]int
	nextID  int
	mouseDn bool
}

// New creates an input handler forwarding pointer events to sink. The size
// scales normalized touch coordinates into window coordinates.
func New(sink Sink, width, height int) *Input {
	return &Input{
		sink:    sink,
		events:  make([]Event, 0, 16),
		width:   float32(width),
		height:  float32(height),
		fingers: make(map[sdl.FingerID]int),
		nextID:  mouseID + 1,
	}
}

// Update polls SDL events. Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.translate(event) {
			quit = true
		}
	}
	return quit
}

// translate handles one SDL event and reports whether it asks to quit.
func (i *Input) translate(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.width, i.height = float32(e.Data1), float32(e.Data2)
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return false
		}
		t := EventKeyUp
		if e.Type == sdl.KEYDOWN {
			t = EventKeyDown
		}
		i.events = append(i.events, Event{Type: t, Key: e.Keysym.Scancode})

	case *sdl.MouseButtonEvent:
		if e.Which == touchMouseID || e.Button != sdl.BUTTON_LEFT {
			return false
		}
		at := stamp(e.Timestamp)
		x, y := float32(e.X), float32(e.Y)
		if e.Type == sdl.MOUSEBUTTONDOWN {
			i.mouseDn = true
			i.sink.PushInput(input.PointerDown(mouseID, x, y, at))
		} else if i.mouseDn {
			i.mouseDn = false
			i.sink.PushInput(input.PointerUp(mouseID, x, y, at))
		}

	case *sdl.MouseMotionEvent:
		if e.Which == touchMouseID || !i.mouseDn {
			return false
		}
		i.sink.PushInput(input.PointerMove(mouseID, float32(e.X), float32(e.Y), stamp(e.Timestamp)))

	case *sdl.MouseWheelEvent:
		if e.Which == touchMouseID || e.Y == 0 {
			return false
		}
		delta := float32(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			delta = -delta
		}
		i.sink.PushInput(input.Wheel(delta, stamp(e.Timestamp)))

	case *sdl.TouchFingerEvent:
		i.finger(e)

	case *sdl.DropEvent:
		if e.Type == sdl.DROPFILE && e.File != "" {
			i.events = append(i.events, Event{Type: EventDropFile, Path: e.File})
		}
	}
	return false
}

func (i *Input) finger(e *sdl.TouchFingerEvent) {
	at := stamp(e.Timestamp)
	x, y := e.X*i.width, e.Y*i.height

	switch e.Type {
	case sdl.FINGERDOWN:
		id := i.nextID
		i.nextID++
		i.fingers[e.FingerID] = id
		i.sink.PushInput(input.PointerDown(id, x, y, at))
	case sdl.FINGERMOTION:
		if id, ok := i.fingers[e.FingerID]; ok {
			i.sink.PushInput(input.PointerMove(id, x, y, at))
		}
	case sdl.FINGERUP:
		if id, ok := i.fingers[e.FingerID]; ok {
			delete(i.fingers, e.FingerID)
			i.sink.PushInput(input.PointerUp(id, x, y, at))
		}
	}
}

// Events returns the host events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

func stamp(ms uint32) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
