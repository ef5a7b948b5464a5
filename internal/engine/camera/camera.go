// Package camera provides the orbit camera used to view the avatar.
package camera

import (
	gomath "math"

	"github.com/Faultbox/avatar-core/internal/engine/input"
	"github.com/Faultbox/avatar-core/pkg/math"
)

// State is the spherical camera position around the target.
type State struct {
	Yaw      float32 // degrees, wrapped to [-180, 180)
	Pitch    float32 // degrees above the horizon
	Distance float32
}

// Transform is the derived camera placement for one frame.
type Transform struct {
	Position math.Vec3
	Target   math.Vec3
	State    State
}

// Controller orbits a target point. Direct input, idle auto-rotation and
// scripted transitions all write the same State; while a transition runs it
// owns the state and input is dropped.
type Controller struct {
	cfg    Config
	state  State
	target math.Vec3

	transition *transition
	idle       float64 // seconds since the last input
}

// New creates a controller at the configured default state.
func New(cfg Config) *Controller {
	c := &Controller{cfg: cfg.Sanitize()}
	c.state = c.defaultState()
	return c
}

// Config returns the sanitized configuration.
func (c *Controller) Config() Config { return c.cfg }

// State returns the current spherical state.
func (c *Controller) State() State { return c.state }

// SetState jumps to s, clamped. Non-finite components are ignored. An active
// transition keeps running from the new state.
func (c *Controller) SetState(s State) {
	if math.IsFinite(s.Yaw) {
		c.state.Yaw = s.Yaw
	}
	if math.IsFinite(s.Pitch) {
		c.state.Pitch = s.Pitch
	}
	if math.IsFinite(s.Distance) {
		c.state.Distance = s.Distance
	}
	c.state = c.clamp(c.state)
}

// Target returns the focal point.
func (c *Controller) Target() math.Vec3 { return c.target }

// SetTarget moves the focal point.
func (c *Controller) SetTarget(v math.Vec3) {
	if v.IsFinite() {
		c.target = v
	}
}

// Update advances the camera by dt seconds using this tick's input.
func (c *Controller) Update(dt float64, f input.Frame) {
	if !(dt >= 0) || gomath.IsInf(dt, 0) {
		dt = 0
	}

	if c.transition != nil {
		c.advance(dt)
		return
	}

	if f.DoubleTap {
		c.DoubleTapZoom()
		return
	}

	switch {
	case f.Pinching || f.Wheel != 0:
		c.zoom(f.PinchDelta*c.cfg.PinchSensitivity + f.Wheel*c.cfg.WheelSensitivity)
	case f.Dragging:
		c.drag(f.DragDX, f.DragDY)
	}

	if f.Active || f.Dragging || f.Pinching || f.Wheel != 0 {
		c.idle = 0
		return
	}
	c.idle += dt
	if c.idle >= c.cfg.IdleDelay.Seconds() {
		c.state.Yaw = math.WrapDegrees(c.state.Yaw + c.cfg.AutoRotateSpeed*float32(dt))
	}
}

func (c *Controller) zoom(amount float32) {
	if !math.IsFinite(amount) || amount == 0 {
		return
	}
	c.state.Distance = math.Clamp(c.state.Distance-amount, c.cfg.MinDistance, c.cfg.MaxDistance)
}

func (c *Controller) drag(dx, dy float32) {
	if !math.IsFinite(dx) || !math.IsFinite(dy) || (dx == 0 && dy == 0) {
		return
	}
	s := c.cfg.DragSensitivity
	sign := float32(1)
	if c.cfg.InvertY {
		sign = -1
	}
	c.state.Yaw = math.WrapDegrees(c.state.Yaw + dx*s)
	c.state.Pitch = math.Clamp(c.state.Pitch-sign*dy*s, c.cfg.MinPitch, c.cfg.MaxPitch)
}

// Idle returns the seconds since the last input.
func (c *Controller) Idle() float64 { return c.idle }

// Position returns the camera position in world space.
func (c *Controller) Position() math.Vec3 {
	dir := math.SphericalToCartesian(c.state.Yaw, c.state.Pitch)
	return c.target.Add(dir.Scale(c.state.Distance)).Add(math.Vec3{Y: c.cfg.VerticalOffset})
}

// ViewMatrix returns the view matrix looking at the target.
func (c *Controller) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.target, math.Up)
}

// Transform returns the derived placement for the current state.
func (c *Controller) Transform() Transform {
	return Transform{Position: c.Position(), Target: c.target, State: c.state}
}

// FitToBounds aims at the center of a box.
func (c *Controller) FitToBounds(lo, hi math.Vec3) {
	c.SetTarget(lo.Add(hi).Scale(0.5))
}

func (c *Controller) defaultState() State {
	return State{Yaw: c.cfg.DefaultYaw, Pitch: c.cfg.DefaultPitch, Distance: c.cfg.DefaultDistance}
}

func (c *Controller) clamp(s State) State {
	return State{
		Yaw:      math.WrapDegrees(s.Yaw),
		Pitch:    math.Clamp(s.Pitch, c.cfg.MinPitch, c.cfg.MaxPitch),
		Distance: math.Clamp(s.Distance, c.cfg.MinDistance, c.cfg.MaxDistance),
	}
}
