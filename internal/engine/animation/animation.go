// Package animation drives the procedural motion that keeps a static avatar
// looking alive: breathing, blinking, idle head motion and blend-weight
// chasing toward expression targets. Everything advances only inside Update,
// so simulated time can be fast-forwarded freely in tests.
package animation

import (
	gomath "math"
	"math/rand/v2"

	"github.com/Faultbox/avatar-core/pkg/math"
)

// Rand is the random source for blink and head timing.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Option configures a Controller.
type Option func(*Controller)

// WithRand injects the random source. Tests pass a seeded one.
func WithRand(r Rand) Option {
	return func(c *Controller) {
		if r != nil {
			c.rng = r
		}
	}
}

// Head is an orientation offset in degrees.
type Head struct {
	Pitch, Yaw, Roll float32
}

// Add returns h + o.
func (h Head) Add(o Head) Head {
	return Head{h.Pitch + o.Pitch, h.Yaw + o.Yaw, h.Roll + o.Roll}
}

func (h Head) lerp(o Head, t float32) Head {
	return Head{
		Pitch: math.Lerp(h.Pitch, o.Pitch, t),
		Yaw:   math.Lerp(h.Yaw, o.Yaw, t),
		Roll:  math.Lerp(h.Roll, o.Roll, t),
	}
}

// Pose is the animation output for one tick.
type Pose struct {
	BodyScaleY float32
	EyeScale   float32
	Head       Head
	Weights    map[string]float32
}

type channel struct {
	current float32
	target  float32
}

// Controller owns the animation state of one avatar. It is not safe for
// concurrent use; the presenter drives it from the tick thread only.
type Controller struct {
	cfg Config
	rng Rand

	names    []string
	channels map[string]*channel
	triggers map[string]*trigger

	elapsed float64 // simulated seconds
	blink   blinker
	head    headMotion
	clip    *clipPlayer
}

// New creates a controller for an avatar with the given blend channels.
func New(cfg Config, channels []string, opts ...Option) *Controller {
	c := &Controller{
		cfg:      cfg.Sanitize(),
		channels: make(map[string]*channel, len(channels)),
		triggers: make(map[string]*trigger),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	for _, name := range channels {
		if _, dup := c.channels[name]; dup || name == "" {
			continue
		}
		c.names = append(c.names, name)
		c.channels[name] = &channel{}
	}

	c.blink.reset(c)
	c.head.reset(c)
	return c
}

// Update advances every generator by dt seconds. Non-positive or non-finite
// steps are ignored.
func (c *Controller) Update(dt float64) {
	if !(dt > 0) || gomath.IsInf(dt, 0) {
		return
	}
	c.elapsed += dt

	c.blink.update(c, dt)
	c.head.update(c, dt)
	c.updateTriggers(dt)
	if c.clip != nil {
		c.updateClip(dt)
	}
	c.chase(dt)
}

// chase moves every channel toward its target at MorphSpeed without
// overshooting.
func (c *Controller) chase(dt float64) {
	step := c.cfg.MorphSpeed * float32(dt)
	for _, ch := range c.channels {
		diff := ch.target - ch.current
		switch {
		case diff == 0:
		case gomath.Abs(float64(diff)) <= float64(step):
			ch.current = ch.target
		case diff > 0:
			ch.current += step
		default:
			ch.current -= step
		}
	}
}

// BreathingScale is the vertical body scale at time t.
func BreathingScale(t float64, intensity, speed float32) float32 {
	return 1 + intensity*float32(gomath.Sin(t*float64(speed)))
}

// Pose returns the current animation output.
func (c *Controller) Pose() Pose {
	p := Pose{
		BodyScaleY: BreathingScale(c.elapsed, c.cfg.BreathingIntensity, c.cfg.BreathingSpeed),
		EyeScale:   c.blink.eyeScale,
		Head:       c.head.current,
		Weights:    make(map[string]float32, len(c.channels)),
	}
	if c.clip != nil {
		if c.clip.eyeScale != nil {
			p.EyeScale *= *c.clip.eyeScale
		}
		p.Head = p.Head.Add(c.clip.head)
	}
	for name, ch := range c.channels {
		p.Weights[name] = ch.current
	}
	return p
}

// Elapsed returns the simulated time in seconds.
func (c *Controller) Elapsed() float64 { return c.elapsed }

// Channels returns the channel names in creation order.
func (c *Controller) Channels() []string {
	return append([]string(nil), c.names...)
}

// Weight returns the current weight of a channel.
func (c *Controller) Weight(name string) (float32, bool) {
	ch, ok := c.channels[name]
	if !ok {
		return 0, false
	}
	return ch.current, true
}

// Target returns the weight a channel is chasing.
func (c *Controller) Target(name string) (float32, bool) {
	ch, ok := c.channels[name]
	if !ok {
		return 0, false
	}
	return ch.target, true
}

// uniform returns a value in [lo, hi).
func (c *Controller) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*c.rng.Float64()
}

// symmetric returns a value in [-r, r).
func (c *Controller) symmetric(r float32) float32 {
	return float32(c.uniform(-float64(r), float64(r)))
}
