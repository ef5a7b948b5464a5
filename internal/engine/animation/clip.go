package animation

import (
	gomath "math"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/avatar-core/internal/logger"
	"github.com/Faultbox/avatar-core/pkg/math"
	"github.com/Faultbox/avatar-core/pkg/payload"
)

// clipPlayer samples a keyframed clip on top of the procedural generators.
type clipPlayer struct {
	clip     payload.AnimationClip
	time     float64
	restore  map[string]float32 // targets to put back when the clip ends
	eyeScale *float32
	head     Head
}

// PlayClip starts a keyframed clip, replacing any clip already playing.
// Clip weights drive channel targets, the clip eye scale multiplies the
// blink eye scale and the clip head rotation adds to the procedural head.
func (c *Controller) PlayClip(clip payload.AnimationClip) {
	c.StopClip()
	if len(clip.Keyframes) == 0 {
		logger.Warn("ignoring clip without keyframes", zap.String("clip", clip.Name))
		return
	}

	keys := append([]payload.Keyframe(nil), clip.Keyframes...)
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].Time < keys[j].Time })
	clip.Keyframes = keys

	p := &clipPlayer{clip: clip, restore: make(map[string]float32)}
	for _, k := range keys {
		for name := range k.BlendWeights {
			ch, ok := c.channels[name]
			if !ok {
				continue
			}
			if _, seen := p.restore[name]; !seen {
				p.restore[name] = ch.target
				if t, pending := c.triggers[name]; pending {
					p.restore[name] = t.restore
					delete(c.triggers, name)
				}
			}
		}
	}
	c.clip = p
	c.sampleClip()
}

// StopClip ends the playing clip and restores the targets it overrode.
func (c *Controller) StopClip() {
	if c.clip == nil {
		return
	}
	for name, v := range c.clip.restore {
		c.channels[name].target = v
	}
	c.clip = nil
}

// PlayingClip returns the name of the playing clip, if any.
func (c *Controller) PlayingClip() (string, bool) {
	if c.clip == nil {
		return "", false
	}
	return c.clip.clip.Name, true
}

func (c *Controller) updateClip(dt float64) {
	p := c.clip
	p.time += dt

	dur := float64(p.clip.Duration)
	if p.time >= dur {
		if !p.clip.Loop {
			c.StopClip()
			return
		}
		if dur > 0 {
			p.time = gomath.Mod(p.time, dur)
		} else {
			p.time = 0
		}
	}
	c.sampleClip()
}

func (c *Controller) sampleClip() {
	p := c.clip
	t := float32(p.time)
	keys := p.clip.Keyframes

	for name := range p.restore {
		if w, ok := sampleScalar(keys, t, func(k payload.Keyframe) (float32, bool) {
			v, ok := k.BlendWeights[name]
			return v, ok
		}); ok {
			c.channels[name].target = math.Clamp(w, 0, 1)
		}
	}

	if e, ok := sampleScalar(keys, t, func(k payload.Keyframe) (float32, bool) {
		if k.EyeScale == nil {
			return 0, false
		}
		return *k.EyeScale, true
	}); ok {
		e = math.Clamp(e, 0, 1)
		p.eyeScale = &e
	} else {
		p.eyeScale = nil
	}

	p.head = Head{}
	for axis := 0; axis < 3; axis++ {
		v, ok := sampleScalar(keys, t, func(k payload.Keyframe) (float32, bool) {
			if k.HeadRotation == nil {
				return 0, false
			}
			return k.HeadRotation[axis], true
		})
		if !ok || !math.IsFinite(v) {
			continue
		}
		switch axis {
		case 0:
			p.head.Pitch = v
		case 1:
			p.head.Yaw = v
		case 2:
			p.head.Roll = v
		}
	}
}

// sampleScalar interpolates linearly between the keyframes that carry a
// value. Before the first or after the last such keyframe the value holds.
func sampleScalar(keys []payload.Keyframe, t float32, get func(payload.Keyframe) (float32, bool)) (float32, bool) {
	var (
		prevT, prevV float32
		havePrev     bool
	)
	for _, k := range keys {
		v, ok := get(k)
		if !ok || !math.IsFinite(v) {
			continue
		}
		if k.Time >= t {
			if !havePrev || k.Time == prevT {
				return v, true
			}
			return math.Lerp(prevV, v, (t-prevT)/(k.Time-prevT)), true
		}
		prevT, prevV, havePrev = k.Time, v, true
	}
	return prevV, havePrev
}
