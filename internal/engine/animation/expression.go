package animation

import (
	"go.uber.org/zap"

	"github.com/Faultbox/avatar-core/internal/logger"
	"github.com/Faultbox/avatar-core/pkg/math"
)

// trigger is a temporary expression waiting to be restored.
type trigger struct {
	restore   float32
	remaining float64
}

func (c *Controller) lookup(op, name string) (*channel, bool) {
	ch, ok := c.channels[name]
	if !ok {
		logger.Warn("ignoring expression for unknown channel",
			zap.String("op", op), zap.String("channel", name))
	}
	return ch, ok
}

// clipRestore reports the target a playing clip will put back on name.
func (c *Controller) clipRestore(name string) (float32, bool) {
	if c.clip == nil {
		return 0, false
	}
	v, ok := c.clip.restore[name]
	return v, ok
}

// SetExpression sets the target weight of a channel, clamped to [0,1]. A
// pending TriggerExpression on the channel is dropped. Unknown channels are
// logged and leave the state untouched.
func (c *Controller) SetExpression(name string, intensity float32) {
	ch, ok := c.lookup("set expression", name)
	if !ok {
		return
	}
	delete(c.triggers, name)
	ch.target = math.Clamp(intensity, 0, 1)
	if _, driven := c.clipRestore(name); driven {
		c.clip.restore[name] = ch.target
	}
}

// TriggerExpression applies a temporary target and restores the previous one
// after duration seconds of simulated time. Triggering again before then
// refreshes the intensity and deadline but keeps the original restore value.
// On a channel a clip is driving, the restore value is the one the clip
// itself will put back.
func (c *Controller) TriggerExpression(name string, intensity float32, duration float64) {
	ch, ok := c.lookup("trigger expression", name)
	if !ok {
		return
	}
	if !(duration > 0) {
		duration = 0
	}

	t, pending := c.triggers[name]
	if !pending {
		t = &trigger{restore: ch.target}
		if v, driven := c.clipRestore(name); driven {
			t.restore = v
		}
		c.triggers[name] = t
	}
	t.remaining = duration
	ch.target = math.Clamp(intensity, 0, 1)
}

func (c *Controller) updateTriggers(dt float64) {
	for name, t := range c.triggers {
		t.remaining -= dt
		if t.remaining > 0 {
			continue
		}
		delete(c.triggers, name)
		if _, driven := c.clipRestore(name); driven {
			// The clip owns the target until it ends.
			c.clip.restore[name] = t.restore
			continue
		}
		c.channels[name].target = t.restore
	}
}

// Triggered reports whether a temporary expression is pending on name.
func (c *Controller) Triggered(name string) bool {
	_, ok := c.triggers[name]
	return ok
}
