package presenter

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/avatar-core/internal/logger"
)

// command runs on the tick thread at the start of the next Tick.
type command func(p *Presenter)

func (p *Presenter) enqueue(cmd command) {
	p.mu.Lock()
	p.commands = append(p.commands, cmd)
	p.mu.Unlock()
}

// SetExpression sets the target weight of a blend channel. Unknown channels
// are logged and ignored.
func (p *Presenter) SetExpression(name string, intensity float32) {
	p.enqueue(func(p *Presenter) {
		p.slot.anim.SetExpression(name, intensity)
	})
}

// TriggerExpression applies a temporary expression for d.
func (p *Presenter) TriggerExpression(name string, intensity float32, d time.Duration) {
	p.enqueue(func(p *Presenter) {
		p.slot.anim.TriggerExpression(name, intensity, d.Seconds())
	})
}

// TriggerBlink blinks now unless a blink is in progress.
func (p *Presenter) TriggerBlink() {
	p.enqueue(func(p *Presenter) { p.slot.anim.TriggerBlink() })
}

// PlayClip plays a keyframed clip shipped with the current avatar.
func (p *Presenter) PlayClip(name string) {
	p.enqueue(func(p *Presenter) {
		clip, ok := p.slot.model.Clip(name)
		if !ok {
			logger.Warn("ignoring unknown clip", zap.String("clip", name))
			return
		}
		p.slot.anim.PlayClip(clip)
	})
}

// StopClip stops the playing clip.
func (p *Presenter) StopClip() {
	p.enqueue(func(p *Presenter) { p.slot.anim.StopClip() })
}

// ResetCamera eases the camera back to its default framing.
func (p *Presenter) ResetCamera() {
	p.enqueue(func(p *Presenter) { p.slot.cam.Reset() })
}

// FocusOnSubject eases the camera to the face close-up.
func (p *Presenter) FocusOnSubject() {
	p.enqueue(func(p *Presenter) { p.slot.cam.FocusOnSubject() })
}

// SetCameraDistance eases the camera to distance d, clamped to its limits.
func (p *Presenter) SetCameraDistance(d float32) {
	p.enqueue(func(p *Presenter) { p.slot.cam.SetDistance(d) })
}

// CaptureFrame asks the host to export the current frame. Failures are
// logged only.
func (p *Presenter) CaptureFrame() {
	p.enqueue(func(p *Presenter) {
		if p.capturer == nil {
			logger.Warn("capture requested but no capturer configured")
			return
		}
		if err := p.capturer.CaptureFrame(); err != nil {
			logger.Error("frame capture failed", zap.Error(err))
		}
	})
}
