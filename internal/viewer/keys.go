package viewer

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/avatar-core/internal/presenter"
)

const keyQuit = sdl.SCANCODE_ESCAPE

const (
	expressionIntensity = 1.0
	expressionDuration  = time.Second
	distanceStep        = 0.5
)

// expressionKeys map to the avatar's blend channels in name order.
var expressionKeys = []sdl.Scancode{
	sdl.SCANCODE_1, sdl.SCANCODE_2, sdl.SCANCODE_3,
	sdl.SCANCODE_4, sdl.SCANCODE_5, sdl.SCANCODE_6,
	sdl.SCANCODE_7, sdl.SCANCODE_8, sdl.SCANCODE_9,
}

// expressionForKey returns the channel bound to key, if any.
func expressionForKey(channels []string, key sdl.Scancode) (string, bool) {
	for i, k := range expressionKeys {
		if k == key {
			if i < len(channels) {
				return channels[i], true
			}
			return "", false
		}
	}
	return "", false
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	p := v.presenter
	m := p.Model()

	if name, ok := expressionForKey(m.BlendShapes.Names(), key); ok {
		p.TriggerExpression(name, expressionIntensity, expressionDuration)
		return
	}

	switch key {
	case sdl.SCANCODE_SPACE:
		p.TriggerBlink()
	case sdl.SCANCODE_R:
		p.ResetCamera()
	case sdl.SCANCODE_F:
		p.FocusOnSubject()
	case sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
		p.SetCameraDistance(p.Camera().State().Distance - distanceStep)
	case sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
		p.SetCameraDistance(p.Camera().State().Distance + distanceStep)
	case sdl.SCANCODE_P:
		if len(m.Clips) > 0 {
			p.PlayClip(m.Clips[0].Name)
		}
	case sdl.SCANCODE_S:
		p.StopClip()
	case sdl.SCANCODE_C:
		p.CaptureFrame()
	case sdl.SCANCODE_L:
		if v.lastPayload != "" {
			v.loadFile(v.lastPayload)
		}
	}
}

var _ presenter.Capturer = (*Viewer)(nil)
