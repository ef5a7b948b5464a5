package presenter

import (
	"go.uber.org/zap"

	"github.com/Faultbox/avatar-core/internal/avatar"
	"github.com/Faultbox/avatar-core/internal/engine/animation"
	"github.com/Faultbox/avatar-core/internal/engine/camera"
	"github.com/Faultbox/avatar-core/internal/logger"
	"github.com/Faultbox/avatar-core/pkg/math"
)

// Frame is the per-tick output for the renderer. Vertices is reused by the
// next Tick.
type Frame struct {
	Model    *avatar.Model
	Pose     animation.Pose
	Camera   camera.Transform
	View     math.Mat4
	Vertices []math.Vec3 // positions after blend-shape deformation
	Loading  bool
}

// Tick applies a finished load, the queued commands and the buffered input,
// then advances animation and camera by dt seconds.
func (p *Presenter) Tick(dt float64) Frame {
	p.mu.Lock()
	res := p.result
	p.result = nil
	if res != nil && res.generation != p.generation {
		res = nil
	}
	if res != nil {
		p.settled = res.generation
	}
	cmds := p.commands
	p.commands = nil
	loading := p.settled != p.generation
	p.mu.Unlock()

	if res != nil {
		p.applyResult(res)
	}
	for _, cmd := range cmds {
		cmd(p)
	}

	events := p.inputs.Drain(p.inbuf)
	in := p.tracker.Apply(events)
	p.inbuf = events

	s := p.slot
	s.anim.Update(dt)
	s.cam.Update(dt, in)

	pose := s.anim.Pose()
	if s.model.BlendShapes.Has(BlinkChannel) {
		w := p.blinkWeight(pose.EyeScale)
		if w > pose.Weights[BlinkChannel] {
			pose.Weights[BlinkChannel] = w
		}
	}
	p.deformed = s.model.BlendShapes.Deform(s.base, pose.Weights, p.deformed)

	return Frame{
		Model:    s.model,
		Pose:     pose,
		Camera:   s.cam.Transform(),
		View:     s.cam.ViewMatrix(),
		Vertices: p.deformed,
		Loading:  loading,
	}
}

// blinkWeight maps eye scale onto a blink channel weight: open eyes are 0,
// fully closed eyes are 1.
func (p *Presenter) blinkWeight(eye float32) float32 {
	closed := p.cfg.Animation.BlinkClosedScale
	if closed >= 1 {
		return 0
	}
	return math.Clamp((1-eye)/(1-closed), 0, 1)
}

func (p *Presenter) applyResult(r *buildResult) {
	if r.err != nil {
		logger.Warn("avatar load failed, keeping current model",
			zap.String("id", r.payloadID), zap.Error(r.err))
		p.emit(Event{Kind: EventAvatarLoadFailed, AvatarID: r.payloadID, Reason: r.err.Error(), Err: r.err})
		return
	}

	p.install(r.model, p.cfg.Camera.IntroOnLoad)
	p.placeholder = false
	logger.Info("avatar loaded", zap.String("id", r.model.ID))
	p.emit(Event{Kind: EventAvatarLoaded, AvatarID: r.model.ID})
}

// install tears down the current slot and builds a fresh one around m.
func (p *Presenter) install(m *avatar.Model, intro bool) {
	if old := p.slot.model; old != nil && p.scene != nil {
		p.scene.DetachAvatar(old)
	}
	p.slot = slot{}

	var opts []animation.Option
	if p.rng != nil {
		opts = append(opts, animation.WithRand(p.rng))
	}
	cam := camera.New(p.cfg.Camera)
	b := m.Bounds()
	cam.FitToBounds(b.Min, b.Max)
	if intro {
		cam.PlayIntro()
	}

	p.slot = slot{
		model: m,
		anim:  animation.New(p.cfg.Animation, m.BlendShapes.Names(), opts...),
		cam:   cam,
		base:  m.Mesh.Vertices(),
	}
	p.tracker.Reset()

	if p.scene != nil {
		p.scene.AttachAvatar(m)
	}
}
