// Package presenter is the composition root of the avatar view. It owns the
// displayed model together with its animation and camera state, builds new
// avatars off the tick path and swaps them in on the tick thread.
package presenter

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/avatar-core/internal/avatar"
	"github.com/Faultbox/avatar-core/internal/avatar/texture"
	"github.com/Faultbox/avatar-core/internal/engine/animation"
	"github.com/Faultbox/avatar-core/internal/engine/camera"
	"github.com/Faultbox/avatar-core/internal/engine/input"
	"github.com/Faultbox/avatar-core/internal/logger"
	"github.com/Faultbox/avatar-core/pkg/math"
	"github.com/Faultbox/avatar-core/pkg/payload"
)

// BlinkChannel is the blend channel driven from the blink generator when the
// avatar has one.
const BlinkChannel = "blink"

// Config groups the engine sections the presenter needs.
type Config struct {
	Animation animation.Config
	Camera    camera.Config
	Mesh      avatar.Config
}

// Scene receives the model that should be drawn.
type Scene interface {
	AttachAvatar(m *avatar.Model)
	DetachAvatar(m *avatar.Model)
}

// Capturer exports the rendered frame. It is implemented by the host.
type Capturer interface {
	CaptureFrame() error
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithTextureDecoder replaces the image decoder used by avatar builds.
func WithTextureDecoder(dec texture.Decoder) Option {
	return func(p *Presenter) { p.decoder = dec }
}

// WithRand sets the random source handed to every animation controller.
func WithRand(r animation.Rand) Option {
	return func(p *Presenter) { p.rng = r }
}

// WithEventHandler registers the callback for load events. It runs on the
// tick thread.
func WithEventHandler(fn func(Event)) Option {
	return func(p *Presenter) { p.onEvent = fn }
}

// WithCapturer sets the host frame exporter.
func WithCapturer(c Capturer) Option {
	return func(p *Presenter) { p.capturer = c }
}

// slot is everything owned on behalf of one displayed avatar.
type slot struct {
	model *avatar.Model
	anim  *animation.Controller
	cam   *camera.Controller
	base  []math.Vec3 // undeformed positions
}

type buildResult struct {
	generation uint64
	payloadID  string
	model      *avatar.Model
	err        error
}

// Presenter drives one avatar view. Commands and input may be sent from any
// goroutine; Tick must be called from a single goroutine.
type Presenter struct {
	cfg      Config
	scene    Scene
	decoder  texture.Decoder
	builder  *avatar.Builder
	rng      animation.Rand
	onEvent  func(Event)
	capturer Capturer

	ctx   context.Context
	close context.CancelFunc

	mu         sync.Mutex
	commands   []command
	result     *buildResult
	generation uint64 // newest request
	settled    uint64 // newest request whose result reached Tick
	cancel     context.CancelFunc
	builds     sync.WaitGroup

	inputs  *input.Queue
	tracker *input.Tracker
	inbuf   []input.Event

	slot        slot
	placeholder bool
	deformed    []math.Vec3
}

// New creates a presenter showing the placeholder shape.
func New(cfg Config, scene Scene, opts ...Option) *Presenter {
	p := &Presenter{
		cfg: Config{
			Animation: cfg.Animation.Sanitize(),
			Camera:    cfg.Camera.Sanitize(),
			Mesh:      cfg.Mesh.Sanitize(),
		},
		scene:   scene,
		inputs:  input.NewQueue(),
		tracker: input.NewTracker(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.builder = avatar.NewBuilder(p.cfg.Mesh, p.decoder)
	p.ctx, p.close = context.WithCancel(context.Background())

	p.install(avatar.Placeholder(p.cfg.Mesh), false)
	p.placeholder = true
	return p
}

// Source produces a payload inside a load, off the tick goroutine.
type Source func(ctx context.Context) (*payload.Avatar, error)

// LoadAvatar starts building a new avatar in the background. Only the most
// recent request is ever displayed; older builds are cancelled and their
// results dropped. The payload must not be modified until the load event.
func (p *Presenter) LoadAvatar(a *payload.Avatar) {
	id := ""
	if a != nil {
		id = a.ID
	}
	p.LoadAvatarFrom(id, func(context.Context) (*payload.Avatar, error) { return a, nil })
}

// LoadAvatarFrom is LoadAvatar for a payload that still has to be fetched
// or decoded. The request takes its place in line when LoadAvatarFrom is
// called, not when src returns. An error from src is reported as a load
// failure under label.
func (p *Presenter) LoadAvatarFrom(label string, src Source) {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.result = nil
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(p.ctx)
	p.cancel = cancel
	p.builds.Add(1)
	p.mu.Unlock()

	logger.Info("loading avatar", zap.String("id", label), zap.Uint64("generation", gen))

	go func() {
		defer p.builds.Done()
		r := &buildResult{generation: gen, payloadID: label}
		a, err := src(ctx)
		if err != nil {
			r.err = fmt.Errorf("avatar %q: %w", label, err)
			p.finish(r)
			return
		}
		if a != nil && a.ID != "" {
			r.payloadID = a.ID
		}
		r.model, r.err = p.builder.Build(ctx, a)
		p.finish(r)
	}()
}

func (p *Presenter) finish(r *buildResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if r.generation != p.generation {
		logger.Debug("discarding stale avatar build",
			zap.String("id", r.payloadID), zap.Uint64("generation", r.generation))
		return
	}
	p.result = r
}

// Loading reports whether the newest load request has not been applied yet.
func (p *Presenter) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settled != p.generation
}

// Close cancels builds in flight and waits for them to return.
func (p *Presenter) Close() {
	p.close()
	p.builds.Wait()
}

// PushInput queues a raw input event for the next tick.
func (p *Presenter) PushInput(e input.Event) {
	p.inputs.Push(e)
}

// Model returns the displayed model, which is the placeholder until the
// first successful load.
func (p *Presenter) Model() *avatar.Model { return p.slot.model }

// ShowingPlaceholder reports whether no avatar has loaded yet.
func (p *Presenter) ShowingPlaceholder() bool { return p.placeholder }

// Camera returns the active camera controller.
func (p *Presenter) Camera() *camera.Controller { return p.slot.cam }

// Animation returns the active animation controller.
func (p *Presenter) Animation() *animation.Controller { return p.slot.anim }

func (p *Presenter) emit(e Event) {
	if p.onEvent != nil {
		p.onEvent(e)
	}
}
