// Package viewer runs the desktop avatar viewer: window, frame loop,
// keyboard shortcuts and frame capture.
package viewer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/avatar-core/internal/config"
	"github.com/Faultbox/avatar-core/internal/engine/capture"
	"github.com/Faultbox/avatar-core/internal/engine/renderer"
	"github.com/Faultbox/avatar-core/internal/engine/sdlinput"
	"github.com/Faultbox/avatar-core/internal/engine/window"
	"github.com/Faultbox/avatar-core/internal/logger"
	"github.com/Faultbox/avatar-core/internal/presenter"
	"github.com/Faultbox/avatar-core/pkg/payload"
)

const title = "Avatar Viewer"

// maxFrameTime caps dt after stalls such as window drags.
const maxFrameTime = 0.25

// Viewer is the desktop host of a presenter.
type Viewer struct {
	config  *config.Config
	running bool

	window    *window.Window
	renderer  *renderer.Renderer
	input     *sdlinput.Input
	presenter *presenter.Presenter
	exporter  *capture.Exporter

	captureNext bool
	lastPayload string
}

// New creates the window, renderer and presenter.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Viewer.Width),
		zap.Int("height", cfg.Viewer.Height),
	)

	v := &Viewer{config: cfg}

	var err error
	v.exporter, err = capture.NewExporter(cfg.Viewer.CaptureDir, "avatar", cfg.Viewer.CaptureFormat)
	if err != nil {
		return nil, err
	}

	// Window first: the renderer needs its GL context.
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	fbWidth, fbHeight := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:       fbWidth,
		Height:      fbHeight,
		FieldOfView: cfg.Viewer.FieldOfView,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	seed := cfg.Viewer.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	v.presenter = presenter.New(presenter.Config{
		Animation: cfg.Animation,
		Camera:    cfg.Camera,
		Mesh:      cfg.Mesh,
	}, v.renderer,
		presenter.WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))),
		presenter.WithEventHandler(v.onEvent),
		presenter.WithCapturer(v),
	)

	w, h := v.window.GetSize()
	v.input = sdlinput.New(v.presenter, w, h)

	if cfg.Viewer.Payload != "" {
		v.loadFile(cfg.Viewer.Payload)
	}

	logger.Info("viewer initialized", zap.Uint64("seed", seed))
	return v, nil
}

// Run starts the frame loop and returns when the window is closed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now
		if dt > maxFrameTime {
			dt = maxFrameTime
		}

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		frame := v.presenter.Tick(dt)

		v.renderer.Begin()
		v.renderer.Draw(frame)

		if v.captureNext {
			v.captureNext = false
			v.saveFrame()
		}

		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.Bool("loading", frame.Loading))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close releases all resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.presenter != nil {
		v.presenter.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case sdlinput.EventWindowResize:
			v.renderer.Resize(v.window.DrawableSize())
		case sdlinput.EventDropFile:
			v.loadFile(event.Path)
		case sdlinput.EventKeyDown:
			if event.Key == keyQuit {
				v.running = false
				return
			}
			v.handleKey(event.Key)
		}
	}
}

// loadFile queues a payload file. Decoding runs in the presenter's build,
// so files load in the order they were requested and a bad file is
// reported like any other failed load.
func (v *Viewer) loadFile(path string) {
	v.lastPayload = path
	v.presenter.LoadAvatarFrom(path, func(context.Context) (*payload.Avatar, error) {
		return payload.DecodeFile(path)
	})
}

func (v *Viewer) onEvent(e presenter.Event) {
	switch e.Kind {
	case presenter.EventAvatarLoaded:
		logger.Info("avatar loaded", zap.String("avatar", e.AvatarID))
		v.window.SetTitle(title + " - " + e.AvatarID)
	case presenter.EventAvatarLoadFailed:
		logger.Warn("avatar failed to load", zap.String("avatar", e.AvatarID), zap.String("reason", e.Reason))
	}
}

// CaptureFrame schedules a capture of the frame being drawn.
func (v *Viewer) CaptureFrame() error {
	v.captureNext = true
	return nil
}

func (v *Viewer) saveFrame() {
	pixels, w, h := v.window.ReadPixels()
	path, err := v.exporter.SavePixels(pixels, w, h)
	if err != nil {
		logger.Error("frame capture failed", zap.Error(err))
		return
	}
	logger.Info("frame captured", zap.String("path", path))
}
