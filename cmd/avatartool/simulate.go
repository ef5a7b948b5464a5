package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Faultbox/avatar-core/internal/avatar"
	"github.com/Faultbox/avatar-core/internal/config"
	"github.com/Faultbox/avatar-core/internal/engine/animation"
	"github.com/Faultbox/avatar-core/internal/presenter"
)

// headless satisfies presenter.Scene without drawing anything.
type headless struct{}

func (headless) AttachAvatar(*avatar.Model) {}
func (headless) DetachAvatar(*avatar.Model) {}

// expressions collects repeated -expr name=value flags.
type expressions map[string]float32

func (e expressions) String() string {
	parts := make([]string, 0, len(e))
	for k, v := range e {
		parts = append(parts, fmt.Sprintf("%s=%g", k, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (e expressions) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return fmt.Errorf("want name=value, got %q", s)
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return fmt.Errorf("expression %s: %w", name, err)
	}
	e[name] = float32(f)
	return nil
}

func cmdSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	seconds := fs.Float64("t", 3, "Simulated seconds")
	fps := fs.Int("fps", 30, "Ticks per simulated second")
	every := fs.Float64("every", 0.5, "Print a pose every N seconds")
	seed := fs.Uint64("seed", 1, "Random seed")
	clip := fs.String("clip", "", "Clip to play")
	configPath := fs.String("config", "", "Engine config file")
	exprs := expressions{}
	fs.Var(exprs, "expr", "Expression name=value (repeatable)")
	fs.Parse(args)

	if *fps <= 0 {
		return fmt.Errorf("fps must be positive")
	}

	a, err := loadPayload(fs, "simulate [options] <payload.json>")
	if err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.LoadFile(*configPath); err != nil {
			return err
		}
	}

	var loadErr error
	p := presenter.New(presenter.Config{
		Animation: cfg.Animation,
		Camera:    cfg.Camera,
		Mesh:      cfg.Mesh,
	}, headless{},
		presenter.WithRand(rand.New(rand.NewPCG(*seed, *seed))),
		presenter.WithEventHandler(func(e presenter.Event) {
			if e.Kind == presenter.EventAvatarLoadFailed {
				loadErr = e.Err
			}
		}),
	)
	defer p.Close()

	p.LoadAvatar(a)
	for p.Tick(0).Loading {
		time.Sleep(time.Millisecond)
	}
	if loadErr != nil {
		return loadErr
	}

	for name, v := range exprs {
		p.SetExpression(name, v)
	}
	if *clip != "" {
		p.PlayClip(*clip)
	}

	dt := 1.0 / float64(*fps)
	ticks := int(*seconds * float64(*fps))
	printEvery := max(int(*every*float64(*fps)), 1)

	for i := 1; i <= ticks; i++ {
		f := p.Tick(dt)
		if i%printEvery == 0 {
			fmt.Println(formatPose(float64(i)*dt, f.Pose))
		}
	}
	return nil
}

func formatPose(t float64, pose animation.Pose) string {
	var b strings.Builder
	fmt.Fprintf(&b, "t=%6.2fs body=%.4f eye=%.2f head=(%5.1f, %5.1f, %5.1f)",
		t, pose.BodyScaleY, pose.EyeScale, pose.Head.Pitch, pose.Head.Yaw, pose.Head.Roll)

	names := make([]string, 0, len(pose.Weights))
	for k := range pose.Weights {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(&b, " %s=%.2f", k, pose.Weights[k])
	}
	return b.String()
}
