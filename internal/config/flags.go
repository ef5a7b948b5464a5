package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagPayload     = flag.String("payload", "", "Avatar payload JSON to load at startup")
	flagFlipWinding = flag.Bool("flip-winding", false, "Reverse triangle winding of imported faces")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagSeed        = flag.Uint64("seed", 0, "Random seed for procedural animation (0 = time based)")
	flagCaptureDir  = flag.String("capture-dir", "", "Directory for captured frames")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagPayload != "" {
		cfg.Viewer.Payload = *flagPayload
	}
	if *flagFlipWinding {
		cfg.Mesh.FlipWinding = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
	if *flagSeed != 0 {
		cfg.Viewer.Seed = *flagSeed
	}
	if *flagCaptureDir != "" {
		cfg.Viewer.CaptureDir = *flagCaptureDir
	}
}
