package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile   = flag.String("log", "", "Write logs to this file as well")
	flagWidth     = flag.Int("width", 0, "Window width")
	flagHeight    = flag.Int("height", 0, "Window height")
	flagNoVSync   = flag.Bool("novsync", false, "Disable vertical sync")
	flagArcSegs   = flag.Int("arc-segments", 0, "Segments per full circle when faceting arcs")
	flagMeshCells = flag.Int("mesh-cells", 0, "Marching cubes resolution for curved faces")
	flagDialogs   = flag.Bool("dialogs", false, "Report fatal errors in a native dialog")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
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
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
		cfg.Snapshot.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
		cfg.Snapshot.Height = *flagHeight
	}
	if *flagNoVSync {
		cfg.Window.VSync = false
	}
	if *flagArcSegs > 0 {
		cfg.Faceting.ArcSegments = *flagArcSegs
	}
	if *flagMeshCells > 0 {
		cfg.Faceting.MeshCells = *flagMeshCells
	}
	if *flagDialogs {
		cfg.UI.ErrorDialogs = true
	}
}
