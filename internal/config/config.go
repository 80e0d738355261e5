// Package config handles viewer configuration loading and management.
package config

import "fmt"

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Lighting LightingConfig `yaml:"lighting"`
	Faceting FacetingConfig `yaml:"faceting"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	UI       UIConfig       `yaml:"ui"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display window settings.
type WindowConfig struct {
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	VSync      bool       `yaml:"vsync"`
	Background [3]float32 `yaml:"background"`
}

// CameraConfig holds trackball settings.
type CameraConfig struct {
	FramingFactor     float32 `yaml:"framing_factor"`     // bounding radius margin
	RotateSensitivity float32 `yaml:"rotate_sensitivity"` // radians per pixel
	PanSensitivity    float32 `yaml:"pan_sensitivity"`
	ZoomStep          float32 `yaml:"zoom_step"` // scale factor per wheel notch
}

// LightingConfig holds the directional light used for faces.
type LightingConfig struct {
	Direction [3]float32 `yaml:"direction"`
	Ambient   float32    `yaml:"ambient"`
	Diffuse   float32    `yaml:"diffuse"`
}

// FacetingConfig holds tessellation density for the built-in kernel.
type FacetingConfig struct {
	ArcSegments int `yaml:"arc_segments"` // segments per full circle
	MeshCells   int `yaml:"mesh_cells"`   // marching cubes cells on the longest axis
}

// SnapshotConfig holds headless snapshot settings.
type SnapshotConfig struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	Supersample int `yaml:"supersample"`
}

// UIConfig holds desktop integration settings.
type UIConfig struct {
	ErrorDialogs bool `yaml:"error_dialogs"`
	ConfirmExit  bool `yaml:"confirm_exit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "BrepView",
			Width:      1024,
			Height:     768,
			VSync:      true,
			Background: [3]float32{0.75, 0.8, 0.85},
		},
		Camera: CameraConfig{
			FramingFactor:     1.5,
			RotateSensitivity: 0.01,
			PanSensitivity:    1.0,
			ZoomStep:          1.1,
		},
		Lighting: LightingConfig{
			Direction: [3]float32{0.4, 0.6, 1.0},
			Ambient:   0.3,
			Diffuse:   0.7,
		},
		Faceting: FacetingConfig{
			ArcSegments: 64,
			MeshCells:   64,
		},
		Snapshot: SnapshotConfig{
			Width:       800,
			Height:      600,
			Supersample: 2,
		},
		UI: UIConfig{
			ErrorDialogs: false,
			ConfirmExit:  false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Camera.FramingFactor <= 0:
		return fmt.Errorf("config: camera.framing_factor %v must be positive", c.Camera.FramingFactor)
	case c.Camera.ZoomStep <= 1:
		return fmt.Errorf("config: camera.zoom_step %v must be greater than 1", c.Camera.ZoomStep)
	case c.Faceting.ArcSegments < 3:
		return fmt.Errorf("config: faceting.arc_segments %d must be at least 3", c.Faceting.ArcSegments)
	case c.Faceting.MeshCells < 4:
		return fmt.Errorf("config: faceting.mesh_cells %d must be at least 4", c.Faceting.MeshCells)
	case c.Snapshot.Width <= 0 || c.Snapshot.Height <= 0:
		return fmt.Errorf("config: snapshot size %dx%d must be positive", c.Snapshot.Width, c.Snapshot.Height)
	case c.Snapshot.Supersample < 1:
		return fmt.Errorf("config: snapshot.supersample %d must be at least 1", c.Snapshot.Supersample)
	}
	return nil
}
