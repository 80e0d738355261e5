package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/brepview/internal/config"
	"github.com/Faultbox/brepview/internal/display"
	"github.com/Faultbox/brepview/internal/engine/camera"
	"github.com/Faultbox/brepview/internal/engine/debug"
	"github.com/Faultbox/brepview/internal/engine/renderer"
	"github.com/Faultbox/brepview/internal/engine/window"
	"github.com/Faultbox/brepview/internal/export"
	"github.com/Faultbox/brepview/internal/kernel/memkernel"
	"github.com/Faultbox/brepview/internal/logger"
	"github.com/Faultbox/brepview/internal/scene"
	"github.com/Faultbox/brepview/internal/viewer"
)

var _ viewer.Painter = (*renderer.Renderer)(nil)

// buildScene loads a scene file and builds its display data.
func buildScene(cfg *config.Config, path string) (*display.Data, error) {
	s, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	ents, err := s.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	model := memkernel.New(memkernel.Options{
		ArcSegments: cfg.Faceting.ArcSegments,
		MeshCells:   cfg.Faceting.MeshCells,
	})
	d, err := display.NewBuilder(model).Build(ents)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if n := model.Outstanding(); n != 0 {
		logger.Warn("point arrays not released", zap.Int64("count", n))
	}
	logger.Info("scene built",
		zap.String("path", path),
		zap.Int("faces", d.Stats.Faces),
		zap.Int("edges", d.Stats.Edges),
		zap.Int("triangles", d.Stats.Triangles),
	)
	return d, nil
}

func cameraSettings(cfg *config.Config) camera.Settings {
	return camera.Settings{
		FramingFactor:     cfg.Camera.FramingFactor,
		RotateSensitivity: cfg.Camera.RotateSensitivity,
		PanSensitivity:    cfg.Camera.PanSensitivity,
		ZoomStep:          cfg.Camera.ZoomStep,
	}
}

func cmdView(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		if !cfg.UI.ErrorDialogs {
			return errors.New("usage: brepview view <scene.yaml>...")
		}
		path, err := dialog.File().Filter("Scene files", "yaml", "yml").Title("Open scene").Load()
		if err != nil {
			return err
		}
		args = []string{path}
	}

	// Build everything up front so a bad file opens no window.
	scenes := make([]*display.Data, 0, len(args))
	for _, path := range args {
		d, err := buildScene(cfg, path)
		if err != nil {
			return err
		}
		scenes = append(scenes, d)
	}

	if err := window.Init(); err != nil {
		return err
	}
	defer window.Quit()

	titles := make(map[*display.Data]string, len(args))
	for i, d := range scenes {
		titles[d] = fmt.Sprintf("%s - %s", cfg.Window.Title, filepath.Base(args[i]))
	}

	reg := viewer.NewRegistry(func(d *display.Data) (*viewer.Viewer, error) {
		platform := viewer.PlatformFunc(func(title string, w, h int) (viewer.Surface, error) {
			win, err := window.New(window.Config{
				Title:  title,
				Width:  w,
				Height: h,
				VSync:  cfg.Window.VSync,
			})
			if err != nil {
				return nil, err
			}
			return win, nil
		})
		painter := renderer.New(renderer.Config{
			Background: cfg.Window.Background,
			LightDir:   cfg.Lighting.Direction,
			Ambient:    cfg.Lighting.Ambient,
			Diffuse:    cfg.Lighting.Diffuse,
		})
		return viewer.New(d, platform, painter, viewer.Options{
			Title:         titles[d],
			Width:         cfg.Window.Width,
			Height:        cfg.Window.Height,
			Camera:        cameraSettings(cfg),
			ScreenshotDir: "screenshots",
		})
	})

	for _, d := range scenes {
		if _, err := reg.Launch(d); err != nil {
			reg.CloseAll()
			return errors.Join(err, reg.Wait())
		}
	}

	var confirm func(int) bool
	if cfg.UI.ConfirmExit {
		confirm = func(open int) bool {
			return dialog.Message("%d viewer window(s) still open. Close them and exit?", open).
				Title(cfg.Window.Title).
				YesNo()
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	done := make(chan error, 1)
	go func() { done <- reg.Wait() }()

	for {
		select {
		case err := <-done:
			return err
		case <-interrupt:
			err := reg.Shutdown(confirm)
			if errors.Is(err, viewer.ErrExitCancelled) {
				logger.Info("exit cancelled", zap.Int("open", reg.Open()))
				continue
			}
			return errors.Join(err, <-done)
		}
	}
}

func cmdInfo(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: brepview info <scene.yaml>")
	}
	d, err := buildScene(cfg, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Scene:       %s\n", args[0])
	fmt.Printf("Faces:       %d (%d skipped)\n", d.Stats.Faces, d.Stats.SkippedFaces)
	fmt.Printf("Edges:       %d (%d skipped)\n", d.Stats.Edges, d.Stats.SkippedEdges)
	fmt.Printf("Triangles:   %d\n", d.Stats.Triangles)
	fmt.Printf("Vertices:    %d\n", d.NumVertices())
	fmt.Printf("Edge points: %d\n", d.NumEdgePoints())
	fmt.Printf("Bounds:      %.3f\n", d.Bounds())
	fmt.Printf("Radius:      %.3f\n", camera.New(d.Bounds(), cameraSettings(cfg)).Radius)
	return nil
}

func cmdExport(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: brepview export <scene.yaml> <out.stl>")
	}
	d, err := buildScene(cfg, args[0])
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	if err := export.WriteSTL(args[1], d, name); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d triangles)\n", args[1], d.Stats.Triangles)
	return nil
}

func cmdSnapshot(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: brepview snapshot <scene.yaml> <out.png>")
	}
	d, err := buildScene(cfg, args[0])
	if err != nil {
		return err
	}

	opts := debug.DefaultSnapshotOptions()
	opts.Width = cfg.Snapshot.Width
	opts.Height = cfg.Snapshot.Height
	opts.Supersample = cfg.Snapshot.Supersample
	opts.Background = cfg.Window.Background
	opts.Light = cfg.Lighting.Direction
	opts.Ambient = cfg.Lighting.Ambient
	opts.Diffuse = cfg.Lighting.Diffuse
	opts.Camera = cameraSettings(cfg)

	img, err := debug.RenderSnapshot(d, opts)
	if err != nil {
		return err
	}
	if err := debug.SaveSnapshot(args[1], img); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", args[1])
	return nil
}
