// brepview displays, inspects and converts YAML scene files of B-rep
// solids and wires.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/brepview/internal/config"
	"github.com/Faultbox/brepview/internal/logger"
)

func main() {
	// Global flags come before the command.
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	args := config.Args()
	if len(args) == 0 {
		args = []string{"view"}
	}
	command, args := args[0], args[1:]

	switch command {
	case "view":
		err = cmdView(cfg, args)
	case "info":
		err = cmdInfo(cfg, args)
	case "export":
		err = cmdExport(cfg, args)
	case "snapshot", "snap":
		err = cmdSnapshot(cfg, args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		if strings.HasSuffix(command, ".yaml") || strings.HasSuffix(command, ".yml") {
			err = cmdView(cfg, append([]string{command}, args...))
			break
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fail(cfg, err)
	}
}

func printUsage() {
	fmt.Println(`brepview - B-rep scene viewer

Usage:
  brepview [flags] <command> [arguments]

Commands:
  view <scene.yaml>...              Open one window per scene
  info <scene.yaml>                 Print display data statistics
  export <scene.yaml> <out.stl>     Write face triangles as binary STL
  snapshot <scene.yaml> <out.png>   Render a PNG without a window

Flags:
  --config <file>     Config file (default: brepview.yaml, then user config dir)
  --debug             Debug logging
  --log <file>        Also log to file
  --width, --height   Window and snapshot size
  --novsync           Disable vertical sync
  --arc-segments <n>  Segments per full circle
  --mesh-cells <n>    Marching cubes resolution
  --dialogs           Report errors in a native dialog

Examples:
  brepview view scenes/demo.yaml
  brepview --width 1600 --height 1200 snapshot scenes/demo.yaml demo.png
  brepview export scenes/demo.yaml demo.stl`)
}

// fail reports err and exits.
func fail(cfg *config.Config, err error) {
	logger.Error("brepview failed", zap.Error(err))
	if cfg.UI.ErrorDialogs {
		dialog.Message("%v", err).Title(cfg.Window.Title).Error()
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	logger.Sync()
	os.Exit(1)
}
