package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/forge2d/app"
	"github.com/milk9111/forge2d/config"
	"github.com/milk9111/forge2d/logging"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "forge2d.yaml", "settings file; defaults apply when missing")
	levelName := flag.String("level", "", "scene to play (defaults to the configured scene file)")
	debug := flag.Bool("debug", false, "show FPS and log at debug level")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	ctx := app.NewContext(cfg, nil, logger)
	ctx.UseEbiten()
	a, err := app.New(ctx, app.Options{
		Mode:      app.ModeRuntime,
		SceneFile: *levelName,
		ShowFPS:   *debug,
	})
	if err != nil {
		logger.Fatal("game start failed", zap.Error(err))
	}
	defer a.Close()

	if err := ebiten.RunGame(NewGame(a, logger)); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game stopped", zap.Error(err))
	}
}
