package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/forge2d/app"
	"github.com/milk9111/forge2d/config"
	"github.com/milk9111/forge2d/editor"
	"github.com/milk9111/forge2d/logging"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "forge2d.yaml", "settings file; defaults apply when missing")
	levelName := flag.String("level", "", "scene to edit: a path, or a name in levels/ (.json optional)")
	noWatch := flag.Bool("no-watch", false, "disable hot reload of prefabs, scripts and the scene file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := app.NewContext(cfg, nil, logger)
	ctx.UseEbiten()

	a, err := app.New(ctx, app.Options{
		Mode:      app.ModeEditor,
		SceneFile: levelPath(*levelName),
		Watch:     !*noWatch,
		Clipboard: editor.NewClipboard(logger),
		ShowFPS:   true,
	})
	if err != nil {
		logger.Fatal("editor start failed", zap.Error(err))
	}
	defer a.Close()

	ui, err := BuildEditorUI(a, logger)
	if err != nil {
		logger.Fatal("editor ui failed", zap.Error(err))
	}
	a.SetOverlay(ui)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title + " editor")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Info("editor starting", zap.String("scene", a.SceneFile()))
	if err := ebiten.RunGame(a); err != nil {
		logger.Error("editor stopped", zap.Error(err))
	}
}

// levelPath turns a bare level name into its file under levels/. Paths and
// the empty name pass through.
func levelPath(name string) string {
	if name == "" || filepath.Dir(name) != "." {
		return name
	}
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	return filepath.Join("levels", name)
}
