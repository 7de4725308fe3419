package app

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/ecs/component"
	"github.com/milk9111/forge2d/editor"
	"github.com/milk9111/forge2d/input"
	"github.com/milk9111/forge2d/levels"
	"github.com/milk9111/forge2d/prefabs"
	"github.com/milk9111/forge2d/scene"
	"go.uber.org/zap"
)

type Mode int

const (
	ModeEditor Mode = iota
	ModeRuntime
)

func (m Mode) String() string {
	if m == ModeRuntime {
		return "runtime"
	}
	return "editor"
}

// selfWriteWindow hides watcher events caused by the app's own saves.
const selfWriteWindow = 500 * time.Millisecond

var clearColor = color.NRGBA{R: 36, G: 36, B: 44, A: 255}

// Overlay is UI drawn over the scene view. Clicks and scrolling over a
// point it Covers never reach the scene tools.
type Overlay interface {
	Update() error
	Draw(screen *ebiten.Image)
	Covers(x, y int) bool
}

type Options struct {
	Mode      Mode
	SceneFile string
	// Watch hot-reloads prefabs, scripts and the scene file from WatchDirs,
	// or from the configured editor watch dirs when WatchDirs is empty.
	Watch     bool
	WatchDirs []string
	Clipboard *editor.Clipboard
	ShowFPS   bool
}

// App is the ebiten.Game driving one scene at a time. In editor mode the
// scene carries the editor tools; EngineStartPlay saves it and swaps in a
// runtime copy, EngineStopPlay reloads the saved file for editing.
type App struct {
	ctx       *Context
	mode      Mode
	playing   bool
	sceneFile string
	showFPS   bool

	scene     *scene.Scene
	editor    *editor.Editor
	clipboard *editor.Clipboard
	watcher   *prefabs.Watcher
	overlay   Overlay
	poll      func() *input.Snapshot

	savedAt     time.Time
	unsubscribe func()
	onScene     []func(*scene.Scene)
	onFiles     []func(prefabs.Change)
	log         *zap.Logger
}

func New(ctx *Context, opts Options) (*App, error) {
	file := opts.SceneFile
	if file == "" {
		file = ctx.Config.Editor.SceneFile
	}
	cb := opts.Clipboard
	if cb == nil && opts.Mode == ModeEditor {
		cb = editor.NewLocalClipboard(ctx.Log)
	}
	a := &App{
		ctx:       ctx,
		mode:      opts.Mode,
		sceneFile: file,
		showFPS:   opts.ShowFPS,
		clipboard: cb,
		poll:      input.Poll,
		log:       ctx.Log.Named("app"),
	}
	a.unsubscribe = ctx.Bus.Subscribe(a)

	if opts.Watch {
		dirs := opts.WatchDirs
		if len(dirs) == 0 {
			dirs = ctx.Config.Editor.WatchDirs
		}
		if err := a.watch(dirs); err != nil {
			a.log.Warn("hot reload disabled", zap.Error(err))
		}
	}

	if err := a.changeScene(opts.Mode); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) watch(dirs []string) error {
	var existing []string
	for _, d := range dirs {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			existing = append(existing, d)
		}
	}
	if len(existing) == 0 {
		return fmt.Errorf("app: watch: none of %v exist", dirs)
	}
	w, err := prefabs.NewWatcher(existing...)
	if err != nil {
		return fmt.Errorf("app: watch: %w", err)
	}
	a.watcher = w
	a.log.Info("watching for changes", zap.Strings("dirs", existing))
	return nil
}

func (a *App) Context() *Context            { return a.ctx }
func (a *App) Mode() Mode                   { return a.mode }
func (a *App) Playing() bool                { return a.playing }
func (a *App) Scene() *scene.Scene          { return a.scene }
func (a *App) SceneFile() string            { return a.sceneFile }
func (a *App) Clipboard() *editor.Clipboard { return a.clipboard }

// Editor returns the editor tools, or nil in runtime mode.
func (a *App) Editor() *editor.Editor {
	if a.mode != ModeEditor {
		return nil
	}
	return a.editor
}

func (a *App) SetOverlay(o Overlay) {
	a.overlay = o
}

// OnSceneChange registers fn to run after every scene swap.
func (a *App) OnSceneChange(fn func(*scene.Scene)) {
	a.onScene = append(a.onScene, fn)
}

// OnFileChange registers fn for every hot-reload event.
func (a *App) OnFileChange(fn func(prefabs.Change)) {
	a.onFiles = append(a.onFiles, fn)
}

// changeScene builds a scene for mode from the scene file and, once it
// initializes cleanly, destroys the current one. On error the current scene
// stays.
func (a *App) changeScene(mode Mode) error {
	level := scene.NewLevelInitializer(a.sceneFile, readLevel, a.ctx.Log)
	var init scene.Initializer = level
	var edInit *editor.Initializer
	if mode == ModeEditor {
		edInit = editor.NewInitializer(level, a.ctx.Bus, a.clipboard, a.ctx.Log)
		init = edInit
	}

	s := scene.New(a.ctx.Config, init, scene.Deps{
		Registry: a.ctx.Registry,
		Assets:   a.ctx.Assets,
		Backend:  a.ctx.Backend,
		Log:      a.ctx.Log,
	})
	if err := s.Init(); err != nil {
		s.Destroy()
		return fmt.Errorf("app: %s scene: %w", mode, err)
	}
	if a.scene != nil {
		a.scene.Destroy()
	}
	s.Start()

	a.scene = s
	a.mode = mode
	a.editor = nil
	if edInit != nil {
		a.editor = edInit.Editor()
	}
	a.log.Info("scene changed", zap.Stringer("mode", mode), zap.String("file", a.sceneFile))
	for _, fn := range a.onScene {
		fn(s)
	}
	return nil
}

// readLevel reads a path as given, then through the levels package so a
// bare name finds the shipped level.
func readLevel(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	return levels.Read(name)
}

func (a *App) save() error {
	if a.editor == nil {
		return errors.New("app: save: not editing")
	}
	a.savedAt = time.Now()
	return a.editor.SaveFile(a.sceneFile)
}

func (a *App) OnNotify(evt ecs.Event) {
	switch evt.Type {
	case ecs.EventEngineStartPlay:
		if a.mode != ModeEditor {
			return
		}
		if err := a.save(); err != nil {
			a.log.Error("play aborted, save failed", zap.Error(err))
			return
		}
		a.playing = true
		a.swap(ModeRuntime)
	case ecs.EventEngineStopPlay:
		if !a.playing {
			return
		}
		a.playing = false
		a.swap(ModeEditor)
	case ecs.EventSaveLevel:
		if a.mode != ModeEditor {
			return
		}
		if err := a.save(); err != nil {
			a.log.Error("save failed", zap.Error(err))
		}
	case ecs.EventLoadLevel:
		if name, ok := evt.Data.(string); ok && name != "" {
			a.sceneFile = name
		}
		mode := a.mode
		if a.playing {
			mode = ModeEditor
		}
		a.playing = false
		a.swap(mode)
	}
}

func (a *App) swap(mode Mode) {
	if err := a.changeScene(mode); err != nil {
		a.log.Error("scene change failed", zap.Stringer("mode", mode), zap.Error(err))
	}
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	a.Step(a.poll(), 1/float64(ebiten.TPS()))
	if a.overlay != nil {
		return a.overlay.Update()
	}
	return nil
}

// Step runs one frame with the given input: queued events, file changes,
// then the scene.
func (a *App) Step(in *input.Snapshot, dt float64) {
	a.ctx.Bus.Dispatch()
	a.pumpWatcher()

	if a.overlay != nil && a.overlay.Covers(int(in.Cursor.X), int(in.Cursor.Y)) {
		in.BlockMouse()
	}
	if a.mode == ModeEditor && a.editor != nil {
		a.editor.Update(in, dt)
		return
	}
	a.scene.Update(dt)
}

func (a *App) pumpWatcher() {
	if a.watcher == nil {
		return
	}
	for _, c := range a.watcher.Drain() {
		a.log.Debug("file changed", zap.String("path", c.Path), zap.Stringer("kind", c.Kind))
		switch c.Kind {
		case prefabs.KindScene:
			a.reloadScene(c.Path)
		case prefabs.KindScript:
			a.reloadScripts(c.Path)
		}
		for _, fn := range a.onFiles {
			fn(c)
		}
	}
}

// reloadScene picks up external edits to the open scene file. Runtime
// scenes are left alone; the edit shows up on Stop.
func (a *App) reloadScene(path string) {
	if a.mode != ModeEditor || !samePath(path, a.sceneFile) {
		return
	}
	if time.Since(a.savedAt) < selfWriteWindow {
		return
	}
	a.swap(ModeEditor)
}

func (a *App) reloadScripts(path string) {
	for _, g := range a.scene.GameObjects() {
		s, ok := ecs.Get[*component.Script](g)
		if !ok || s.Path == "" || filepath.Base(s.Path) != filepath.Base(path) {
			continue
		}
		if err := s.Compile(); err != nil {
			a.log.Warn("script reload failed", zap.Stringer("object", g), zap.Error(err))
			continue
		}
		a.log.Info("script reloaded", zap.Stringer("object", g), zap.String("path", s.Path))
	}
}

func samePath(a, b string) bool {
	pa, err1 := filepath.Abs(a)
	pb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return pa == pb
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(clearColor)
	a.scene.Render(screen)
	if a.overlay != nil {
		a.overlay.Draw(screen)
	}
	if a.showFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("%s    FPS: %.2f", a.mode, ebiten.ActualFPS()))
	}
}

func (a *App) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(a.ctx.Config.Window.Width), float64(a.ctx.Config.Window.Height)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.ctx.Config.Window.Width, a.ctx.Config.Window.Height
}

// Close stops the watcher and destroys the scene.
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.scene != nil {
		a.scene.Destroy()
	}
	if a.watcher != nil {
		return a.watcher.Close()
	}
	return nil
}
