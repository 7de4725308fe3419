package editor

import (
	"github.com/milk9111/forge2d/assets"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/input"
	"github.com/milk9111/forge2d/logging"
	"github.com/milk9111/forge2d/scene"
	"go.uber.org/zap"
)

// Editor is the editor-only GameObject together with the tools on it.
type Editor struct {
	Context   *Context
	Object    *ecs.GameObject
	Camera    *EditorCamera
	Mouse     *MouseControls
	Gizmos    *GizmoSystem
	Keys      *KeyControls
	Hierarchy *SceneHierarchy
	Clipboard *Clipboard
}

// Attach builds the editor tools and adds their object to ctx's scene. The
// camera runs first so picking sees this frame's view, and the mouse runs
// before the gizmos so a click can select and drag in one motion.
func Attach(ctx *Context, sheet *assets.Spritesheet, cb *Clipboard) *Editor {
	if cb == nil {
		cb = NewLocalClipboard(ctx.Log())
	}
	e := &Editor{
		Context:   ctx,
		Object:    ecs.NewGameObject("editor"),
		Camera:    NewEditorCamera(ctx),
		Gizmos:    NewGizmoSystem(ctx, sheet),
		Hierarchy: NewSceneHierarchy(ctx.Scene, ctx.Properties),
		Clipboard: cb,
	}
	e.Mouse = NewMouseControls(ctx, e.Gizmos)
	e.Keys = NewKeyControls(ctx, cb)

	e.Object.SetNoSerialize()
	e.Object.AddComponent(e.Camera)
	e.Object.AddComponent(NewGridLines(ctx))
	e.Object.AddComponent(NewColliderOutlines(ctx))
	e.Object.AddComponent(e.Mouse)
	e.Object.AddComponent(e.Gizmos)
	e.Object.AddComponent(e.Keys)
	ctx.Scene.AddGameObject(e.Object)
	return e
}

// Update runs one editor frame.
func (e *Editor) Update(in *input.Snapshot, dt float64) {
	e.Context.BeginFrame(in)
	e.Context.Scene.EditorUpdate(dt)
}

// SaveFile writes the scene with the sprites' own colors rather than the
// selection highlight.
func (e *Editor) SaveFile(path string) error {
	props := e.Context.Properties
	objs := props.ActiveGameObjects()
	props.ClearSelected()
	defer func() {
		for _, g := range objs {
			props.AddActiveGameObject(g)
		}
	}()
	return e.Context.Scene.SaveFile(path)
}

// Initializer loads a level for editing and attaches the editor tools.
type Initializer struct {
	Level     *scene.LevelInitializer
	Bus       *ecs.EventBus
	Clipboard *Clipboard

	sheet  *assets.Spritesheet
	editor *Editor
	log    *zap.Logger
}

func NewInitializer(level *scene.LevelInitializer, bus *ecs.EventBus, cb *Clipboard, log *zap.Logger) *Initializer {
	return &Initializer{
		Level:     level,
		Bus:       bus,
		Clipboard: cb,
		log:       logging.OrNop(log),
	}
}

func (i *Initializer) LoadResources(p *assets.Pool) {
	if i.Level != nil {
		i.Level.LoadResources(p)
	}
	sheet, err := LoadGizmoSheet(p)
	if err != nil {
		i.log.Warn("gizmo sprites unavailable", zap.Error(err))
	}
	i.sheet = sheet
}

func (i *Initializer) Init(s *scene.Scene) error {
	if i.Level != nil {
		if err := i.Level.Init(s); err != nil {
			return err
		}
	}
	i.editor = Attach(NewContext(s, i.Bus, i.log), i.sheet, i.Clipboard)
	return nil
}

// Editor returns the tools built by Init.
func (i *Initializer) Editor() *Editor {
	return i.editor
}
