package main

import (
	"bytes"
	"fmt"
	"image"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/forge2d/app"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/prefabs"
	"github.com/milk9111/forge2d/scene"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"
)

// EditorUI is the ebitenui shell around the scene view: the toolbar on top,
// hierarchy and prefabs on the left, the inspector on the right.
type EditorUI struct {
	ui  *ebitenui.UI
	app *app.App
	log *zap.Logger

	panels     []*widget.Container
	toolBar    *ToolBar
	status     *widget.Label
	files      *FileSection
	hierarchy  *HierarchyPanel
	properties *PropertiesPanel
	palette    *PrefabPalette
	tool       Tool
}

func BuildEditorUI(a *app.App, log *zap.Logger) (*EditorUI, error) {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("editor ui: font: %w", err)
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}

	e := &EditorUI{
		ui:  &ebitenui.UI{},
		app: a,
		log: log.Named("ui"),
	}
	e.ui.PrimaryTheme = newEditorTheme(&fontFace)
	theme := e.ui.PrimaryTheme
	bus := a.Context().Bus

	toolbar, toolBar := buildToolBar(theme, &fontFace, toolBarActions{
		Play: func() { bus.Publish(ecs.Event{Type: ecs.EventEngineStartPlay}) },
		Stop: func() { bus.Publish(ecs.Event{Type: ecs.EventEngineStopPlay}) },
		Save: func() { bus.Publish(ecs.Event{Type: ecs.EventSaveLevel}) },
		Tool: func(tool Tool) {
			e.tool = tool
			applyTool(a.Editor(), tool)
		},
	})
	e.toolBar = toolBar
	e.status = newLabel("", &fontFace, labelColor)
	toolbar.AddChild(e.status)

	left := newPanel(400)
	e.files = addFileNameSection(left, theme, &fontFace, func(path string) {
		bus.Publish(ecs.Event{Type: ecs.EventLoadLevel, Data: path})
	})
	e.hierarchy = addHierarchySection(left, theme, &fontFace, a.Editor)
	e.palette = addPrefabsSection(left, theme, &fontFace, e.pickUp)

	right := newPanel(400)
	e.properties = addPropertiesSection(right, theme, &fontFace, a.Editor, e.log)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	left.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	right.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	toolbar.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	root.AddChild(left)
	root.AddChild(right)
	root.AddChild(toolbar)
	e.ui.Container = root
	e.panels = []*widget.Container{left, right, toolbar}

	e.reloadPrefabs()
	e.files.ReloadLevels(e.log)
	e.sceneChanged(a.Scene())
	a.OnSceneChange(e.sceneChanged)
	a.OnFileChange(func(c prefabs.Change) {
		switch c.Kind {
		case prefabs.KindPrefab:
			e.reloadPrefabs()
		case prefabs.KindScene:
			e.files.ReloadLevels(e.log)
		}
	})
	return e, nil
}

func (e *EditorUI) reloadPrefabs() {
	list, err := ListPrefabs()
	if err != nil {
		e.log.Warn("prefab list failed", zap.Error(err))
		return
	}
	e.palette.SetPrefabs(list)
}

// pickUp builds a fresh copy of the prefab so edits to its spec show up on
// the next pick.
func (e *EditorUI) pickUp(p PrefabInfo) {
	ed := e.app.Editor()
	if ed == nil {
		return
	}
	g, err := e.app.Context().Prefabs.BuildFile(p.Path)
	if err != nil {
		e.log.Error("prefab build failed", zap.String("prefab", p.Path), zap.Error(err))
		return
	}
	if err := ed.Mouse.PickUp(g); err != nil {
		e.log.Error("prefab pick up failed", zap.String("prefab", p.Path), zap.Error(err))
	}
}

// sceneChanged carries the chosen gizmo over to a new editor and shows the
// new file. Saving may have created it, so the level list is read again.
func (e *EditorUI) sceneChanged(*scene.Scene) {
	applyTool(e.app.Editor(), e.tool)
	e.files.SetFile(e.app.SceneFile())
	e.files.ReloadLevels(e.log)
	e.status.Label = statusText(e.app.Mode(), e.app.Playing(), e.app.SceneFile())
}

func statusText(mode app.Mode, playing bool, file string) string {
	if playing {
		return fmt.Sprintf("playing %s", file)
	}
	return fmt.Sprintf("%s: %s", mode, file)
}

// Update implements app.Overlay.
func (e *EditorUI) Update() error {
	ed := e.app.Editor()
	e.toolBar.Sync(ed, e.app.Playing())
	e.hierarchy.Refresh(ed)
	e.properties.Refresh(ed)
	e.ui.Update()
	return nil
}

func (e *EditorUI) Draw(screen *ebiten.Image) {
	e.ui.Draw(screen)
}

// Covers reports whether (x, y) is over a visible panel.
func (e *EditorUI) Covers(x, y int) bool {
	p := image.Pt(x, y)
	for _, c := range e.panels {
		w := c.GetWidget()
		if w.Visibility == widget.Visibility_Hide {
			continue
		}
		if p.In(w.Rect) {
			return true
		}
	}
	return false
}
