package editor

import (
	"bytes"
	"image"
	"image/png"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/forge2d/assets"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/config"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/ecs/component"
	"github.com/milk9111/forge2d/ecs/physics"
	"github.com/milk9111/forge2d/input"
	"github.com/milk9111/forge2d/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60.0

var red = common.V4(1, 0, 0, 1)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newScene(t *testing.T, init scene.Initializer) *scene.Scene {
	t.Helper()
	reg := ecs.NewRegistry()
	component.Register(reg, nil, nil)
	physics.Register(reg)
	pool := assets.NewPool(fstest.MapFS{
		"assets/gizmos.png": {Data: pngOf(t, 72, 48)},
	}, nil)
	return scene.New(config.Default(), init, scene.Deps{Registry: reg, Assets: pool})
}

func spriteObject(name string, pos common.Vec2) *ecs.GameObject {
	g := ecs.NewGameObject(name)
	g.Transform().Position = pos
	sr := component.NewSpriteRenderer()
	sr.SetColor(red)
	g.AddComponent(sr)
	return g
}

type rig struct {
	s  *scene.Scene
	ed *Editor
}

func newRig(t *testing.T, objs ...*ecs.GameObject) *rig {
	t.Helper()
	s := newScene(t, nil)
	for _, g := range objs {
		s.AddGameObject(g)
	}
	sheet, err := LoadGizmoSheet(s.Assets())
	require.NoError(t, err)
	ed := Attach(NewContext(s, ecs.NewEventBus(), nil), sheet, NewLocalClipboard(nil))
	s.Start()
	return &rig{s: s, ed: ed}
}

func (r *rig) props() *PropertiesWindow {
	return r.ed.Context.Properties
}

// at returns a snapshot with the cursor over world point p.
func (r *rig) at(p common.Vec2) *input.Snapshot {
	sp := r.s.Camera().WorldToScreen(p)
	return input.NewSnapshot().MoveCursor(sp.X, sp.Y)
}

func (r *rig) step(in *input.Snapshot) {
	r.ed.Update(in, frame)
}

func colorOf(g *ecs.GameObject) common.Vec4 {
	sr, _ := ecs.Get[*component.SpriteRenderer](g)
	return sr.Color
}

func TestPropertiesWindowSelection(t *testing.T) {
	a := spriteObject("a", common.Vec2{})
	b := spriteObject("b", common.V2(2, 0))
	p := NewPropertiesWindow(nil)

	p.SetActiveGameObject(a)
	assert.Same(t, a, p.ActiveGameObject())
	assert.Equal(t, Highlight, colorOf(a))

	p.AddActiveGameObject(b)
	p.AddActiveGameObject(b)
	assert.Nil(t, p.ActiveGameObject(), "multi selection has no active object")
	assert.Len(t, p.ActiveGameObjects(), 2)
	assert.Equal(t, Highlight, colorOf(b))

	p.SetActiveGameObject(b)
	assert.Equal(t, red, colorOf(a))
	assert.Same(t, b, p.ActiveGameObject())

	p.ClearSelected()
	assert.Empty(t, p.ActiveGameObjects())
	assert.Equal(t, red, colorOf(b))
}

func TestPropertiesWindowPrunesDead(t *testing.T) {
	a := spriteObject("a", common.Vec2{})
	p := NewPropertiesWindow(nil)
	p.SetActiveGameObject(a)
	a.Destroy()
	p.Prune()
	assert.Nil(t, p.ActiveGameObject())
}

func TestAddComponentCommands(t *testing.T) {
	p := NewPropertiesWindow(nil)
	assert.False(t, p.AddRigidBody(), "nothing selected")

	g := ecs.NewGameObject("crate")
	p.SetActiveGameObject(g)
	assert.True(t, p.AddRigidBody())
	assert.False(t, p.AddRigidBody())
	assert.True(t, p.AddBoxCollider())
	assert.False(t, p.AddCircleCollider())
	assert.False(t, p.AddPillboxCollider())
	assert.True(t, ecs.Has[*physics.Box2DCollider](g))
	assert.False(t, ecs.Has[*physics.CircleCollider](g))

	ball := ecs.NewGameObject("ball")
	p.SetActiveGameObject(ball)
	assert.True(t, p.AddCircleCollider())
	assert.False(t, p.AddBoxCollider())
}

func TestInspectEditsOwnColor(t *testing.T) {
	g := spriteObject("a", common.Vec2{})
	p := NewPropertiesWindow(nil)
	p.SetActiveGameObject(g)

	sections := p.Inspect()
	require.Len(t, sections, 2)
	assert.Equal(t, ecs.TransformType, sections[0].Component)
	require.Equal(t, component.SpriteRendererType, sections[1].Component)

	var colorProp ecs.Property
	for _, prop := range sections[1].Properties {
		if prop.Name == "color" {
			colorProp = prop
		}
	}
	require.NotNil(t, colorProp.Set)
	assert.Equal(t, red, colorProp.Get())

	blue := common.V4(0, 0, 1, 1)
	require.NoError(t, colorProp.Set(blue))
	assert.Equal(t, Highlight, colorOf(g))
	p.ClearSelected()
	assert.Equal(t, blue, colorOf(g))
}

func TestGizmoSystemSwitchesOnKeys(t *testing.T) {
	r := newRig(t)
	gs := r.ed.Gizmos
	assert.Same(t, gs.Translate(), gs.Active())

	r.step(input.NewSnapshot().PressKey(ebiten.KeyR, true))
	assert.Same(t, gs.Scale(), gs.Active())
	assert.False(t, gs.Translate().Using())

	r.step(input.NewSnapshot().PressKey(ebiten.KeyE, true))
	assert.Same(t, gs.Translate(), gs.Active())

	for _, h := range gs.Scale().Handles() {
		assert.False(t, h.Serializable())
		assert.Equal(t, gizmoZIndex, h.Transform().ZIndex)
		_, ok := r.s.GameObject(h.UID())
		assert.True(t, ok)
	}
}

func TestGizmoHiddenWithoutSelection(t *testing.T) {
	r := newRig(t)
	r.step(input.NewSnapshot())
	for _, h := range r.ed.Gizmos.Translate().Handles() {
		assert.Equal(t, hiddenColor, colorOf(h))
	}

	g := spriteObject("a", common.Vec2{})
	r.s.AddGameObject(g)
	r.step(input.NewSnapshot())
	r.props().SetActiveGameObject(g)
	r.step(r.at(common.V2(-2, -1)))
	x := r.ed.Gizmos.Translate().Handles()[0]
	assert.Equal(t, xAxisColor, colorOf(x))
	assert.True(t, x.Transform().Position.Approx(xAxisOffset, 1e-9))
}

func TestTranslateGizmoDragsAlongX(t *testing.T) {
	g := spriteObject("a", common.Vec2{})
	r := newRig(t, g)
	r.props().SetActiveGameObject(g)

	r.step(r.at(xAxisOffset).PressButton(ebiten.MouseButtonLeft, true))
	assert.True(t, r.ed.Gizmos.Busy())
	r.step(r.at(xAxisOffset.Add(common.V2(0.3, 0))).PressButton(ebiten.MouseButtonLeft, false))

	pos := g.Transform().Position
	assert.InDelta(t, 0.3, pos.X, 1e-6)
	assert.InDelta(t, 0, pos.Y, 1e-6)
	assert.Same(t, g, r.props().ActiveGameObject())
}

func TestTranslateGizmoDragsBody(t *testing.T) {
	g := spriteObject("a", common.Vec2{})
	r := newRig(t, g)
	r.props().SetActiveGameObject(g)

	r.step(r.at(common.V2(-0.3, -0.3)).PressButton(ebiten.MouseButtonLeft, true))
	r.step(r.at(common.V2(0.2, 0.2)).PressButton(ebiten.MouseButtonLeft, false))
	assert.True(t, g.Transform().Position.Approx(common.V2(0.5, 0.5), 1e-6))

	r.step(r.at(common.V2(0.2, 0.2)).ReleaseButton(ebiten.MouseButtonLeft))
	r.step(r.at(common.V2(1, 1)))
	assert.True(t, g.Transform().Position.Approx(common.V2(0.5, 0.5), 1e-6), "release ends the drag")
}

func TestScaleGizmoDragsY(t *testing.T) {
	g := spriteObject("a", common.Vec2{})
	r := newRig(t, g)
	r.props().SetActiveGameObject(g)

	r.step(input.NewSnapshot().PressKey(ebiten.KeyR, true))
	r.step(r.at(yAxisOffset).PressButton(ebiten.MouseButtonLeft, true))
	r.step(r.at(yAxisOffset.Add(common.V2(0, 0.5))).PressButton(ebiten.MouseButtonLeft, false))

	tr := g.Transform()
	assert.InDelta(t, 1.5, tr.Scale.Y, 1e-6)
	assert.InDelta(t, 1, tr.Scale.X, 1e-6)
	assert.Equal(t, common.Vec2{}, tr.Position)
}

func TestMousePicking(t *testing.T) {
	a := spriteObject("a", common.Vec2{})
	b := spriteObject("b", common.V2(2, 0))
	r := newRig(t, a, b)

	r.step(r.at(common.V2(2, 0)).PressButton(ebiten.MouseButtonLeft, true))
	assert.Same(t, b, r.props().ActiveGameObject())
	r.step(r.at(common.V2(2, 0)).ReleaseButton(ebiten.MouseButtonLeft))

	r.step(r.at(common.V2(-0.4, -0.4)).
		PressKey(ebiten.KeyShiftLeft, false).
		PressButton(ebiten.MouseButtonLeft, true))
	assert.ElementsMatch(t, []*ecs.GameObject{a, b}, r.props().ActiveGameObjects())
	r.step(r.at(common.V2(-0.4, -0.4)).ReleaseButton(ebiten.MouseButtonLeft))

	r.step(r.at(common.V2(-2, -1)).PressButton(ebiten.MouseButtonLeft, true))
	assert.Empty(t, r.props().ActiveGameObjects())
	assert.Equal(t, red, colorOf(a))
}

func TestMouseControlsPlacesPrefab(t *testing.T) {
	r := newRig(t)
	prefab := spriteObject("crate", common.Vec2{})

	require.NoError(t, r.ed.Mouse.PickUp(prefab))
	ghost := r.ed.Mouse.Holding()
	require.NotNil(t, ghost)
	assert.False(t, ghost.Serializable())
	assert.InDelta(t, 0.5, colorOf(ghost).W, 1e-9)

	r.step(r.at(common.V2(1.1, 0.6)).PressButton(ebiten.MouseButtonLeft, true))
	r.step(input.NewSnapshot())

	var placed []*ecs.GameObject
	for _, g := range r.s.GameObjects() {
		if g.Name == "crate" && g.Serializable() {
			placed = append(placed, g)
		}
	}
	require.Len(t, placed, 1)
	assert.True(t, placed[0].Transform().Position.Approx(common.V2(1.125, 0.625), 1e-9))
	assert.Equal(t, red, colorOf(placed[0]))

	r.step(input.NewSnapshot().PressKey(ebiten.KeyEscape, true))
	assert.Nil(t, r.ed.Mouse.Holding())
	r.step(input.NewSnapshot())
	_, ok := r.s.GameObject(ghost.UID())
	assert.False(t, ok)
}

func TestEditorCameraZoomAndPan(t *testing.T) {
	r := newRig(t)
	cam := r.s.Camera()

	r.step(input.NewSnapshot().Scroll(0, 1))
	assert.InDelta(t, 0.9, cam.Zoom, 1e-9)

	r.ed.Update(input.NewSnapshot().MoveCursor(640, 360).PressButton(ebiten.MouseButtonMiddle, true), 0.05)
	assert.Equal(t, common.Vec2{}, cam.Position, "debounced")
	r.ed.Update(input.NewSnapshot().MoveCursor(740, 360).PressButton(ebiten.MouseButtonMiddle, false), 0.05)
	assert.Less(t, cam.Position.X, 0.0)
}

func TestEditorCameraReset(t *testing.T) {
	r := newRig(t)
	cam := r.s.Camera()
	cam.Position = common.V2(4, -2)
	cam.Zoom = 3

	r.ed.Update(input.NewSnapshot().PressKey(ebiten.KeyBackspace, true), 0.1)
	require.True(t, r.ed.Camera.Resetting())
	assert.Less(t, cam.Position.X, 4.0)
	assert.Greater(t, cam.Position.X, 0.0)

	r.ed.Update(input.NewSnapshot(), 1)
	assert.False(t, r.ed.Camera.Resetting())
	assert.Equal(t, common.Vec2{}, cam.Position)
	assert.Equal(t, 1.0, cam.Zoom)
}

func TestGridLinesCoverView(t *testing.T) {
	s := newScene(t, nil)
	ctx := NewContext(s, nil, nil)
	NewGridLines(ctx).EditorUpdate(frame)

	lines := s.Debug().Lines()
	assert.Len(t, lines, 26+14)
	for _, l := range lines {
		assert.Equal(t, gridColor, l.Color)
	}
	assert.Equal(t, common.V2(0, 0), lines[0].From)
	assert.Equal(t, common.V2(0, 3.5), lines[0].To)
}

func TestColliderOutlines(t *testing.T) {
	s := newScene(t, nil)
	box := ecs.NewGameObject("box")
	box.AddComponent(physics.NewBox2DCollider())
	ball := ecs.NewGameObject("ball")
	ball.AddComponent(physics.NewCircleCollider())
	s.AddGameObject(box)
	s.AddGameObject(ball)

	NewColliderOutlines(NewContext(s, nil, nil)).EditorUpdate(frame)
	assert.Len(t, s.Debug().Lines(), 4+24)
}

func TestSceneHierarchy(t *testing.T) {
	a := spriteObject("a", common.Vec2{})
	b := spriteObject("b", common.V2(2, 0))
	r := newRig(t, a, b)

	nodes := r.ed.Hierarchy.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "a", nodes[0].Name)
	assert.Equal(t, "b", nodes[1].Name)

	require.True(t, r.ed.Hierarchy.Select(b.UID()))
	assert.True(t, r.ed.Hierarchy.Nodes()[1].Selected)
	assert.False(t, r.ed.Hierarchy.Select(r.ed.Object.UID()), "editor objects are not listed")

	assert.Equal(t, 1, r.ed.Hierarchy.Delete())
	r.step(input.NewSnapshot())
	assert.Len(t, r.ed.Hierarchy.Nodes(), 1)
}

func TestClipboardCopyPaste(t *testing.T) {
	s := newScene(t, nil)
	g := spriteObject("crate", common.V2(1, 1))
	s.AddGameObject(g)
	cb := NewLocalClipboard(nil)

	_, err := cb.Paste(s)
	assert.ErrorIs(t, err, ErrClipboardEmpty)

	require.NoError(t, cb.Copy(s, []*ecs.GameObject{g}))
	pasted, err := cb.Paste(s)
	require.NoError(t, err)
	require.Len(t, pasted, 1)
	out := pasted[0]
	assert.NotEqual(t, g.UID(), out.UID())
	assert.True(t, out.Transform().Position.Approx(common.V2(1.25, 0.75), 1e-9))
	assert.Equal(t, red, colorOf(out))
	assert.Len(t, s.GameObjects(), 2)
}

func TestKeyControlsCopyPasteDelete(t *testing.T) {
	g := spriteObject("crate", common.V2(1, 1))
	r := newRig(t, g)
	r.props().SetActiveGameObject(g)

	r.step(input.NewSnapshot().PressKey(ebiten.KeyControlLeft, false).PressKey(ebiten.KeyC, true))
	assert.Equal(t, Highlight, colorOf(g), "still selected after copy")
	r.step(input.NewSnapshot().PressKey(ebiten.KeyControlLeft, false).PressKey(ebiten.KeyV, true))

	sel := r.props().ActiveGameObjects()
	require.Len(t, sel, 1)
	pasted := sel[0]
	assert.NotSame(t, g, pasted)
	r.props().ClearSelected()
	assert.Equal(t, red, colorOf(pasted))
	assert.Equal(t, red, colorOf(g))

	r.props().SetActiveGameObject(pasted)
	r.step(input.NewSnapshot().PressKey(ebiten.KeyDelete, true))
	assert.True(t, pasted.IsDead())
	r.step(input.NewSnapshot())
	_, ok := r.s.GameObject(pasted.UID())
	assert.False(t, ok)
}

func TestEditorSaveFileKeepsOwnColors(t *testing.T) {
	g := spriteObject("crate", common.V2(1, 1))
	r := newRig(t, g)
	r.props().SetActiveGameObject(g)

	path := filepath.Join(t.TempDir(), "level.json")
	require.NoError(t, r.ed.SaveFile(path))
	assert.Equal(t, Highlight, colorOf(g))

	dst := newScene(t, nil)
	require.NoError(t, dst.LoadFile(path))
	out, ok := dst.GameObjectByName("crate")
	require.True(t, ok)
	assert.Equal(t, red, colorOf(out))
	for _, o := range dst.GameObjects() {
		assert.True(t, o.Serializable(), "editor objects are not saved: %s", o)
	}
}

func TestInitializerAttachesEditor(t *testing.T) {
	src := newScene(t, nil)
	src.AddGameObject(spriteObject("hero", common.V2(3, 4)))
	var buf bytes.Buffer
	require.NoError(t, src.Save(&buf))

	level := scene.NewLevelInitializer("level.json", func(string) ([]byte, error) {
		return buf.Bytes(), nil
	}, nil)
	init := NewInitializer(level, ecs.NewEventBus(), NewLocalClipboard(nil), nil)
	s := newScene(t, init)
	require.NoError(t, s.Init())

	ed := init.Editor()
	require.NotNil(t, ed)
	assert.False(t, ed.Object.Serializable())
	_, ok := s.GameObjectByName("hero")
	assert.True(t, ok)

	sheet, err := s.Assets().Spritesheet(GizmoSheetPath)
	require.NoError(t, err)
	assert.Equal(t, 3, sheet.Len())

	s.Start()
	ed.Update(input.NewSnapshot(), frame)
	assert.NotEmpty(t, s.Debug().Lines(), "grid lines drawn")
}
