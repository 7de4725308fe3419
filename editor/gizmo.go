package editor

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/forge2d/assets"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/ecs/component"
	"golang.org/x/image/colornames"
)

const (
	GizmoSheetPath = "assets/gizmos.png"

	gizmoSpriteWidth  = 24
	gizmoSpriteHeight = 48
	gizmoSpriteCount  = 3
	translateSprite   = 1
	scaleSprite       = 2

	gizmoWidth  = 16.0 / 80.0
	gizmoHeight = 48.0 / 80.0
	gizmoZIndex = 100

	outlineScale = 1.1
)

var (
	xAxisColor      = common.V4(0.5, 0, 0, 0.3)
	xAxisColorHover = common.V4(1, 0, 0, 1)
	yAxisColor      = common.V4(0, 0.5, 0, 0.3)
	yAxisColorHover = common.V4(0, 1, 0, 1)
	hiddenColor     = common.V4(0, 0, 0, 0)

	xAxisOffset = common.V2(24.0/80.0, -6.0/80.0)
	yAxisOffset = common.V2(-7.0/80.0, 21.0/80.0)
)

// Gizmo is an on-screen handle that edits the active object's transform.
// Only the gizmo in use reacts to the mouse; the others stay hidden.
type Gizmo interface {
	EditorUpdate(dt float64)
	SetUsing(using bool)
	Using() bool
	// Handles are the arrow objects the gizmo draws with.
	Handles() []*ecs.GameObject
}

// gizmoBase owns the two axis arrows and the hover and drag state shared by
// every gizmo.
type gizmoBase struct {
	ctx *Context

	xAxis, yAxis     *ecs.GameObject
	xSprite, ySprite *component.SpriteRenderer

	target  *ecs.GameObject
	xActive bool
	yActive bool
	using   bool
}

func newGizmoBase(ctx *Context, sprite assets.Sprite) gizmoBase {
	b := gizmoBase{ctx: ctx}
	b.xAxis, b.xSprite = newArrow("gizmo x", sprite, 90)
	b.yAxis, b.ySprite = newArrow("gizmo y", sprite, 180)
	ctx.Scene.AddGameObject(b.xAxis)
	ctx.Scene.AddGameObject(b.yAxis)
	return b
}

func newArrow(name string, sprite assets.Sprite, rotation float64) (*ecs.GameObject, *component.SpriteRenderer) {
	g := ecs.NewGameObject(name)
	g.SetNoSerialize()
	t := g.Transform()
	t.Scale = common.V2(gizmoWidth, gizmoHeight)
	t.Rotation = rotation
	t.ZIndex = gizmoZIndex
	sr := component.NewSpriteRendererFor(sprite)
	sr.SetColor(hiddenColor)
	g.AddComponent(sr)
	return g, sr
}

func (b *gizmoBase) SetUsing(using bool) {
	b.using = using
	if !using {
		b.hide()
	}
}

func (b *gizmoBase) Using() bool {
	return b.using
}

func (b *gizmoBase) Handles() []*ecs.GameObject {
	return []*ecs.GameObject{b.xAxis, b.yAxis}
}

func (b *gizmoBase) hide() {
	b.xSprite.SetColor(hiddenColor)
	b.ySprite.SetColor(hiddenColor)
	b.xActive, b.yActive = false, false
	b.target = nil
}

// track follows the active object and updates hover colors and the dragged
// axis. It reports false when there is nothing to edit.
func (b *gizmoBase) track() bool {
	if !b.using {
		return false
	}
	b.target = b.ctx.Properties.ActiveGameObject()
	if b.target == nil {
		b.hide()
		return false
	}
	b.place()

	mouse := b.ctx.MouseWorld()
	xHot := b.hoverX(mouse)
	yHot := b.hoverY(mouse)
	b.xSprite.SetColor(pick(xHot, xAxisColorHover, xAxisColor))
	b.ySprite.SetColor(pick(yHot, yAxisColorHover, yAxisColor))

	left := b.ctx.Input().ButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case (xHot || b.xActive) && left:
		b.xActive, b.yActive = true, false
	case (yHot || b.yActive) && left:
		b.xActive, b.yActive = false, true
	default:
		b.xActive, b.yActive = false, false
	}
	return true
}

// place moves the arrows next to the target.
func (b *gizmoBase) place() {
	pos := b.target.Transform().Position
	b.xAxis.Transform().Position = pos.Add(xAxisOffset)
	b.yAxis.Transform().Position = pos.Add(yAxisOffset)
}

// The x arrow lies on its side, so its hit box is the arrow's rect rotated.
func (b *gizmoBase) hoverX(mouse common.Vec2) bool {
	return within(mouse, b.xAxis.Transform().Position, common.V2(gizmoHeight/2, gizmoWidth/2))
}

func (b *gizmoBase) hoverY(mouse common.Vec2) bool {
	return within(mouse, b.yAxis.Transform().Position, common.V2(gizmoWidth/2, gizmoHeight/2))
}

// Dragging reports whether an arrow is held.
func (b *gizmoBase) Dragging() bool {
	return b.xActive || b.yActive
}

func within(p, center, half common.Vec2) bool {
	return p.X >= center.X-half.X && p.X <= center.X+half.X &&
		p.Y >= center.Y-half.Y && p.Y <= center.Y+half.Y
}

func pick(cond bool, a, b common.Vec4) common.Vec4 {
	if cond {
		return a
	}
	return b
}

// TranslateGizmo moves the active object, either along one axis with the
// arrows or freely by dragging the object itself.
type TranslateGizmo struct {
	gizmoBase
	dragging bool
}

func NewTranslateGizmo(ctx *Context, sprite assets.Sprite) *TranslateGizmo {
	return &TranslateGizmo{gizmoBase: newGizmoBase(ctx, sprite)}
}

func (t *TranslateGizmo) SetUsing(using bool) {
	t.gizmoBase.SetUsing(using)
	t.dragging = false
}

func (t *TranslateGizmo) EditorUpdate(float64) {
	if !t.track() {
		t.dragging = false
		return
	}
	in := t.ctx.Input()
	tr := t.target.Transform()
	delta := t.ctx.MouseDelta()

	switch {
	case t.xActive:
		tr.Position.X += delta.X
	case t.yActive:
		tr.Position.Y += delta.Y
	case t.dragging:
		tr.Position = tr.Position.Add(delta)
	}

	if !in.ButtonPressed(ebiten.MouseButtonLeft) {
		t.dragging = false
	} else if in.ButtonJustPressed(ebiten.MouseButtonLeft) && !t.Dragging() && t.HoverTarget() {
		t.dragging = true
	}

	t.place()
	t.ctx.Scene.Debug().AddBox(tr.Position, tr.Scale.Scale(outlineScale), 0, colornames.Orange, 1)
}

// HoverTarget reports whether the cursor is over the active object's quad.
func (t *TranslateGizmo) HoverTarget() bool {
	if t.target == nil {
		return false
	}
	tr := t.target.Transform()
	return within(t.ctx.MouseWorld(), tr.Position, tr.Scale.Scale(0.5))
}

// ScaleGizmo stretches the active object along the dragged axis.
type ScaleGizmo struct {
	gizmoBase
}

func NewScaleGizmo(ctx *Context, sprite assets.Sprite) *ScaleGizmo {
	return &ScaleGizmo{gizmoBase: newGizmoBase(ctx, sprite)}
}

func (s *ScaleGizmo) EditorUpdate(float64) {
	if !s.track() {
		return
	}
	tr := s.target.Transform()
	delta := s.ctx.MouseDelta()
	switch {
	case s.xActive:
		tr.Scale.X += delta.X
	case s.yActive:
		tr.Scale.Y += delta.Y
	}
	s.place()
}

// GizmoSystem switches between the translate (E) and scale (R) gizmos and
// drives the one in use.
type GizmoSystem struct {
	ecs.Base
	ctx       *Context
	translate *TranslateGizmo
	scale     *ScaleGizmo
}

// NewGizmoSystem builds both gizmos from the gizmo sheet. A nil sheet falls
// back to the placeholder texture.
func NewGizmoSystem(ctx *Context, sheet *assets.Spritesheet) *GizmoSystem {
	s := &GizmoSystem{ctx: ctx}
	s.translate = NewTranslateGizmo(ctx, gizmoSprite(ctx, sheet, translateSprite))
	s.scale = NewScaleGizmo(ctx, gizmoSprite(ctx, sheet, scaleSprite))
	s.translate.SetUsing(true)
	return s
}

func gizmoSprite(ctx *Context, sheet *assets.Spritesheet, i int) assets.Sprite {
	if sheet != nil {
		if sp, ok := sheet.Sprite(i); ok {
			return sp
		}
	}
	return assets.NewSprite(ctx.Scene.Assets().Placeholder())
}

// LoadGizmoSheet slices the gizmo art and registers it with the pool.
func LoadGizmoSheet(p *assets.Pool) (*assets.Spritesheet, error) {
	if sheet, err := p.Spritesheet(GizmoSheetPath); err == nil {
		return sheet, nil
	}
	tex, err := p.Texture(GizmoSheetPath)
	if err != nil {
		return nil, err
	}
	sheet, err := assets.NewSpritesheet(tex, gizmoSpriteWidth, gizmoSpriteHeight, gizmoSpriteCount, 0)
	if err != nil {
		return nil, err
	}
	p.AddSpritesheet(GizmoSheetPath, sheet)
	return sheet, nil
}

func (s *GizmoSystem) TypeName() string {
	return "GizmoSystem"
}

func (s *GizmoSystem) EditorUpdate(dt float64) {
	in := s.ctx.Input()
	switch {
	case in.KeyJustPressed(ebiten.KeyE):
		s.Use(s.translate)
	case in.KeyJustPressed(ebiten.KeyR):
		s.Use(s.scale)
	}
	s.translate.EditorUpdate(dt)
	s.scale.EditorUpdate(dt)
}

// Use makes g the gizmo in use and hides the other one.
func (s *GizmoSystem) Use(g Gizmo) {
	for _, other := range s.Gizmos() {
		other.SetUsing(other == g)
	}
}

func (s *GizmoSystem) Gizmos() []Gizmo {
	return []Gizmo{s.translate, s.scale}
}

// Active returns the gizmo in use.
func (s *GizmoSystem) Active() Gizmo {
	for _, g := range s.Gizmos() {
		if g.Using() {
			return g
		}
	}
	return nil
}

// Busy reports whether a gizmo is being dragged, so clicks should not change
// the selection.
func (s *GizmoSystem) Busy() bool {
	return s.translate.Dragging() || s.translate.dragging || s.scale.Dragging()
}

func (s *GizmoSystem) Translate() *TranslateGizmo { return s.translate }
func (s *GizmoSystem) Scale() *ScaleGizmo         { return s.scale }
