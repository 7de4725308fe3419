package editor

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/ecs/component"
	"go.uber.org/zap"
)

// MouseControls selects objects under the cursor and places prefabs on the
// grid. While a prefab is held, a translucent ghost follows the cursor and
// every left click drops a copy.
type MouseControls struct {
	ecs.Base
	ctx    *Context
	gizmos *GizmoSystem

	prefab  *ecs.GameObject
	holding *ecs.GameObject
}

// NewMouseControls wires picking to ctx. gizmos may be nil; when set, clicks
// that start a gizmo drag leave the selection alone.
func NewMouseControls(ctx *Context, gizmos *GizmoSystem) *MouseControls {
	return &MouseControls{ctx: ctx, gizmos: gizmos}
}

func (m *MouseControls) TypeName() string {
	return "MouseControls"
}

// PickUp starts placing copies of prefab. prefab itself never joins the
// scene.
func (m *MouseControls) PickUp(prefab *ecs.GameObject) error {
	m.Drop()
	ghost, err := m.ctx.Scene.Clone(prefab)
	if err != nil {
		return err
	}
	ghost.SetNoSerialize()
	if sr, ok := ecs.Get[*component.SpriteRenderer](ghost); ok {
		c := sr.Color
		c.W *= 0.5
		sr.SetColor(c)
	}
	ghost.Transform().Position = m.cell()
	m.prefab = prefab
	m.holding = ghost
	m.ctx.Properties.ClearSelected()
	m.ctx.Scene.AddGameObject(ghost)
	return nil
}

// Drop stops placing and removes the ghost.
func (m *MouseControls) Drop() {
	if m.holding != nil {
		m.holding.Destroy()
	}
	m.prefab = nil
	m.holding = nil
}

func (m *MouseControls) Holding() *ecs.GameObject {
	return m.holding
}

func (m *MouseControls) EditorUpdate(float64) {
	in := m.ctx.Input()
	if m.holding != nil {
		m.holding.Transform().Position = m.cell()
		switch {
		case in.KeyJustPressed(ebiten.KeyEscape):
			m.Drop()
		case in.ButtonJustPressed(ebiten.MouseButtonLeft):
			m.place()
		}
		return
	}

	if !in.ButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	if m.gizmos != nil && m.gizmos.Busy() {
		return
	}
	m.pick(in.AnyPressed(ebiten.KeyShiftLeft, ebiten.KeyShiftRight))
}

// cell is the center of the grid cell under the cursor.
func (m *MouseControls) cell() common.Vec2 {
	half := m.ctx.GridSize / 2
	return m.ctx.Snap(m.ctx.MouseWorld()).Add(common.V2(half, half))
}

func (m *MouseControls) place() {
	g, err := m.ctx.Scene.Clone(m.prefab)
	if err != nil {
		m.ctx.Log().Warn("place prefab", zap.String("prefab", m.prefab.Name), zap.Error(err))
		return
	}
	g.Transform().Position = m.holding.Transform().Position
	m.ctx.Scene.AddGameObject(g)
	m.ctx.Log().Debug("placed", zap.Stringer("object", g), zap.Float64("x", g.Transform().Position.X), zap.Float64("y", g.Transform().Position.Y))
}

// pick selects the topmost user object under the cursor. Editor handles are
// ignored so clicking an arrow keeps the current selection.
func (m *MouseControls) pick(extend bool) {
	props := m.ctx.Properties
	uid, ok := m.ctx.Scene.Renderer().Pick(m.ctx.MouseWorld())
	if !ok {
		if !extend {
			props.ClearSelected()
		}
		return
	}
	g, found := m.ctx.Scene.GameObject(uid)
	if !found || !g.Serializable() {
		return
	}
	switch {
	case extend:
		props.AddActiveGameObject(g)
	case props.ActiveGameObject() != g:
		props.SetActiveGameObject(g)
	}
}
