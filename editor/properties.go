package editor

import (
	"slices"

	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/ecs/component"
	"github.com/milk9111/forge2d/ecs/physics"
	"github.com/milk9111/forge2d/logging"
	"go.uber.org/zap"
)

// Highlight tints every selected sprite.
var Highlight = common.V4(0.8, 0.8, 0, 0.8)

// PropertiesWindow is the selection model behind the inspector. Selected
// sprites are tinted and get their own color back when deselected.
type PropertiesWindow struct {
	active []*ecs.GameObject
	colors []common.Vec4
	log    *zap.Logger
}

func NewPropertiesWindow(log *zap.Logger) *PropertiesWindow {
	return &PropertiesWindow{log: logging.OrNop(log)}
}

// ActiveGameObject returns the selection only when exactly one object is
// selected.
func (p *PropertiesWindow) ActiveGameObject() *ecs.GameObject {
	if p == nil || len(p.active) != 1 {
		return nil
	}
	return p.active[0]
}

func (p *PropertiesWindow) ActiveGameObjects() []*ecs.GameObject {
	if p == nil {
		return nil
	}
	return append([]*ecs.GameObject(nil), p.active...)
}

func (p *PropertiesWindow) IsSelected(g *ecs.GameObject) bool {
	return p != nil && slices.Contains(p.active, g)
}

// SetActiveGameObject replaces the selection with g.
func (p *PropertiesWindow) SetActiveGameObject(g *ecs.GameObject) {
	if p == nil || g == nil {
		return
	}
	p.ClearSelected()
	p.AddActiveGameObject(g)
}

// AddActiveGameObject extends the selection with g and tints its sprite.
func (p *PropertiesWindow) AddActiveGameObject(g *ecs.GameObject) {
	if p == nil || g == nil || p.IsSelected(g) {
		return
	}
	var saved common.Vec4
	if sr, ok := ecs.Get[*component.SpriteRenderer](g); ok {
		saved = sr.Color
		sr.SetColor(Highlight)
	}
	p.active = append(p.active, g)
	p.colors = append(p.colors, saved)
	p.log.Debug("selected", zap.Stringer("object", g), zap.Int("count", len(p.active)))
}

// ClearSelected restores every tinted sprite and empties the selection.
func (p *PropertiesWindow) ClearSelected() {
	if p == nil {
		return
	}
	for i, g := range p.active {
		if sr, ok := ecs.Get[*component.SpriteRenderer](g); ok {
			sr.SetColor(p.colors[i])
		}
	}
	clear(p.active)
	p.active = p.active[:0]
	p.colors = p.colors[:0]
}

// Prune forgets destroyed objects.
func (p *PropertiesWindow) Prune() {
	if p == nil {
		return
	}
	for i := len(p.active) - 1; i >= 0; i-- {
		if p.active[i].IsDead() {
			p.active = slices.Delete(p.active, i, i+1)
			p.colors = slices.Delete(p.colors, i, i+1)
		}
	}
}

// AddRigidBody attaches a RigidBody2D to the active object unless it has one.
func (p *PropertiesWindow) AddRigidBody() bool {
	g := p.ActiveGameObject()
	if g == nil || ecs.Has[*physics.RigidBody2D](g) {
		return false
	}
	g.AddComponent(physics.NewRigidBody2D())
	return true
}

// AddBoxCollider attaches a box unless the active object already has a
// collider.
func (p *PropertiesWindow) AddBoxCollider() bool {
	return p.addCollider(physics.NewBox2DCollider())
}

func (p *PropertiesWindow) AddCircleCollider() bool {
	return p.addCollider(physics.NewCircleCollider())
}

func (p *PropertiesWindow) AddPillboxCollider() bool {
	return p.addCollider(physics.NewPillboxCollider())
}

func (p *PropertiesWindow) addCollider(c ecs.Component) bool {
	g := p.ActiveGameObject()
	if g == nil || hasCollider(g) {
		return false
	}
	g.AddComponent(c)
	return true
}

func hasCollider(g *ecs.GameObject) bool {
	return ecs.Has[*physics.Box2DCollider](g) ||
		ecs.Has[*physics.CircleCollider](g) ||
		ecs.Has[*physics.PillboxCollider](g)
}

// Section is one component's block in the inspector.
type Section struct {
	Component  string
	UID        int
	Properties []ecs.Property
}

// Inspect lists the editable properties of the active object, one section
// per component in dispatch order.
func (p *PropertiesWindow) Inspect() []Section {
	g := p.ActiveGameObject()
	if g == nil {
		return nil
	}
	var out []Section
	for _, c := range g.Components() {
		props := c.Properties()
		if sr, ok := c.(*component.SpriteRenderer); ok {
			props = p.spriteProperties(sr, props)
		}
		out = append(out, Section{Component: c.TypeName(), UID: c.UID(), Properties: props})
	}
	return out
}

// spriteProperties makes the color row edit the remembered color of a
// selected sprite instead of the highlight.
func (p *PropertiesWindow) spriteProperties(sr *component.SpriteRenderer, props []ecs.Property) []ecs.Property {
	g := sr.GameObject()
	if !p.IsSelected(g) {
		return props
	}
	out := make([]ecs.Property, len(props))
	copy(out, props)
	for j, prop := range out {
		if prop.Name != "color" {
			continue
		}
		out[j] = ecs.Vec4Prop("color",
			func() common.Vec4 {
				if i := slices.Index(p.active, g); i >= 0 {
					return p.colors[i]
				}
				return sr.Color
			},
			func(c common.Vec4) {
				if i := slices.Index(p.active, g); i >= 0 {
					p.colors[i] = c
					return
				}
				sr.SetColor(c)
			},
		)
	}
	return out
}
