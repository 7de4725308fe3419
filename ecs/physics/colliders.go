package physics

import (
	"encoding/json"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
)

const (
	CircleColliderType  = "CircleCollider"
	Box2DColliderType   = "Box2DCollider"
	PillboxColliderType = "PillboxCollider"
)

// collider is implemented by every component that contributes fixtures to
// its object's body.
type collider interface {
	ecs.Component
	fixtures(body *cp.Body) []*cp.Shape
}

type CircleCollider struct {
	ecs.Base
	Radius float64     `json:"radius"`
	Offset common.Vec2 `json:"offset"`
}

func NewCircleCollider() *CircleCollider {
	return &CircleCollider{Radius: 1}
}

func (c *CircleCollider) TypeName() string {
	return CircleColliderType
}

func (c *CircleCollider) fixtures(body *cp.Body) []*cp.Shape {
	return []*cp.Shape{cp.NewCircle(body, c.Radius, vec(c.Offset))}
}

func (c *CircleCollider) SetRadius(r float64) {
	c.Radius = r
	ResetFixture(c.GameObject())
}

func (c *CircleCollider) SetOffset(o common.Vec2) {
	c.Offset = o
	ResetFixture(c.GameObject())
}

func (c *CircleCollider) Properties() []ecs.Property {
	return []ecs.Property{
		ecs.FloatProp("radius", func() float64 { return c.Radius }, c.SetRadius),
		ecs.Vec2Prop("offset", func() common.Vec2 { return c.Offset }, c.SetOffset),
	}
}

// Box2DCollider is an axis-aligned box centered on Offset. Its fixture
// measures HalfSize.X by HalfSize.Y.
type Box2DCollider struct {
	ecs.Base
	HalfSize common.Vec2 `json:"halfSize"`
	Origin   common.Vec2 `json:"origin"`
	Offset   common.Vec2 `json:"offset"`
}

func NewBox2DCollider() *Box2DCollider {
	return &Box2DCollider{HalfSize: common.V2(1, 1)}
}

func (b *Box2DCollider) TypeName() string {
	return Box2DColliderType
}

func (b *Box2DCollider) fixtures(body *cp.Body) []*cp.Shape {
	return []*cp.Shape{newBox(body, b.HalfSize, b.Offset)}
}

func newBox(body *cp.Body, halfSize, offset common.Vec2) *cp.Shape {
	hx, hy := halfSize.X*0.5, halfSize.Y*0.5
	return cp.NewBox2(body, cp.BB{
		L: offset.X - hx,
		B: offset.Y - hy,
		R: offset.X + hx,
		T: offset.Y + hy,
	}, 0)
}

func (b *Box2DCollider) SetHalfSize(h common.Vec2) {
	b.HalfSize = h
	ResetFixture(b.GameObject())
}

func (b *Box2DCollider) SetOffset(o common.Vec2) {
	b.Offset = o
	ResetFixture(b.GameObject())
}

func (b *Box2DCollider) Properties() []ecs.Property {
	return []ecs.Property{
		ecs.Vec2Prop("halfSize", func() common.Vec2 { return b.HalfSize }, b.SetHalfSize),
		ecs.Vec2Prop("origin", func() common.Vec2 { return b.Origin }, func(o common.Vec2) { b.Origin = o }),
		ecs.Vec2Prop("offset", func() common.Vec2 { return b.Offset }, b.SetOffset),
	}
}

// PillboxCollider approximates a capsule with a box and two end-cap
// circles, all derived from Width, Height and Offset.
type PillboxCollider struct {
	ecs.Base
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Offset common.Vec2 `json:"offset"`

	topCircle    CircleCollider
	bottomCircle CircleCollider
	box          Box2DCollider
}

func NewPillboxCollider() *PillboxCollider {
	p := &PillboxCollider{Width: 0.1, Height: 0.2}
	p.RecalculateColliders()
	return p
}

func (p *PillboxCollider) TypeName() string {
	return PillboxColliderType
}

func (p *PillboxCollider) Start() {
	p.RecalculateColliders()
}

// RecalculateColliders rederives the end caps and box from the current
// dimensions.
func (p *PillboxCollider) RecalculateColliders() {
	radius := p.Width / 4
	boxHeight := p.Height - 2*radius
	p.topCircle.Radius = radius
	p.bottomCircle.Radius = radius
	p.topCircle.Offset = p.Offset.Add(common.V2(0, boxHeight/4))
	p.bottomCircle.Offset = p.Offset.Sub(common.V2(0, boxHeight/4))
	p.box.HalfSize = common.V2(p.Width/2, boxHeight/2)
	p.box.Offset = p.Offset
}

func (p *PillboxCollider) SetWidth(w float64) {
	p.Width = w
	p.RecalculateColliders()
	p.ResetFixture()
}

func (p *PillboxCollider) SetHeight(h float64) {
	p.Height = h
	p.RecalculateColliders()
	p.ResetFixture()
}

func (p *PillboxCollider) SetOffset(o common.Vec2) {
	p.Offset = o
	p.RecalculateColliders()
	p.ResetFixture()
}

// ResetFixture rebuilds the body's fixtures, or queues the rebuild for the
// next safe point while the world is stepping.
func (p *PillboxCollider) ResetFixture() {
	ResetFixture(p.GameObject())
}

func (p *PillboxCollider) TopCircle() CircleCollider {
	return p.topCircle
}

func (p *PillboxCollider) BottomCircle() CircleCollider {
	return p.bottomCircle
}

func (p *PillboxCollider) Box() Box2DCollider {
	return p.box
}

// UnmarshalJSON keeps the derived shapes in step with decoded dimensions.
func (p *PillboxCollider) UnmarshalJSON(data []byte) error {
	type plain PillboxCollider
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	p.RecalculateColliders()
	return nil
}

func (p *PillboxCollider) fixtures(body *cp.Body) []*cp.Shape {
	return []*cp.Shape{
		newBox(body, p.box.HalfSize, p.box.Offset),
		cp.NewCircle(body, p.topCircle.Radius, vec(p.topCircle.Offset)),
		cp.NewCircle(body, p.bottomCircle.Radius, vec(p.bottomCircle.Offset)),
	}
}

func (p *PillboxCollider) Properties() []ecs.Property {
	return []ecs.Property{
		ecs.FloatProp("width", func() float64 { return p.Width }, p.SetWidth),
		ecs.FloatProp("height", func() float64 { return p.Height }, p.SetHeight),
		ecs.Vec2Prop("offset", func() common.Vec2 { return p.Offset }, p.SetOffset),
	}
}

// dropFixtures rebuilds the body's fixtures once a collider has been taken
// off a live object. A dying object leaves cleanup to its RigidBody2D.
func dropFixtures(g *ecs.GameObject) {
	if g == nil || g.IsDead() {
		return
	}
	ResetFixture(g)
}

func (c *CircleCollider) Destroy()  { dropFixtures(c.GameObject()) }
func (b *Box2DCollider) Destroy()   { dropFixtures(b.GameObject()) }
func (p *PillboxCollider) Destroy() { dropFixtures(p.GameObject()) }

// ResetFixture asks g's world to rebuild g's fixtures. Objects without a
// registered RigidBody2D are ignored.
func ResetFixture(g *ecs.GameObject) {
	rb, ok := ecs.Get[*RigidBody2D](g)
	if !ok {
		return
	}
	rb.world.ResetFixtures(rb)
}
