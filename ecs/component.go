package ecs

import "github.com/milk9111/forge2d/common"

// Component is the capability surface every attachable behaviour exposes.
// Embed Base to get identity and no-op hooks, then override what you need.
type Component interface {
	UID() int
	GameObject() *GameObject
	// TypeName is the stable tag used by the Registry when persisting.
	TypeName() string

	Start()
	Update(dt float64)
	EditorUpdate(dt float64)

	BeginCollision(other *GameObject, contact *Contact)
	EndCollision(other *GameObject, contact *Contact)
	PreSolve(other *GameObject, contact *Contact)
	PostSolve(other *GameObject, contact *Contact)

	Destroy()
	Properties() []Property

	base() *Base
}

// Requirer is implemented by components that depend on other component
// types being present on the same GameObject. Missing requirements are
// attached before the dependent component.
type Requirer interface {
	Requires() []Component
}

// Contact describes one collision between two GameObjects from the point of
// view of the receiving object.
type Contact struct {
	Normal common.Vec2
	Points []common.Vec2

	disabled bool
}

// Disable vetoes the physical response for this contact. Only meaningful
// from PreSolve or BeginCollision.
func (c *Contact) Disable() {
	if c == nil {
		return
	}
	c.disabled = true
}

func (c *Contact) Disabled() bool {
	return c != nil && c.disabled
}

type Base struct {
	uid        int
	gameObject *GameObject
}

func (b *Base) base() *Base { return b }

func (b *Base) UID() int {
	return b.uid
}

func (b *Base) GameObject() *GameObject {
	return b.gameObject
}

// Transform is a shortcut for GameObject().Transform(); nil when detached.
func (b *Base) Transform() *Transform {
	if b.gameObject == nil {
		return nil
	}
	return b.gameObject.transform
}

func (b *Base) Start() {}
func (b *Base) Update(float64) {}
func (b *Base) EditorUpdate(float64) {}
func (b *Base) Destroy() {}
func (b *Base) Properties() []Property { return nil }

func (b *Base) BeginCollision(*GameObject, *Contact) {}
func (b *Base) EndCollision(*GameObject, *Contact) {}
func (b *Base) PreSolve(*GameObject, *Contact) {}
func (b *Base) PostSolve(*GameObject, *Contact) {}

// generateID assigns a uid once; later calls keep the existing id.
func (b *Base) generateID() {
	if b.uid == 0 {
		b.uid = IDs.NextComponent()
	}
}
