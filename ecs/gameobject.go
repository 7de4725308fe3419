package ecs

import (
	"fmt"
	"reflect"
)

// GameObject owns an ordered list of components. The Transform is created
// with the object and always sits at index 0.
type GameObject struct {
	Name string

	uid          int
	components   []Component
	transform    *Transform
	dead         bool
	destroyed    bool
	serializable bool
}

func NewGameObject(name string) *GameObject {
	g := &GameObject{
		Name:         name,
		uid:          IDs.NextObject(),
		serializable: true,
	}
	g.AddComponent(NewTransform())
	return g
}

func (g *GameObject) UID() int {
	if g == nil {
		return 0
	}
	return g.uid
}

func (g *GameObject) Transform() *Transform {
	if g == nil {
		return nil
	}
	return g.transform
}

func (g *GameObject) IsDead() bool {
	return g != nil && g.dead
}

func (g *GameObject) Serializable() bool {
	return g != nil && g.serializable
}

// SetNoSerialize excludes the object from saved scenes.
func (g *GameObject) SetNoSerialize() {
	g.serializable = false
}

// Components returns a snapshot of the component list.
func (g *GameObject) Components() []Component {
	if g == nil {
		return nil
	}
	out := make([]Component, len(g.components))
	copy(out, g.components)
	return out
}

// AddComponent assigns c a uid if it has none, attaches any missing required
// components first, then appends c. A second Transform overwrites the values
// of the existing one.
func (g *GameObject) AddComponent(c Component) {
	if g == nil || c == nil {
		return
	}
	if t, ok := c.(*Transform); ok && g.transform != nil {
		t.CopyTo(g.transform)
		return
	}

	if r, ok := c.(Requirer); ok {
		for _, req := range r.Requires() {
			if req == nil || g.hasType(reflect.TypeOf(req)) {
				continue
			}
			g.AddComponent(req)
		}
	}

	g.attach(c)
	if t, ok := c.(*Transform); ok {
		g.transform = t
	}
}

func (g *GameObject) hasType(rt reflect.Type) bool {
	for _, c := range g.components {
		if reflect.TypeOf(c) == rt {
			return true
		}
	}
	return false
}

// RemoveComponent detaches c and calls its Destroy hook. The hook runs after
// c has left the component list but before its owner link is cleared, so it
// can still reach the object. The Transform cannot be removed.
func (g *GameObject) RemoveComponent(c Component) bool {
	if g == nil || c == nil {
		return false
	}
	if _, ok := c.(*Transform); ok {
		return false
	}
	for i, existing := range g.components {
		if existing == c {
			g.components = append(g.components[:i], g.components[i+1:]...)
			c.Destroy()
			c.base().gameObject = nil
			return true
		}
	}
	return false
}

func (g *GameObject) ComponentByUID(uid int) (Component, bool) {
	if g == nil {
		return nil, false
	}
	for _, c := range g.components {
		if c.UID() == uid {
			return c, true
		}
	}
	return nil, false
}

func (g *GameObject) Start() {
	if g == nil {
		return
	}
	for i := 0; i < len(g.components); i++ {
		g.components[i].Start()
	}
}

func (g *GameObject) Update(dt float64) {
	if g == nil {
		return
	}
	for i := 0; i < len(g.components); i++ {
		g.components[i].Update(dt)
	}
}

func (g *GameObject) EditorUpdate(dt float64) {
	if g == nil {
		return
	}
	for i := 0; i < len(g.components); i++ {
		g.components[i].EditorUpdate(dt)
	}
}

func (g *GameObject) BeginCollision(other *GameObject, contact *Contact) {
	for _, c := range g.Components() {
		c.BeginCollision(other, contact)
	}
}

func (g *GameObject) EndCollision(other *GameObject, contact *Contact) {
	for _, c := range g.Components() {
		c.EndCollision(other, contact)
	}
}

func (g *GameObject) PreSolve(other *GameObject, contact *Contact) {
	for _, c := range g.Components() {
		c.PreSolve(other, contact)
	}
}

func (g *GameObject) PostSolve(other *GameObject, contact *Contact) {
	for _, c := range g.Components() {
		c.PostSolve(other, contact)
	}
}

// Destroy marks the object dead and notifies every component. Only the first
// call has any effect; the owning scene drops the object at its next prune.
func (g *GameObject) Destroy() {
	if g == nil || g.destroyed {
		return
	}
	g.dead = true
	g.destroyed = true
	for _, c := range g.Components() {
		c.Destroy()
	}
}

// Copy deep-copies g through the registry codec. The copy and its components
// get fresh uids.
func (g *GameObject) Copy(reg *Registry) (*GameObject, error) {
	if g == nil {
		return nil, nil
	}
	data, err := reg.EncodeObject(g)
	if err != nil {
		return nil, fmt.Errorf("ecs: copy %s: %w", g.Name, err)
	}
	out, err := reg.DecodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("ecs: copy %s: %w", g.Name, err)
	}
	return out, nil
}

func (g *GameObject) String() string {
	if g == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d", g.Name, g.uid)
}
