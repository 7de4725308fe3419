package editor

import (
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/scene"
)

// Node is one row of the scene hierarchy.
type Node struct {
	Name     string
	UID      int
	Object   *ecs.GameObject
	Selected bool
}

// SceneHierarchy lists the objects a user placed, skipping editor-only ones.
type SceneHierarchy struct {
	scene *scene.Scene
	props *PropertiesWindow
}

func NewSceneHierarchy(s *scene.Scene, props *PropertiesWindow) *SceneHierarchy {
	return &SceneHierarchy{scene: s, props: props}
}

// Nodes returns the serializable objects in scene order.
func (h *SceneHierarchy) Nodes() []Node {
	var out []Node
	for _, g := range h.scene.GameObjects() {
		if !g.Serializable() {
			continue
		}
		out = append(out, Node{
			Name:     g.Name,
			UID:      g.UID(),
			Object:   g,
			Selected: h.props.IsSelected(g),
		})
	}
	return out
}

// Select makes the object with uid the only selection.
func (h *SceneHierarchy) Select(uid int) bool {
	g, ok := h.scene.GameObject(uid)
	if !ok || !g.Serializable() {
		return false
	}
	h.props.SetActiveGameObject(g)
	return true
}

// Delete destroys the selected objects. The scene prunes them on its next
// update.
func (h *SceneHierarchy) Delete() int {
	objs := h.props.ActiveGameObjects()
	h.props.ClearSelected()
	for _, g := range objs {
		g.Destroy()
	}
	return len(objs)
}
