package main

import (
	"path/filepath"
	"testing"

	"github.com/milk9111/forge2d/app"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"level", filepath.Join("levels", "level.json")},
		{"cave.json", filepath.Join("levels", "cave.json")},
		{filepath.Join("tmp", "x.json"), filepath.Join("tmp", "x.json")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levelPath(tt.in), tt.in)
	}
}

func TestListPrefabs(t *testing.T) {
	list, err := ListPrefabs()
	require.NoError(t, err)

	var names []string
	for _, p := range list {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "hero")
	assert.Contains(t, names, "ground")
	assert.IsIncreasing(t, names)
}

func TestHierarchySignature(t *testing.T) {
	a := []editor.Node{{UID: 1, Name: "crate"}, {UID: 2, Name: "hero"}}
	b := []editor.Node{{UID: 1, Name: "crate"}, {UID: 2, Name: "hero", Selected: true}}
	c := []editor.Node{{UID: 1, Name: "box"}, {UID: 2, Name: "hero"}}

	assert.Equal(t, hierarchySignature(a), hierarchySignature(a))
	assert.NotEqual(t, hierarchySignature(a), hierarchySignature(b))
	assert.NotEqual(t, hierarchySignature(a), hierarchySignature(c))
	assert.Empty(t, hierarchySignature(nil))
}

func TestInspectorSignature(t *testing.T) {
	g := ecs.NewGameObject("crate")
	one := []editor.Section{{Component: ecs.TransformType, UID: 1, Properties: make([]ecs.Property, 4)}}
	two := append(one, editor.Section{Component: "RigidBody2D", UID: 2})

	assert.Empty(t, inspectorSignature(nil, one))
	assert.NotEqual(t, inspectorSignature(g, one), inspectorSignature(g, two))
	assert.NotEqual(t, inspectorSignature(g, one), inspectorSignature(ecs.NewGameObject("crate"), one))
}

func TestNextOption(t *testing.T) {
	assert.Equal(t, 1, nextOption(0, 3))
	assert.Equal(t, 0, nextOption(2, 3))
	assert.Equal(t, 0, nextOption(5, 0))
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "editor: levels/level.json", statusText(app.ModeEditor, false, "levels/level.json"))
	assert.Equal(t, "playing levels/level.json", statusText(app.ModeRuntime, true, "levels/level.json"))
}
