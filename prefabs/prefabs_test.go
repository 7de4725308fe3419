package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/ecs/component"
	"github.com/milk9111/forge2d/ecs/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedPrefabsBuild(t *testing.T) {
	names, err := List()
	require.NoError(t, err)
	require.Contains(t, names, "hero.yaml")

	b := NewBuilder(nil, nil, nil)
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			g, err := b.BuildFile(name)
			require.NoError(t, err)
			assert.NotEmpty(t, g.Name)
			assert.True(t, g.Serializable())
		})
	}
}

func TestBuildHero(t *testing.T) {
	g, err := NewBuilder(nil, nil, nil).BuildFile("prefabs/hero.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Hero", g.Name)
	assert.Equal(t, common.V2(0.25, 0.25), g.Transform().Scale)
	assert.Equal(t, 2, g.Transform().ZIndex)

	sm, ok := ecs.Get[*component.StateMachine](g)
	require.True(t, ok)
	assert.Equal(t, "idle", sm.Current())
	assert.True(t, sm.Trigger("move"))
	assert.Equal(t, "run", sm.Current())

	sr, ok := ecs.Get[*component.SpriteRenderer](g)
	require.True(t, ok)
	assert.Equal(t, "assets/hero.png", sr.Sprite.Texture.Path)
	assert.Equal(t, 16.0, sr.Sprite.Width)

	rb, ok := ecs.Get[*physics.RigidBody2D](g)
	require.True(t, ok)
	assert.Equal(t, physics.Dynamic, rb.BodyType)
	assert.True(t, rb.FixedRotation)
	assert.Equal(t, 1.0, rb.Mass)

	pill, ok := ecs.Get[*physics.PillboxCollider](g)
	require.True(t, ok)
	assert.Equal(t, 0.2, pill.Width)
	assert.Equal(t, 0.25, pill.Height)

	s, ok := ecs.Get[*component.Script](g)
	require.True(t, ok)
	assert.Equal(t, "prefabs/scripts/hero.tengo", s.Path)
	require.NoError(t, s.Compile())
}

func TestBuildFillsSizesFromScale(t *testing.T) {
	g, err := NewBuilder(nil, nil, nil).BuildFile("ground.yaml")
	require.NoError(t, err)

	box, ok := ecs.Get[*physics.Box2DCollider](g)
	require.True(t, ok)
	assert.Equal(t, common.V2(0.25, 0.25), box.HalfSize)

	rb, ok := ecs.Get[*physics.RigidBody2D](g)
	require.True(t, ok)
	assert.Equal(t, physics.Static, rb.BodyType)
	assert.Equal(t, 0.6, rb.Friction)
	assert.Equal(t, 0.9, rb.LinearDamping)

	sr, ok := ecs.Get[*component.SpriteRenderer](g)
	require.True(t, ok)
	assert.InDelta(t, 0x73/255.0, sr.Color.X, 1e-9)
	assert.Equal(t, 1.0, sr.Color.W)
}

func TestBuildComponentOrder(t *testing.T) {
	spec := EntityBuildSpec{
		Name: "order",
		Components: map[string]any{
			ScriptKey:         map[string]any{"source": "x := 1"},
			CircleColliderKey: map[string]any{"radius": 0.5},
			RigidBodyKey:      map[string]any{"body_type": "kinematic"},
			TransformKey:      map[string]any{"x": 1, "y": 2},
		},
	}
	g, err := NewBuilder(nil, nil, nil).Build(spec)
	require.NoError(t, err)

	var types []string
	for _, c := range g.Components() {
		types = append(types, c.TypeName())
	}
	assert.Equal(t, []string{ecs.TransformType, physics.RigidBody2DType, physics.CircleColliderType, component.ScriptType}, types)
	assert.Equal(t, common.V2(1, 2), g.Transform().Position)
	assert.Equal(t, common.V2(1, 1), g.Transform().Scale)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		spec EntityBuildSpec
	}{
		{"unknown component", EntityBuildSpec{Name: "x", Components: map[string]any{"teleporter": map[string]any{}}}},
		{"bad body type", EntityBuildSpec{Name: "x", Components: map[string]any{RigidBodyKey: map[string]any{"body_type": "floaty"}}}},
		{"empty script", EntityBuildSpec{Name: "x", Components: map[string]any{ScriptKey: map[string]any{}}}},
		{"frame out of range", EntityBuildSpec{Name: "x", Components: map[string]any{AnimationKey: map[string]any{
			"sheet":  map[string]any{"image": "assets/hero.png", "frame_w": 16, "frame_h": 16, "count": 4},
			"states": []any{map[string]any{"name": "idle", "frames": []any{0, 9}}},
		}}}},
		{"animation without states", EntityBuildSpec{Name: "x", Components: map[string]any{AnimationKey: map[string]any{}}}},
	}
	b := NewBuilder(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.spec)
			assert.Error(t, err)
		})
	}
}

func TestYAMLColor(t *testing.T) {
	tests := []struct {
		in   string
		want common.Vec4
		err  bool
	}{
		{in: `"#ff0000"`, want: common.V4(1, 0, 0, 1)},
		{in: `"00ff0080"`, want: common.V4(0, 1, 0, 128.0/255)},
		{in: `"#fff"`, err: true},
		{in: `"#gg0000"`, err: true},
		{in: `[1, 2]`, err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c YAMLColor
			err := yaml.Unmarshal([]byte(tt.in), &c)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			got := c.Vec4()
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-9)
			assert.InDelta(t, tt.want.W, got.W, 1e-9)
		})
	}

	var none *YAMLColor
	assert.Equal(t, common.V4(1, 1, 1, 1), none.Vec4())
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"hero.tengo", "scripts/hero.tengo", "prefabs/scripts/hero.tengo"} {
		data, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "engine.position()")
	}
	_, err := LoadScript("nope.tengo")
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindPrefab, Classify("prefabs/hero.yaml"))
	assert.Equal(t, KindPrefab, Classify("x.YML"))
	assert.Equal(t, KindScript, Classify("prefabs/scripts/hero.tengo"))
	assert.Equal(t, KindScene, Classify("levels/level.json"))
	assert.Equal(t, KindOther, Classify("notes.txt"))
}

func TestWatcherReportsEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	path := filepath.Join(dir, "crate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: crate\n"), 0o644))

	select {
	case c := <-w.Events:
		assert.Equal(t, path, c.Path)
		assert.Equal(t, KindPrefab, c.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherCloseClosesEvents(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, ok := <-w.Events
	assert.False(t, ok)
	assert.Empty(t, w.Drain())
}
