package component

import (
	"encoding/json"
	"testing"

	"github.com/milk9111/forge2d/assets"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sprite(w float64) assets.Sprite {
	s := assets.NewSprite(nil)
	s.Width = w
	return s
}

func idleRunMachine() *StateMachine {
	m := NewStateMachine(nil)
	idle := NewAnimationState("Idle", true)
	idle.AddFrame(sprite(1), 0.1)
	run := NewAnimationState("Run", true)
	run.AddFrame(sprite(2), 0.1)
	m.AddState(idle)
	m.AddState(run)
	m.AddTransition("Idle", "Run", "go")
	m.SetDefaultState("Idle")
	return m
}

func TestStateMachineTrigger(t *testing.T) {
	m := idleRunMachine()
	require.Equal(t, "Idle", m.Current())

	assert.True(t, m.Trigger("go"))
	assert.Equal(t, "Run", m.Current())

	assert.False(t, m.Trigger("go"))
	assert.Equal(t, "Run", m.Current())
}

func TestStateMachineTriggerToMissingState(t *testing.T) {
	m := idleRunMachine()
	m.AddTransition("Idle", "Fly", "jump")

	assert.False(t, m.Trigger("jump"))
	assert.Equal(t, "Idle", m.Current())
}

func TestStateMachineUnknownDefaultIgnored(t *testing.T) {
	m := idleRunMachine()
	m.SetDefaultState("Nope")
	assert.Equal(t, "Idle", m.DefaultState)
}

func TestStateMachineDrivesSpriteRenderer(t *testing.T) {
	g := ecs.NewGameObject("hero")
	m := idleRunMachine()
	g.AddComponent(m)

	sr, ok := ecs.Get[*SpriteRenderer](g)
	require.True(t, ok, "state machine should pull in a sprite renderer")

	g.Start()
	sr.SetClean()
	m.Trigger("go")
	g.Update(0.2)

	assert.Equal(t, 2.0, sr.Sprite.Width)
	assert.True(t, sr.IsDirty())

	sr.SetClean()
	g.Update(0.2)
	assert.False(t, sr.IsDirty(), "same sprite should not re-dirty")
}

func TestStateMachineStartUsesDefault(t *testing.T) {
	m := idleRunMachine()
	m.Trigger("go")
	m.Start()
	assert.Equal(t, "Idle", m.Current())
}

func TestStateMachineJSONRoundTrip(t *testing.T) {
	m := idleRunMachine()
	data, err := json.Marshal(m)
	require.NoError(t, err)

	out := NewStateMachine(nil)
	require.NoError(t, json.Unmarshal(data, out))
	out.Start()
	assert.Equal(t, "Idle", out.Current())
	assert.True(t, out.Trigger("go"))
	assert.Equal(t, "Run", out.Current())
}

func TestAnimationStateFrames(t *testing.T) {
	cases := []struct {
		name  string
		loop  bool
		steps int
		want  int
	}{
		{"advances", true, 1, 1},
		{"wraps_when_looping", true, 3, 0},
		{"holds_last_frame", false, 5, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := NewAnimationState("walk", c.loop)
			a.AddFrames([]assets.Sprite{sprite(1), sprite(2), sprite(3)}, 0.1)
			for i := 0; i < c.steps; i++ {
				a.Update(0.1)
			}
			assert.Equal(t, c.want, a.FrameIndex())
			assert.Equal(t, float64(c.want+1), a.CurrentSprite().Width)
		})
	}
}

func TestAnimationStateWithoutFrames(t *testing.T) {
	a := NewAnimationState("empty", true)
	a.Update(1)
	assert.Nil(t, a.CurrentSprite().Texture)
	assert.Equal(t, assets.DefaultTexCoords(), a.CurrentSprite().TexCoords)
}

func TestSpriteRendererDirtyTracking(t *testing.T) {
	g := ecs.NewGameObject("s")
	sr := NewSpriteRenderer()
	g.AddComponent(sr)
	g.Start()
	sr.SetClean()

	sr.SetColor(common.V4(1, 1, 1, 1))
	assert.False(t, sr.IsDirty(), "same color")

	sr.SetColor(common.V4(1, 0, 0, 1))
	assert.True(t, sr.IsDirty())

	sr.SetClean()
	g.Update(0.1)
	assert.False(t, sr.IsDirty())

	g.Transform().Position = common.V2(3, 0)
	g.Update(0.1)
	assert.True(t, sr.IsDirty())

	sr.SetClean()
	g.Transform().ZIndex = 2
	g.EditorUpdate(0.1)
	assert.True(t, sr.IsDirty())
}
