package component

import (
	"errors"
	"testing"

	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBody struct {
	ecs.Base
	impulses []common.Vec2
	velocity common.Vec2
}

func (f *fakeBody) TypeName() string { return "fakeBody" }
func (f *fakeBody) AddImpulse(v common.Vec2) { f.impulses = append(f.impulses, v) }
func (f *fakeBody) SetVelocity(v common.Vec2) { f.velocity = v }

const patrolScript = `
pos := engine.position()
if is_undefined(state.ticks) { state.ticks = 0 }
state.ticks += 1
engine.set_position(pos[0] + 2 * dt, pos[1])
if state.ticks == 2 { engine.trigger("go") }
engine.impulse(0, 1)
engine.set_velocity(3, 4)
`

func TestScriptDrivesObject(t *testing.T) {
	g := ecs.NewGameObject("patrol")
	g.AddComponent(idleRunMachine())
	body := &fakeBody{}
	g.AddComponent(body)
	s := NewScript(nil, nil)
	s.Source = patrolScript
	g.AddComponent(s)

	g.Start()
	g.Update(0.5)
	g.Update(0.5)

	assert.InDelta(t, 2.0, g.Transform().Position.X, 1e-9)
	sm, _ := ecs.Get[*StateMachine](g)
	assert.Equal(t, "Run", sm.Current())
	assert.Len(t, body.impulses, 2)
	assert.Equal(t, common.V2(3, 4), body.velocity)

	ticks, ok := s.StateValue("ticks")
	require.True(t, ok)
	assert.EqualValues(t, 2, ticks)
}

func TestScriptLoadsFromPath(t *testing.T) {
	loader := func(path string) ([]byte, error) {
		if path == "scripts/spin.tengo" {
			return []byte(`engine.set_rotation(engine.rotation() + 90)`), nil
		}
		return nil, errors.New("not found")
	}
	g := ecs.NewGameObject("spinner")
	s := NewScript(loader, nil)
	s.Path = "scripts/spin.tengo"
	g.AddComponent(s)

	g.Start()
	g.Update(0.1)
	assert.Equal(t, 90.0, g.Transform().Rotation)
}

func TestScriptCompileErrorsAreContained(t *testing.T) {
	g := ecs.NewGameObject("broken")
	s := NewScript(nil, nil)
	s.Source = "this is not tengo ((("
	g.AddComponent(s)

	assert.Error(t, s.Compile())
	g.Start()
	assert.NotPanics(t, func() { g.Update(0.1) })
}

func TestScriptPathChangeRecompiles(t *testing.T) {
	sources := map[string]string{
		"scripts/right.tengo": `engine.set_position(engine.position()[0] + 1, 0)`,
		"scripts/left.tengo":  `engine.set_position(engine.position()[0] - 1, 0)`,
	}
	loader := func(path string) ([]byte, error) {
		if src, ok := sources[path]; ok {
			return []byte(src), nil
		}
		return nil, errors.New("not found")
	}
	g := ecs.NewGameObject("walker")
	s := NewScript(loader, nil)
	s.Path = "scripts/right.tengo"
	g.AddComponent(s)
	g.Start()
	g.Update(0.1)
	require.Equal(t, 1.0, g.Transform().Position.X)

	require.NoError(t, s.Properties()[0].SetString("scripts/left.tengo"))
	g.Update(0.1)
	g.Update(0.1)
	assert.Equal(t, -1.0, g.Transform().Position.X)

	require.NoError(t, s.Properties()[0].SetString("scripts/missing.tengo"))
	assert.NotPanics(t, func() { g.Update(0.1) })
	assert.Equal(t, -1.0, g.Transform().Position.X)
}
