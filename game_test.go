package main

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/forge2d/app"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/config"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/ecs/physics"
	"github.com/milk9111/forge2d/input"
	"github.com/milk9111/forge2d/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGame(t *testing.T) (*Game, func() float64) {
	t.Helper()
	ctx := app.NewContext(config.Default(), fstest.MapFS{}, nil)
	path := filepath.Join(t.TempDir(), "level.json")

	s := scene.New(ctx.Config, nil, scene.Deps{Registry: ctx.Registry, Assets: ctx.Assets})
	ball := ecs.NewGameObject("ball")
	ball.Transform().Position = common.V2(0, 5)
	ball.AddComponent(physics.NewRigidBody2D())
	ball.AddComponent(physics.NewCircleCollider())
	s.AddGameObject(ball)
	require.NoError(t, s.SaveFile(path))

	a, err := app.New(ctx, app.Options{Mode: app.ModeRuntime, SceneFile: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	g := &Game{app: a, log: zap.NewNop()}
	height := func() float64 {
		obj, ok := a.Scene().GameObjectByName("ball")
		require.True(t, ok)
		return obj.Transform().Position.Y
	}
	return g, height
}

func feed(g *Game, snaps ...*input.Snapshot) {
	for _, s := range snaps {
		g.poll = func() *input.Snapshot { return s }
		_ = g.Update()
	}
}

func TestEscapePausesSimulation(t *testing.T) {
	g, height := newTestGame(t)

	feed(g, input.NewSnapshot(), input.NewSnapshot())
	moving := height()
	assert.Less(t, moving, 5.0)

	feed(g, input.NewSnapshot().PressKey(ebiten.KeyEscape, true))
	require.True(t, g.paused)
	feed(g, input.NewSnapshot(), input.NewSnapshot())
	assert.Equal(t, moving, height())

	feed(g, input.NewSnapshot().PressKey(ebiten.KeyEscape, true), input.NewSnapshot())
	assert.False(t, g.paused)
	assert.Less(t, height(), moving)
}

func TestRestartReloadsScene(t *testing.T) {
	g, height := newTestGame(t)
	feed(g, input.NewSnapshot(), input.NewSnapshot(), input.NewSnapshot())
	require.Less(t, height(), 5.0)

	g.paused = true
	g.Restart()
	assert.False(t, g.paused)
	feed(g, input.NewSnapshot())
	assert.InDelta(t, 5.0, height(), 0.1)
}

func TestQuitTerminates(t *testing.T) {
	g, _ := newTestGame(t)
	g.quit = true
	g.poll = input.NewSnapshot
	assert.ErrorIs(t, g.Update(), ebiten.Termination)
}
