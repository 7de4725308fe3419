package main

import (
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/forge2d/app"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/input"
	"go.uber.org/zap"
)

// Game plays one scene in runtime mode. Escape pauses it behind a menu.
type Game struct {
	app    *app.App
	pause  *ebitenui.UI
	poll   func() *input.Snapshot
	paused bool
	quit   bool
	log    *zap.Logger
}

func NewGame(a *app.App, log *zap.Logger) *Game {
	g := &Game{
		app:  a,
		poll: input.Poll,
		log:  log.Named("game"),
	}
	g.pause = NewPauseUI(g)
	return g
}

func (g *Game) Update() error {
	in := g.poll()
	if in.KeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
		g.log.Debug("pause toggled", zap.Bool("paused", g.paused))
	}
	if g.quit {
		return ebiten.Termination
	}
	if g.paused {
		if g.pause != nil {
			g.pause.Update()
		}
		return nil
	}
	g.app.Step(in, 1/float64(ebiten.TPS()))
	return nil
}

// Restart reloads the scene file from disk and resumes.
func (g *Game) Restart() {
	g.app.Context().Bus.Publish(ecs.Event{Type: ecs.EventLoadLevel})
	g.paused = false
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.app.Draw(screen)
	if g.paused && g.pause != nil {
		g.pause.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.app.LayoutF(outsideWidth, outsideHeight)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.app.Layout(outsideWidth, outsideHeight)
}
