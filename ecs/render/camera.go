package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/config"
)

// Camera maps world units (y up) onto the screen (y down). Position is the
// world point shown at the bottom-left corner of the viewport.
type Camera struct {
	Position       common.Vec2
	ProjectionSize common.Vec2
	Zoom           float64

	screenW, screenH int
	geom             ebiten.GeoM
	inverse          ebiten.GeoM
}

func NewCamera(cfg config.Camera, screenW, screenH int) *Camera {
	zoom := cfg.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	c := &Camera{
		ProjectionSize: common.V2(cfg.Width, cfg.Height),
		Zoom:           zoom,
		screenW:        max(screenW, 1),
		screenH:        max(screenH, 1),
	}
	c.AdjustProjection()
	return c
}

// SetViewport records the size of the image the camera draws into.
func (c *Camera) SetViewport(w, h int) {
	if c == nil || w <= 0 || h <= 0 {
		return
	}
	if c.screenW == w && c.screenH == h {
		return
	}
	c.screenW, c.screenH = w, h
	c.AdjustProjection()
}

func (c *Camera) Viewport() (int, int) {
	if c == nil {
		return 0, 0
	}
	return c.screenW, c.screenH
}

// AdjustProjection rebuilds the world-to-screen matrix from the current
// position, projection size and zoom.
func (c *Camera) AdjustProjection() {
	if c == nil {
		return
	}
	if c.Zoom <= 0 {
		c.Zoom = 1
	}
	var g ebiten.GeoM
	g.Translate(-c.Position.X, -c.Position.Y)
	g.Scale(
		float64(c.screenW)/(c.ProjectionSize.X*c.Zoom),
		-float64(c.screenH)/(c.ProjectionSize.Y*c.Zoom),
	)
	g.Translate(0, float64(c.screenH))
	c.geom = g

	c.inverse = g
	if c.inverse.IsInvertible() {
		c.inverse.Invert()
	}
}

// GeoM returns the cached world-to-screen matrix.
func (c *Camera) GeoM() ebiten.GeoM {
	if c == nil {
		return ebiten.GeoM{}
	}
	return c.geom
}

// Visible returns the world-space size currently on screen.
func (c *Camera) Visible() common.Vec2 {
	if c == nil {
		return common.Vec2{}
	}
	return c.ProjectionSize.Scale(c.Zoom)
}

func (c *Camera) WorldToScreen(p common.Vec2) common.Vec2 {
	if c == nil {
		return p
	}
	x, y := c.geom.Apply(p.X, p.Y)
	return common.V2(x, y)
}

func (c *Camera) ScreenToWorld(p common.Vec2) common.Vec2 {
	if c == nil {
		return p
	}
	x, y := c.inverse.Apply(p.X, p.Y)
	return common.V2(x, y)
}
