package editor

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/ecs/render"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	dragDebounce      = 0.032
	dragSensitivity   = 9.5
	scrollSensitivity = 0.1
	resetDuration     = 0.4

	minZoom = 0.1
	maxZoom = 20
)

// cameraReset eases the camera back to the origin at zoom 1.
type cameraReset struct {
	x, y, zoom *gween.Tween
}

// EditorCamera pans with the middle mouse button, zooms with the wheel and
// returns home on backspace.
type EditorCamera struct {
	ecs.Base
	ctx *Context

	debounce float64
	origin   common.Vec2
	reset    *cameraReset
}

func NewEditorCamera(ctx *Context) *EditorCamera {
	return &EditorCamera{ctx: ctx, debounce: dragDebounce}
}

func (c *EditorCamera) TypeName() string {
	return "EditorCamera"
}

func (c *EditorCamera) EditorUpdate(dt float64) {
	cam := c.ctx.Scene.Camera()
	in := c.ctx.Input()
	held := in.ButtonPressed(ebiten.MouseButtonMiddle)

	if held && c.debounce > 0 {
		c.origin = c.ctx.MouseWorld()
		c.debounce -= dt
		return
	}
	if held {
		mouse := c.ctx.MouseWorld()
		delta := mouse.Sub(c.origin)
		cam.Position = cam.Position.Sub(delta.Scale(dt * dragSensitivity))
		c.origin = lerpVec(c.origin, mouse, dt)
		c.reset = nil
	}
	if c.debounce <= 0 && !held {
		c.debounce = dragDebounce
	}

	if wy := in.Wheel.Y; wy != 0 {
		step := math.Pow(math.Abs(wy*scrollSensitivity), 1/cam.Zoom)
		if wy > 0 {
			step = -step
		}
		cam.Zoom = min(max(cam.Zoom+step, minZoom), maxZoom)
		c.reset = nil
	}

	if in.KeyJustPressed(ebiten.KeyBackspace) {
		c.Reset()
	}
	c.stepReset(cam, dt)
}

// Reset starts easing the camera back to the origin at zoom 1.
func (c *EditorCamera) Reset() {
	cam := c.ctx.Scene.Camera()
	c.reset = &cameraReset{
		x:    gween.New(float32(cam.Position.X), 0, resetDuration, ease.OutCubic),
		y:    gween.New(float32(cam.Position.Y), 0, resetDuration, ease.OutCubic),
		zoom: gween.New(float32(cam.Zoom), 1, resetDuration, ease.OutCubic),
	}
}

func (c *EditorCamera) Resetting() bool {
	return c.reset != nil
}

func (c *EditorCamera) stepReset(cam *render.Camera, dt float64) {
	if c.reset == nil {
		return
	}
	x, _ := c.reset.x.Update(float32(dt))
	y, _ := c.reset.y.Update(float32(dt))
	zoom, done := c.reset.zoom.Update(float32(dt))
	cam.Position = common.V2(float64(x), float64(y))
	cam.Zoom = float64(zoom)
	if done {
		cam.Position = common.Vec2{}
		cam.Zoom = 1
		c.reset = nil
	}
	cam.AdjustProjection()
}

func lerpVec(a, b common.Vec2, t float64) common.Vec2 {
	return common.V2(
		float64(common.Lerp(float32(a.X), float32(b.X), float32(t))),
		float64(common.Lerp(float32(a.Y), float32(b.Y), float32(t))),
	)
}
