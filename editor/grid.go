package editor

import (
	"image/color"
	"math"

	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/ecs/physics"
	"golang.org/x/image/colornames"
)

var gridColor = color.NRGBA{R: 92, G: 61, B: 66, A: 255}

// GridLines covers the visible area with grid lines every frame.
type GridLines struct {
	ecs.Base
	ctx *Context
}

func NewGridLines(ctx *Context) *GridLines {
	return &GridLines{ctx: ctx}
}

func (g *GridLines) TypeName() string {
	return "GridLines"
}

func (g *GridLines) EditorUpdate(float64) {
	grid := g.ctx.GridSize
	cam := g.ctx.Scene.Camera()
	debug := g.ctx.Scene.Debug()

	firstX := math.Floor(cam.Position.X/grid) * grid
	firstY := math.Floor(cam.Position.Y/grid) * grid
	visible := cam.Visible()
	numV := int(visible.X/grid) + 2
	numH := int(visible.Y/grid) + 2
	width := visible.X + 2*grid
	height := visible.Y + 2*grid

	for i := range max(numV, numH) {
		x := firstX + grid*float64(i)
		y := firstY + grid*float64(i)
		if i < numV {
			debug.AddLine(common.V2(x, firstY), common.V2(x, firstY+height), gridColor, 1)
		}
		if i < numH {
			debug.AddLine(common.V2(firstX, y), common.V2(firstX+width, y), gridColor, 1)
		}
	}
}

// ColliderOutlines draws every collider in the scene so shapes can be lined
// up with their sprites while editing.
type ColliderOutlines struct {
	ecs.Base
	ctx *Context
}

func NewColliderOutlines(ctx *Context) *ColliderOutlines {
	return &ColliderOutlines{ctx: ctx}
}

func (o *ColliderOutlines) TypeName() string {
	return "ColliderOutlines"
}

func (o *ColliderOutlines) EditorUpdate(float64) {
	debug := o.ctx.Scene.Debug()
	for _, g := range o.ctx.Scene.GameObjects() {
		t := g.Transform()
		for _, c := range g.Components() {
			switch c := c.(type) {
			case *physics.Box2DCollider:
				debug.AddBox(t.Position.Add(c.Offset), c.HalfSize, t.Rotation, colornames.Lime, 1)
			case *physics.CircleCollider:
				debug.AddCircle(t.Position.Add(c.Offset), c.Radius, colornames.Lime, 1)
			case *physics.PillboxCollider:
				box := c.Box()
				top, bottom := c.TopCircle(), c.BottomCircle()
				debug.AddBox(t.Position.Add(box.Offset), box.HalfSize, t.Rotation, colornames.Lime, 1)
				debug.AddCircle(t.Position.Add(top.Offset), top.Radius, colornames.Lime, 1)
				debug.AddCircle(t.Position.Add(bottom.Offset), bottom.Radius, colornames.Lime, 1)
			}
		}
	}
}
