package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/forge2d/common"
	"golang.org/x/image/colornames"
)

const (
	debugCircleSegments = 24
	debugLineWidth      = 1
)

// Line is a world-space segment kept alive for Lifetime frames.
type Line struct {
	From     common.Vec2
	To       common.Vec2
	Color    color.Color
	Lifetime int
}

// DebugDraw queues world-space lines and strokes them over the scene.
type DebugDraw struct {
	lines []Line
}

func NewDebugDraw() *DebugDraw {
	return &DebugDraw{}
}

// BeginFrame ages every line and drops the expired ones.
func (d *DebugDraw) BeginFrame() {
	if d == nil {
		return
	}
	live := d.lines[:0]
	for _, l := range d.lines {
		l.Lifetime--
		if l.Lifetime > 0 {
			live = append(live, l)
		}
	}
	clear(d.lines[len(live):])
	d.lines = live
}

func (d *DebugDraw) Lines() []Line {
	if d == nil {
		return nil
	}
	return append([]Line(nil), d.lines...)
}

func (d *DebugDraw) AddLine(from, to common.Vec2, clr color.Color, lifetime int) {
	if d == nil {
		return
	}
	if clr == nil {
		clr = colornames.Lime
	}
	d.lines = append(d.lines, Line{From: from, To: to, Color: clr, Lifetime: max(lifetime, 1)})
}

// AddBox outlines a rectangle of size dims centered on center, rotated by
// rotation degrees.
func (d *DebugDraw) AddBox(center, dims common.Vec2, rotation float64, clr color.Color, lifetime int) {
	half := dims.Scale(0.5)
	corners := [4]common.Vec2{
		center.Add(common.V2(-half.X, -half.Y)),
		center.Add(common.V2(-half.X, half.Y)),
		center.Add(common.V2(half.X, half.Y)),
		center.Add(common.V2(half.X, -half.Y)),
	}
	if rotation != 0 {
		for i := range corners {
			corners[i] = corners[i].Rotate(rotation, center)
		}
	}
	for i := range corners {
		d.AddLine(corners[i], corners[(i+1)%len(corners)], clr, lifetime)
	}
}

func (d *DebugDraw) AddCircle(center common.Vec2, radius float64, clr color.Color, lifetime int) {
	if radius <= 0 {
		return
	}
	prev := center.Add(common.V2(radius, 0))
	for i := 1; i <= debugCircleSegments; i++ {
		t := 2 * math.Pi * float64(i) / debugCircleSegments
		next := center.Add(common.V2(math.Cos(t)*radius, math.Sin(t)*radius))
		d.AddLine(prev, next, clr, lifetime)
		prev = next
	}
}

// Draw strokes every queued line through cam.
func (d *DebugDraw) Draw(target *ebiten.Image, cam *Camera) {
	if d == nil || target == nil {
		return
	}
	for _, l := range d.lines {
		a := cam.WorldToScreen(l.From)
		b := cam.WorldToScreen(l.To)
		vector.StrokeLine(target, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), debugLineWidth, l.Color, true)
	}
}

// AddSpace queues an outline of every shape in space for one frame.
func (d *DebugDraw) AddSpace(space *cp.Space) {
	if d == nil || space == nil {
		return
	}
	cp.DrawSpace(space, &spaceDrawer{debug: d})
}

// spaceDrawer adapts cp's debug drawing callbacks to DebugDraw lines.
type spaceDrawer struct {
	debug *DebugDraw
}

func (s *spaceDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, _ cp.FColor, _ interface{}) {
	center := common.V2(pos.X, pos.Y)
	clr := toNRGBA(outline)
	s.debug.AddCircle(center, radius, clr, 1)
	end := center.Add(common.V2(math.Cos(angle)*radius, math.Sin(angle)*radius))
	s.debug.AddLine(center, end, clr, 1)
}

func (s *spaceDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, _ interface{}) {
	s.debug.AddLine(common.V2(a.X, a.Y), common.V2(b.X, b.Y), toNRGBA(fill), 1)
}

func (s *spaceDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, _ cp.FColor, _ interface{}) {
	clr := toNRGBA(outline)
	s.debug.AddLine(common.V2(a.X, a.Y), common.V2(b.X, b.Y), clr, 1)
	s.debug.AddCircle(common.V2(a.X, a.Y), radius, clr, 1)
	s.debug.AddCircle(common.V2(b.X, b.Y), radius, clr, 1)
}

func (s *spaceDrawer) DrawPolygon(count int, verts []cp.Vector, _ float64, outline, _ cp.FColor, _ interface{}) {
	clr := toNRGBA(outline)
	for i := 0; i < count; i++ {
		a, b := verts[i], verts[(i+1)%count]
		s.debug.AddLine(common.V2(a.X, a.Y), common.V2(b.X, b.Y), clr, 1)
	}
}

func (s *spaceDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, _ interface{}) {
	half := size / 2
	clr := toNRGBA(fill)
	s.debug.AddLine(common.V2(pos.X-half, pos.Y), common.V2(pos.X+half, pos.Y), clr, 1)
	s.debug.AddLine(common.V2(pos.X, pos.Y-half), common.V2(pos.X, pos.Y+half), clr, 1)
}

func (s *spaceDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (s *spaceDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (s *spaceDrawer) ShapeColor(*cp.Shape, interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (s *spaceDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (s *spaceDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (s *spaceDrawer) Data() interface{} {
	return nil
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
