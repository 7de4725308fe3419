package common

import "math"

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec4 holds an rgba color or any four-lane value.
type Vec4 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func V4(x, y, z, w float64) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Mul(o Vec2) Vec2 {
	return Vec2{X: v.X * o.X, Y: v.Y * o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Rotate rotates v around origin by degrees.
func (v Vec2) Rotate(degrees float64, origin Vec2) Vec2 {
	rad := DegToRad(degrees)
	cos, sin := math.Cos(rad), math.Sin(rad)
	x := v.X - origin.X
	y := v.Y - origin.Y
	return Vec2{
		X: x*cos - y*sin + origin.X,
		Y: x*sin + y*cos + origin.Y,
	}
}

// Approx reports whether every lane differs by at most eps.
func (v Vec2) Approx(o Vec2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

func DegToRad(d float64) float64 {
	return d * math.Pi / 180
}

func RadToDeg(r float64) float64 {
	return r * 180 / math.Pi
}

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Snap rounds v down to the nearest multiple of grid.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Floor(v/grid) * grid
}
