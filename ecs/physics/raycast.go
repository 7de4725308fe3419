package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
)

// RaycastInfo is the nearest fixture a ray crossed.
type RaycastInfo struct {
	Hit       bool
	Fraction  float64
	Point     common.Vec2
	Normal    common.Vec2
	HitObject *ecs.GameObject
}

// Raycast casts from -> to and reports the nearest fixture that does not
// belong to requester. A ray starting inside a fixture (fraction 0) does not
// count as a hit.
func (w *World) Raycast(requester *ecs.GameObject, from, to common.Vec2) RaycastInfo {
	info := RaycastInfo{Fraction: 1, Point: to}
	if w == nil {
		return info
	}

	var found bool
	w.space.SegmentQuery(vec(from), vec(to), 0, cp.SHAPE_FILTER_ALL,
		func(shape *cp.Shape, point, normal cp.Vector, alpha float64, _ interface{}) {
			owner, _ := shape.UserData.(*ecs.GameObject)
			if owner == requester {
				return
			}
			if found && alpha >= info.Fraction {
				return
			}
			found = true
			info.Fraction = alpha
			info.Point = fromVec(point)
			info.Normal = fromVec(normal)
			info.HitObject = owner
		}, nil)

	info.Hit = found && info.Fraction > 0
	return info
}

// CheckOnGround casts two parallel rays from g's position, offset half of
// innerWidth to either side, over height (negative is down). It is true when
// either ray hits another object.
func (w *World) CheckOnGround(g *ecs.GameObject, innerWidth, height float64) bool {
	if w == nil || g == nil {
		return false
	}
	pos := g.Transform().Position
	span := common.V2(0, height)

	left := pos.Sub(common.V2(innerWidth/2, 0))
	right := left.Add(common.V2(innerWidth, 0))

	l := w.Raycast(g, left, left.Add(span))
	r := w.Raycast(g, right, right.Add(span))
	return (l.Hit && l.HitObject != nil) || (r.Hit && r.HitObject != nil)
}
