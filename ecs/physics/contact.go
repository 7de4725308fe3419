package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
)

// contactPair resolves the two objects of an arbiter. A gets the normal as
// reported, B gets it negated.
func contactPair(arb *cp.Arbiter) (a, b *ecs.GameObject, ca, cb *ecs.Contact, ok bool) {
	sa, sb := arb.Shapes()
	a, okA := sa.UserData.(*ecs.GameObject)
	b, okB := sb.UserData.(*ecs.GameObject)
	if !okA || !okB {
		return nil, nil, nil, nil, false
	}

	set := arb.ContactPointSet()
	points := make([]common.Vec2, 0, set.Count)
	for i := 0; i < set.Count; i++ {
		points = append(points, fromVec(set.Points[i].PointA))
	}
	n := fromVec(arb.Normal())
	ca = &ecs.Contact{Normal: n, Points: points}
	cb = &ecs.Contact{Normal: n.Neg(), Points: points}
	return a, b, ca, cb, true
}

func (w *World) begin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	a, b, ca, cb, ok := contactPair(arb)
	if !ok {
		return true
	}
	a.BeginCollision(b, ca)
	b.BeginCollision(a, cb)
	return !ca.Disabled() && !cb.Disabled()
}

func (w *World) preSolve(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	a, b, ca, cb, ok := contactPair(arb)
	if !ok {
		return true
	}
	a.PreSolve(b, ca)
	b.PreSolve(a, cb)
	return !ca.Disabled() && !cb.Disabled()
}

func (w *World) postSolve(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
	a, b, ca, cb, ok := contactPair(arb)
	if !ok {
		return
	}
	a.PostSolve(b, ca)
	b.PostSolve(a, cb)
}

func (w *World) separate(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
	a, b, ca, cb, ok := contactPair(arb)
	if !ok {
		return
	}
	a.EndCollision(b, ca)
	b.EndCollision(a, cb)
}
