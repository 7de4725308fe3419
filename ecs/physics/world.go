package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/config"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/logging"
	"go.uber.org/zap"
)

const objectCollisionType cp.CollisionType = 1

// World owns the cp space and the set of registered bodies. It is the only
// place fixtures are created or destroyed.
type World struct {
	space       *cp.Space
	timeStep    float64
	maxSubSteps int
	accumulator float64
	locked      bool

	pending []func()
	resets  map[*RigidBody2D]bool

	bodies map[*ecs.GameObject]*RigidBody2D
	order  []*ecs.GameObject

	log *zap.Logger
}

func NewWorld(cfg config.Physics, log *zap.Logger) *World {
	space := cp.NewSpace()
	space.Iterations = uint(max(cfg.VelocityIterations+cfg.PositionIterations, 1))
	space.SetGravity(vec(cfg.Gravity))

	timeStep := cfg.TimeStep
	if timeStep <= 0 {
		timeStep = 1.0 / 60.0
	}
	w := &World{
		space:       space,
		timeStep:    timeStep,
		maxSubSteps: max(cfg.MaxSubSteps, 1),
		resets:      make(map[*RigidBody2D]bool),
		bodies:      make(map[*ecs.GameObject]*RigidBody2D),
		log:         logging.OrNop(log).Named("physics"),
	}

	handler := space.NewCollisionHandler(objectCollisionType, objectCollisionType)
	handler.UserData = w
	handler.BeginFunc = w.begin
	handler.PreSolveFunc = w.preSolve
	handler.PostSolveFunc = w.postSolve
	handler.SeparateFunc = w.separate
	return w
}

// Space returns the underlying cp space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

func (w *World) Gravity() common.Vec2 {
	if w == nil {
		return common.Vec2{}
	}
	return fromVec(w.space.Gravity())
}

func (w *World) TimeStep() float64 {
	if w == nil {
		return 0
	}
	return w.timeStep
}

// IsLocked reports whether the world is mid-step. Structural changes made
// while locked are queued.
func (w *World) IsLocked() bool {
	return w != nil && w.locked
}

// Defer runs fn now, or at the next safe point if the world is locked.
func (w *World) Defer(fn func()) {
	if w == nil || fn == nil {
		return
	}
	if w.locked {
		w.pending = append(w.pending, fn)
		return
	}
	fn()
}

func (w *World) drain() {
	for len(w.pending) > 0 {
		queue := w.pending
		w.pending = nil
		for _, fn := range queue {
			fn()
		}
	}
}

// Pending returns the number of queued actions.
func (w *World) Pending() int {
	if w == nil {
		return 0
	}
	return len(w.pending)
}

// Len returns the number of registered bodies.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return len(w.order)
}

// Add registers g if it carries a RigidBody2D that has no body yet. The body
// starts from g's Transform; fixtures are attached for CircleCollider,
// Box2DCollider and PillboxCollider, in that order.
func (w *World) Add(g *ecs.GameObject) {
	if w == nil || g == nil {
		return
	}
	rb, ok := ecs.Get[*RigidBody2D](g)
	if !ok || rb.body != nil {
		return
	}
	if w.locked {
		w.Defer(func() { w.Add(g) })
		return
	}

	t := g.Transform()
	body := cp.NewBody(0, 0)
	body.SetType(rb.BodyType.cp())
	body.SetPosition(vec(t.Position))
	body.SetAngle(common.DegToRad(t.Rotation))
	body.UserData = g
	if rb.BodyType != Static {
		body.SetVelocityVector(vec(rb.Velocity))
		body.SetAngularVelocity(rb.AngularVelocity)
	}
	body.SetVelocityUpdateFunc(rb.integrate)
	w.space.AddBody(body)

	rb.body = body
	rb.world = w
	rb.pushedPos, rb.pushedRot = t.Position, t.Rotation
	w.attachFixtures(rb)

	w.bodies[g] = rb
	w.order = append(w.order, g)
	w.log.Debug("body added",
		zap.String("object", g.String()),
		zap.Stringer("type", rb.BodyType),
		zap.Int("fixtures", len(rb.shapes)))
}

// Remove destroys g's fixtures and body. The RigidBody2D keeps its cached
// state and can be registered again.
func (w *World) Remove(g *ecs.GameObject) {
	if w == nil || g == nil {
		return
	}
	rb, ok := w.bodies[g]
	if !ok {
		return
	}
	if w.locked {
		w.Defer(func() { w.Remove(g) })
		return
	}

	w.detachFixtures(rb)
	w.space.RemoveBody(rb.body)
	rb.body = nil
	rb.world = nil
	delete(w.bodies, g)
	delete(w.resets, rb)
	for i, o := range w.order {
		if o == g {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// ResetFixtures destroys every fixture on rb's body and rebuilds them from
// the object's current colliders.
func (w *World) ResetFixtures(rb *RigidBody2D) {
	if w == nil || rb == nil || rb.body == nil {
		return
	}
	if w.locked {
		if !w.resets[rb] {
			w.resets[rb] = true
			w.pending = append(w.pending, func() {
				delete(w.resets, rb)
				w.ResetFixtures(rb)
			})
			w.log.Debug("fixture reset deferred", zap.String("object", rb.GameObject().String()))
		}
		return
	}
	w.detachFixtures(rb)
	w.attachFixtures(rb)
}

func (w *World) attachFixtures(rb *RigidBody2D) {
	g := rb.GameObject()
	var parts []collider
	if c, ok := ecs.Get[*CircleCollider](g); ok {
		parts = append(parts, c)
	}
	if c, ok := ecs.Get[*Box2DCollider](g); ok {
		parts = append(parts, c)
	}
	if c, ok := ecs.Get[*PillboxCollider](g); ok {
		parts = append(parts, c)
	}

	density := rb.BodyType == Dynamic && rb.Mass <= 0
	for _, c := range parts {
		for _, s := range c.fixtures(rb.body) {
			s.SetFriction(rb.Friction)
			s.SetSensor(rb.IsSensor)
			s.SetCollisionType(objectCollisionType)
			s.UserData = g
			if density {
				s.SetDensity(1)
			}
			w.space.AddShape(s)
			rb.shapes = append(rb.shapes, s)
		}
	}
	w.resetMass(rb)
}

func (w *World) detachFixtures(rb *RigidBody2D) {
	for _, s := range rb.shapes {
		w.space.RemoveShape(s)
	}
	rb.shapes = nil
}

func (w *World) resetMass(rb *RigidBody2D) {
	body := rb.body
	if body.GetType() != cp.BODY_DYNAMIC {
		return
	}
	switch m := body.Mass(); {
	case rb.Mass > 0:
		body.SetMass(rb.Mass)
		body.SetMoment(momentFor(rb.Mass, rb.shapes))
	case m <= 0 || math.IsInf(m, 0) || math.IsNaN(m):
		body.SetMass(1)
		body.SetMoment(momentFor(1, rb.shapes))
	}
	if rb.FixedRotation {
		body.SetMoment(math.Inf(1))
	}
}

func momentFor(mass float64, shapes []*cp.Shape) float64 {
	if len(shapes) == 0 {
		return cp.MomentForBox(mass, 1, 1)
	}
	bb := shapes[0].BB()
	for _, s := range shapes[1:] {
		bb = bb.Merge(s.BB())
	}
	return cp.MomentForBox(mass, bb.R-bb.L, bb.T-bb.B)
}

// SetSensor turns every fixture on rb's body into a sensor.
func (w *World) SetSensor(rb *RigidBody2D) {
	w.setSensor(rb, true)
}

func (w *World) SetNotSensor(rb *RigidBody2D) {
	w.setSensor(rb, false)
}

func (w *World) setSensor(rb *RigidBody2D, on bool) {
	if w == nil || rb == nil || rb.body == nil {
		return
	}
	for _, s := range rb.shapes {
		s.SetSensor(on)
	}
}

// Update drains queued actions, runs as many fixed steps as dt covers (at
// most MaxSubSteps, the rest is dropped), copies simulated state back into
// Transforms and drains anything the step's callbacks queued.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	w.drain()
	w.accumulator += dt
	steps := 0
	for w.accumulator >= w.timeStep && steps < w.maxSubSteps {
		w.step()
		w.accumulator -= w.timeStep
		steps++
	}
	if w.accumulator >= w.timeStep {
		w.log.Debug("physics falling behind", zap.Float64("dropped", w.accumulator))
		w.accumulator = math.Mod(w.accumulator, w.timeStep)
	}
	w.pull()
	w.drain()
}

// Step advances exactly one fixed time step.
func (w *World) Step() {
	if w == nil {
		return
	}
	w.drain()
	w.step()
	w.pull()
	w.drain()
}

func (w *World) step() {
	w.push()
	w.locked = true
	defer func() { w.locked = false }()
	w.space.Step(w.timeStep)
}

// push copies moved static Transforms into their bodies. Static shapes live
// in cp's static index, so they are re-added to pick up the new bounds.
func (w *World) push() {
	for _, g := range w.order {
		rb := w.bodies[g]
		if rb.body.GetType() != cp.BODY_STATIC {
			continue
		}
		t := g.Transform()
		if t.Position == rb.pushedPos && t.Rotation == rb.pushedRot {
			continue
		}
		rb.body.SetPosition(vec(t.Position))
		rb.body.SetAngle(common.DegToRad(t.Rotation))
		for _, s := range rb.shapes {
			w.space.RemoveShape(s)
			w.space.AddShape(s)
		}
		rb.pushedPos, rb.pushedRot = t.Position, t.Rotation
	}
}

// pull copies dynamic and kinematic body state into Transforms and the
// cached RigidBody2D fields.
func (w *World) pull() {
	for _, g := range w.order {
		rb := w.bodies[g]
		body := rb.body
		if body.GetType() == cp.BODY_STATIC {
			continue
		}
		t := g.Transform()
		t.Position = fromVec(body.LocalToWorld(cp.Vector{}))
		t.Rotation = common.RadToDeg(body.Angle())
		rb.Velocity = fromVec(body.Velocity())
		rb.AngularVelocity = body.AngularVelocity()
	}
}
