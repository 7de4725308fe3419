package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
)

const RigidBody2DType = "RigidBody2D"

type BodyType int

const (
	Static BodyType = iota
	Dynamic
	Kinematic
)

var bodyTypeNames = []string{"Static", "Dynamic", "Kinematic"}

func (t BodyType) String() string {
	if t < 0 || int(t) >= len(bodyTypeNames) {
		return "Unknown"
	}
	return bodyTypeNames[t]
}

func (t BodyType) cp() int {
	switch t {
	case Static:
		return cp.BODY_STATIC
	case Kinematic:
		return cp.BODY_KINEMATIC
	default:
		return cp.BODY_DYNAMIC
	}
}

// RigidBody2D is the simulated half of a GameObject. Its fields are cached
// copies; once the object is registered with a World every setter also
// writes through to the backend body. Before that, setters only touch the
// cache.
type RigidBody2D struct {
	ecs.Base
	Velocity            common.Vec2 `json:"velocity"`
	AngularVelocity     float64     `json:"angularVelocity"`
	GravityScale        float64     `json:"gravityScale"`
	Mass                float64     `json:"mass"`
	BodyType            BodyType    `json:"bodyType"`
	Friction            float64     `json:"friction"`
	AngularDamping      float64     `json:"angularDamping"`
	LinearDamping       float64     `json:"linearDamping"`
	IsSensor            bool        `json:"isSensor"`
	FixedRotation       bool        `json:"fixedRotation"`
	ContinuousCollision bool        `json:"continuousCollision"`

	body   *cp.Body
	shapes []*cp.Shape
	world  *World

	pushedPos common.Vec2
	pushedRot float64
}

func NewRigidBody2D() *RigidBody2D {
	return &RigidBody2D{
		GravityScale:        1,
		BodyType:            Dynamic,
		Friction:            0.1,
		AngularDamping:      0.8,
		LinearDamping:       0.9,
		ContinuousCollision: true,
	}
}

func (rb *RigidBody2D) TypeName() string {
	return RigidBody2DType
}

// RawBody returns the backend body, nil until registered.
func (rb *RigidBody2D) RawBody() *cp.Body {
	if rb == nil {
		return nil
	}
	return rb.body
}

func (rb *RigidBody2D) Registered() bool {
	return rb != nil && rb.body != nil
}

// AddVelocity applies force at the center of mass for the next step.
func (rb *RigidBody2D) AddVelocity(force common.Vec2) {
	if !rb.Registered() {
		return
	}
	rb.body.ApplyForceAtWorldPoint(vec(force), rb.body.Position())
}

func (rb *RigidBody2D) AddImpulse(impulse common.Vec2) {
	if !rb.Registered() {
		return
	}
	rb.body.ApplyImpulseAtWorldPoint(vec(impulse), rb.body.Position())
}

func (rb *RigidBody2D) SetVelocity(v common.Vec2) {
	if rb == nil {
		return
	}
	rb.Velocity = v
	if rb.body != nil {
		rb.body.SetVelocityVector(vec(v))
	}
}

func (rb *RigidBody2D) SetAngularVelocity(w float64) {
	if rb == nil {
		return
	}
	rb.AngularVelocity = w
	if rb.body != nil {
		rb.body.SetAngularVelocity(w)
	}
}

// SetGravityScale takes effect on the next step; the body's velocity
// function reads it directly.
func (rb *RigidBody2D) SetGravityScale(scale float64) {
	if rb == nil {
		return
	}
	rb.GravityScale = scale
}

func (rb *RigidBody2D) SetIsSensor() {
	if rb == nil {
		return
	}
	rb.IsSensor = true
	rb.world.SetSensor(rb)
}

func (rb *RigidBody2D) SetNotSensor() {
	if rb == nil {
		return
	}
	rb.IsSensor = false
	rb.world.SetNotSensor(rb)
}

// SetBodyType changes the simulation mode. A registered body is rebuilt at
// the world's next safe point.
func (rb *RigidBody2D) SetBodyType(t BodyType) {
	if rb == nil || rb.BodyType == t {
		return
	}
	rb.BodyType = t
	if w := rb.world; w != nil && rb.body != nil {
		g := rb.GameObject()
		w.Defer(func() {
			w.Remove(g)
			w.Add(g)
		})
	}
}

func (rb *RigidBody2D) SetFriction(f float64) {
	if rb == nil {
		return
	}
	rb.Friction = f
	for _, s := range rb.shapes {
		s.SetFriction(f)
	}
}

// Destroy unregisters the body, either because the object died or because
// this component was removed from it.
func (rb *RigidBody2D) Destroy() {
	if rb == nil || rb.world == nil {
		return
	}
	rb.world.Remove(rb.GameObject())
}

// integrate replaces cp's default velocity integration so each body gets
// its own gravity scale and separate linear and angular damping.
func (rb *RigidBody2D) integrate(body *cp.Body, gravity cp.Vector, _ float64, dt float64) {
	if body.GetType() != cp.BODY_DYNAMIC {
		return
	}
	accel := gravity.Mult(rb.GravityScale)
	if m := body.Mass(); m > 0 {
		accel = accel.Add(body.Force().Mult(1 / m))
	}
	v := body.Velocity().Add(accel.Mult(dt)).Mult(1 / (1 + dt*rb.LinearDamping))

	w := body.AngularVelocity()
	if i := body.Moment(); i > 0 {
		w += body.Torque() / i * dt
	}
	w *= 1 / (1 + dt*rb.AngularDamping)

	body.SetVelocityVector(v)
	body.SetAngularVelocity(w)
	body.SetForce(cp.Vector{})
	body.SetTorque(0)
}

func (rb *RigidBody2D) Properties() []ecs.Property {
	return []ecs.Property{
		ecs.Vec2Prop("velocity", func() common.Vec2 { return rb.Velocity }, rb.SetVelocity),
		ecs.FloatProp("angularVelocity", func() float64 { return rb.AngularVelocity }, rb.SetAngularVelocity),
		ecs.FloatProp("gravityScale", func() float64 { return rb.GravityScale }, rb.SetGravityScale),
		ecs.FloatProp("mass", func() float64 { return rb.Mass }, func(m float64) {
			rb.Mass = m
			rb.world.ResetFixtures(rb)
		}),
		ecs.EnumProp("bodyType", bodyTypeNames, func() int { return int(rb.BodyType) }, func(i int) {
			rb.SetBodyType(BodyType(i))
		}),
		ecs.FloatProp("friction", func() float64 { return rb.Friction }, rb.SetFriction),
		ecs.FloatProp("angularDamping", func() float64 { return rb.AngularDamping }, func(d float64) { rb.AngularDamping = d }),
		ecs.FloatProp("linearDamping", func() float64 { return rb.LinearDamping }, func(d float64) { rb.LinearDamping = d }),
		ecs.BoolProp("isSensor", func() bool { return rb.IsSensor }, func(on bool) {
			if on {
				rb.SetIsSensor()
			} else {
				rb.SetNotSensor()
			}
		}),
		ecs.BoolProp("fixedRotation", func() bool { return rb.FixedRotation }, func(on bool) {
			rb.FixedRotation = on
			rb.world.ResetFixtures(rb)
		}),
		ecs.BoolProp("continuousCollision", func() bool { return rb.ContinuousCollision }, func(on bool) {
			rb.ContinuousCollision = on
		}),
	}
}

func vec(v common.Vec2) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

func fromVec(v cp.Vector) common.Vec2 {
	return common.V2(v.X, v.Y)
}
