package physics

import "github.com/milk9111/forge2d/ecs"

// Register adds the body and collider component types to reg.
func Register(reg *ecs.Registry) {
	reg.Register(RigidBody2DType, func() ecs.Component { return NewRigidBody2D() })
	reg.Register(CircleColliderType, func() ecs.Component { return NewCircleCollider() })
	reg.Register(Box2DColliderType, func() ecs.Component { return NewBox2DCollider() })
	reg.Register(PillboxColliderType, func() ecs.Component { return NewPillboxCollider() })
}
