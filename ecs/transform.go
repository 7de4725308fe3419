package ecs

import "github.com/milk9111/forge2d/common"

const TransformType = "Transform"

// Transform places a GameObject in the world. Rotation is in degrees.
type Transform struct {
	Base
	Position common.Vec2 `json:"position"`
	Scale    common.Vec2 `json:"scale"`
	Rotation float64     `json:"rotation"`
	ZIndex   int         `json:"zIndex"`
}

func NewTransform() *Transform {
	return &Transform{Scale: common.V2(1, 1)}
}

func NewTransformAt(position, scale common.Vec2) *Transform {
	return &Transform{Position: position, Scale: scale}
}

func (t *Transform) TypeName() string {
	return TransformType
}

// Copy returns a detached Transform with the same values.
func (t *Transform) Copy() *Transform {
	if t == nil {
		return nil
	}
	return &Transform{
		Position: t.Position,
		Scale:    t.Scale,
		Rotation: t.Rotation,
		ZIndex:   t.ZIndex,
	}
}

// CopyTo writes t's values into dst, leaving dst's identity alone.
func (t *Transform) CopyTo(dst *Transform) {
	if t == nil || dst == nil {
		return
	}
	dst.Position = t.Position
	dst.Scale = t.Scale
	dst.Rotation = t.Rotation
	dst.ZIndex = t.ZIndex
}

// Equal compares values only.
func (t *Transform) Equal(o *Transform) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.Position == o.Position &&
		t.Scale == o.Scale &&
		t.Rotation == o.Rotation &&
		t.ZIndex == o.ZIndex
}

func (t *Transform) Properties() []Property {
	return []Property{
		Vec2Prop("position", func() common.Vec2 { return t.Position }, func(v common.Vec2) { t.Position = v }),
		Vec2Prop("scale", func() common.Vec2 { return t.Scale }, func(v common.Vec2) { t.Scale = v }),
		FloatProp("rotation", func() float64 { return t.Rotation }, func(v float64) { t.Rotation = v }),
		IntProp("zIndex", func() int { return t.ZIndex }, func(v int) { t.ZIndex = v }),
	}
}
