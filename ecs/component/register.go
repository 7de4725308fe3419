package component

import (
	"github.com/milk9111/forge2d/ecs"
	"go.uber.org/zap"
)

// Register adds the sprite, animation and script components to reg.
func Register(reg *ecs.Registry, scripts ScriptLoader, log *zap.Logger) {
	reg.Register(SpriteRendererType, func() ecs.Component { return NewSpriteRenderer() })
	reg.Register(StateMachineType, func() ecs.Component { return NewStateMachine(log) })
	reg.Register(ScriptType, func() ecs.Component { return NewScript(scripts, log) })
}
