package component

import (
	"fmt"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/logging"
	"go.uber.org/zap"
)

const ScriptType = "Script"

// ScriptLoader resolves a script path to its source.
type ScriptLoader func(path string) ([]byte, error)

type impulser interface {
	AddImpulse(common.Vec2)
}

type velocitySetter interface {
	SetVelocity(common.Vec2)
}

// Script runs a tengo program once per update. The program sees `dt`, a
// persistent `state` map and an `engine` module:
//
//	engine.position() / engine.set_position(x, y)
//	engine.rotation() / engine.set_rotation(deg)
//	engine.trigger(name)        fires the StateMachine
//	engine.impulse(x, y)        pushes the RigidBody2D
//	engine.set_velocity(x, y)
//	engine.log(msg)
type Script struct {
	ecs.Base
	Path   string `json:"path,omitempty"`
	Source string `json:"source,omitempty"`

	compiled *tengo.Compiled
	state    *tengo.Map
	failed   bool
	loader   ScriptLoader
	log      *zap.Logger
}

func NewScript(loader ScriptLoader, log *zap.Logger) *Script {
	if loader == nil {
		loader = os.ReadFile
	}
	return &Script{loader: loader, log: logging.OrNop(log).Named("script")}
}

func (s *Script) TypeName() string {
	return ScriptType
}

func (s *Script) Start() {
	s.recompile()
}

// recompile compiles the program and logs a failure. A failed script stays
// idle until it compiles again.
func (s *Script) recompile() {
	if err := s.Compile(); err != nil {
		s.compiled = nil
		s.failed = true
		s.log.Error("script compile failed",
			zap.String("object", s.GameObject().String()), zap.String("path", s.Path), zap.Error(err))
	}
}

// Compile builds the program from Source, or from Path when Source is
// empty.
func (s *Script) Compile() error {
	src := s.Source
	if strings.TrimSpace(src) == "" && s.Path != "" {
		data, err := s.loader(s.Path)
		if err != nil {
			return fmt.Errorf("component: load script %s: %w", s.Path, err)
		}
		src = string(data)
	}
	if strings.TrimSpace(src) == "" {
		return fmt.Errorf("component: script has no source")
	}

	script := tengo.NewScript([]byte(src))
	_ = script.Add("dt", 0.0)
	_ = script.Add("state", map[string]any{})
	_ = script.Add("engine", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("component: compile script: %w", err)
	}
	s.compiled = compiled
	s.state = &tengo.Map{Value: map[string]tengo.Object{}}
	s.failed = false
	return nil
}

func (s *Script) Update(dt float64) {
	if s.compiled == nil || s.failed {
		return
	}
	if err := s.run(dt); err != nil {
		s.failed = true
		s.log.Error("script run failed", zap.String("object", s.GameObject().String()), zap.Error(err))
	}
}

func (s *Script) run(dt float64) error {
	if err := s.compiled.Set("dt", dt); err != nil {
		return err
	}
	if err := s.compiled.Set("state", s.state); err != nil {
		return err
	}
	if err := s.compiled.Set("engine", s.engine()); err != nil {
		return err
	}
	return s.compiled.Run()
}

// StateValue reads a key the script stored in its state map.
func (s *Script) StateValue(key string) (any, bool) {
	if s.state == nil {
		return nil, false
	}
	v, ok := s.state.Value[key]
	if !ok {
		return nil, false
	}
	return tengo.ToInterface(v), true
}

func (s *Script) engine() *tengo.ImmutableMap {
	g := s.GameObject()
	t := g.Transform()
	values := map[string]tengo.Object{}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: t.Position.X}, &tengo.Float{Value: t.Position.Y}}}, nil
	}}
	values["set_position"] = &tengo.UserFunction{Name: "set_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, ok := twoFloats(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		t.Position = common.V2(x, y)
		return tengo.TrueValue, nil
	}}
	values["rotation"] = &tengo.UserFunction{Name: "rotation", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: t.Rotation}, nil
	}}
	values["set_rotation"] = &tengo.UserFunction{Name: "set_rotation", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		deg, ok := tengo.ToFloat64(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		t.Rotation = deg
		return tengo.TrueValue, nil
	}}
	values["trigger"] = &tengo.UserFunction{Name: "trigger", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name, ok := tengo.ToString(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		sm, ok := ecs.Get[*StateMachine](g)
		if !ok || !sm.Trigger(name) {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}
	values["impulse"] = &tengo.UserFunction{Name: "impulse", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, ok := twoFloats(args)
		rb, found := ecs.Get[impulser](g)
		if !ok || !found {
			return tengo.FalseValue, nil
		}
		rb.AddImpulse(common.V2(x, y))
		return tengo.TrueValue, nil
	}}
	values["set_velocity"] = &tengo.UserFunction{Name: "set_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, ok := twoFloats(args)
		rb, found := ecs.Get[velocitySetter](g)
		if !ok || !found {
			return tengo.FalseValue, nil
		}
		rb.SetVelocity(common.V2(x, y))
		return tengo.TrueValue, nil
	}}
	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			str, _ := tengo.ToString(a)
			parts = append(parts, str)
		}
		s.log.Info(strings.Join(parts, " "), zap.String("object", g.String()))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func twoFloats(args []tengo.Object) (float64, float64, bool) {
	if len(args) < 2 {
		return 0, 0, false
	}
	x, ok := tengo.ToFloat64(args[0])
	if !ok {
		return 0, 0, false
	}
	y, ok := tengo.ToFloat64(args[1])
	if !ok {
		return 0, 0, false
	}
	return x, y, true
}

func (s *Script) Properties() []ecs.Property {
	return []ecs.Property{
		ecs.StringProp("path", func() string { return s.Path }, func(p string) {
			s.Path = p
			s.recompile()
		}),
	}
}
