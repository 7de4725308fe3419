package ecs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/milk9111/forge2d/common"
)

type PropertyKind int

const (
	PropInt PropertyKind = iota
	PropFloat
	PropBool
	PropVec2
	PropVec4
	PropEnum
	PropString
)

func (k PropertyKind) String() string {
	switch k {
	case PropInt:
		return "int"
	case PropFloat:
		return "float"
	case PropBool:
		return "bool"
	case PropVec2:
		return "vec2"
	case PropVec4:
		return "vec4"
	case PropEnum:
		return "enum"
	case PropString:
		return "string"
	default:
		return "unknown"
	}
}

// Property is one editable field of a component. Enum values are ints
// indexing Options.
type Property struct {
	Name    string
	Kind    PropertyKind
	Options []string
	Get     func() any
	Set     func(any) error
}

func prop[T any](name string, kind PropertyKind, get func() T, set func(T)) Property {
	return Property{
		Name: name,
		Kind: kind,
		Get:  func() any { return get() },
		Set: func(v any) error {
			cast, ok := v.(T)
			if !ok {
				var zero T
				return fmt.Errorf("ecs: property %s wants %T, got %T", name, zero, v)
			}
			set(cast)
			return nil
		},
	}
}

func IntProp(name string, get func() int, set func(int)) Property {
	return prop(name, PropInt, get, set)
}

func FloatProp(name string, get func() float64, set func(float64)) Property {
	return prop(name, PropFloat, get, set)
}

func BoolProp(name string, get func() bool, set func(bool)) Property {
	return prop(name, PropBool, get, set)
}

func Vec2Prop(name string, get func() common.Vec2, set func(common.Vec2)) Property {
	return prop(name, PropVec2, get, set)
}

func Vec4Prop(name string, get func() common.Vec4, set func(common.Vec4)) Property {
	return prop(name, PropVec4, get, set)
}

func StringProp(name string, get func() string, set func(string)) Property {
	return prop(name, PropString, get, set)
}

func EnumProp(name string, options []string, get func() int, set func(int)) Property {
	p := prop(name, PropEnum, get, func(v int) {
		if v < 0 || v >= len(options) {
			return
		}
		set(v)
	})
	p.Options = options
	return p
}

// Format renders the current value the way SetString parses it.
func (p Property) Format() string {
	v := p.Get()
	switch p.Kind {
	case PropFloat:
		return strconv.FormatFloat(v.(float64), 'g', -1, 64)
	case PropVec2:
		vec := v.(common.Vec2)
		return joinFloats(vec.X, vec.Y)
	case PropVec4:
		vec := v.(common.Vec4)
		return joinFloats(vec.X, vec.Y, vec.Z, vec.W)
	case PropEnum:
		i := v.(int)
		if i >= 0 && i < len(p.Options) {
			return p.Options[i]
		}
		return strconv.Itoa(i)
	default:
		return fmt.Sprint(v)
	}
}

// SetString parses s according to the property kind and applies it.
func (p Property) SetString(s string) error {
	s = strings.TrimSpace(s)
	switch p.Kind {
	case PropInt:
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("ecs: property %s: %w", p.Name, err)
		}
		return p.Set(v)
	case PropFloat:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("ecs: property %s: %w", p.Name, err)
		}
		return p.Set(v)
	case PropBool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("ecs: property %s: %w", p.Name, err)
		}
		return p.Set(v)
	case PropVec2:
		f, err := splitFloats(s, 2)
		if err != nil {
			return fmt.Errorf("ecs: property %s: %w", p.Name, err)
		}
		return p.Set(common.V2(f[0], f[1]))
	case PropVec4:
		f, err := splitFloats(s, 4)
		if err != nil {
			return fmt.Errorf("ecs: property %s: %w", p.Name, err)
		}
		return p.Set(common.V4(f[0], f[1], f[2], f[3]))
	case PropEnum:
		for i, opt := range p.Options {
			if strings.EqualFold(opt, s) {
				return p.Set(i)
			}
		}
		return fmt.Errorf("ecs: property %s: unknown option %q", p.Name, s)
	case PropString:
		return p.Set(s)
	}
	return fmt.Errorf("ecs: property %s: unsupported kind %s", p.Name, p.Kind)
}

func joinFloats(vals ...float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}

func splitFloats(s string, n int) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
