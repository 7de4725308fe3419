package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/forge2d/common"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
	ZIndex   int     `yaml:"z_index"`
}

// SheetSpec slices Image into Count sprites of FrameW x FrameH pixels.
type SheetSpec struct {
	Image   string `yaml:"image"`
	FrameW  int    `yaml:"frame_w"`
	FrameH  int    `yaml:"frame_h"`
	Count   int    `yaml:"count"`
	Spacing int    `yaml:"spacing"`
}

// SpriteSpec draws either a whole image or one cell of Sheet.
type SpriteSpec struct {
	Image string     `yaml:"image"`
	Sheet *SheetSpec `yaml:"sheet"`
	Index int        `yaml:"index"`
	Color *YAMLColor `yaml:"color"`
}

type AnimationStateSpec struct {
	Name      string  `yaml:"name"`
	Frames    []int   `yaml:"frames"`
	FrameTime float64 `yaml:"frame_time"`
	Loop      bool    `yaml:"loop"`
}

type TransitionSpec struct {
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Trigger string `yaml:"trigger"`
}

type AnimationSpec struct {
	Sheet       SheetSpec            `yaml:"sheet"`
	Default     string               `yaml:"default"`
	States      []AnimationStateSpec `yaml:"states"`
	Transitions []TransitionSpec     `yaml:"transitions"`
}

type RigidBodySpec struct {
	BodyType       string   `yaml:"body_type"`
	Mass           float64  `yaml:"mass"`
	Friction       *float64 `yaml:"friction"`
	GravityScale   *float64 `yaml:"gravity_scale"`
	LinearDamping  *float64 `yaml:"linear_damping"`
	AngularDamping *float64 `yaml:"angular_damping"`
	FixedRotation  bool     `yaml:"fixed_rotation"`
	IsSensor       bool     `yaml:"is_sensor"`
}

type BoxColliderSpec struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

type CircleColliderSpec struct {
	Radius  float64 `yaml:"radius"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

type PillboxColliderSpec struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

type ScriptSpec struct {
	Path   string `yaml:"path"`
	Source string `yaml:"source"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return nil, nil
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}

// Vec4 returns the color as normalized RGBA. A nil color is opaque white.
func (c *YAMLColor) Vec4() common.Vec4 {
	if c == nil || c.Color == nil {
		return common.V4(1, 1, 1, 1)
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return common.V4(float64(n.R)/255, float64(n.G)/255, float64(n.B)/255, float64(n.A)/255)
}
