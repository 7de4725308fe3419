package prefabs

import (
	"fmt"
	"slices"
	"strings"

	"github.com/milk9111/forge2d/assets"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/ecs/component"
	"github.com/milk9111/forge2d/ecs/physics"
	"github.com/milk9111/forge2d/logging"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Component keys understood under `components:` in a prefab file.
const (
	TransformKey       = "transform"
	SpriteKey          = "sprite"
	AnimationKey       = "animation"
	RigidBodyKey       = "rigidbody"
	BoxColliderKey     = "box_collider"
	CircleColliderKey  = "circle_collider"
	PillboxColliderKey = "pillbox_collider"
	ScriptKey          = "script"
)

// buildOrder is the order components are attached in, which is also their
// update order on the built object.
var buildOrder = []string{
	TransformKey,
	SpriteKey,
	AnimationKey,
	RigidBodyKey,
	BoxColliderKey,
	CircleColliderKey,
	PillboxColliderKey,
	ScriptKey,
}

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// Builder turns prefab specs into GameObjects whose assets come from pool.
// The objects are not added to any scene.
type Builder struct {
	pool    *assets.Pool
	scripts component.ScriptLoader
	log     *zap.Logger
}

func NewBuilder(pool *assets.Pool, scripts component.ScriptLoader, log *zap.Logger) *Builder {
	log = logging.OrNop(log)
	if pool == nil {
		pool = assets.NewPool(nil, log)
	}
	if scripts == nil {
		scripts = LoadScript
	}
	return &Builder{pool: pool, scripts: scripts, log: log.Named("prefabs")}
}

func (b *Builder) BuildFile(name string) (*ecs.GameObject, error) {
	spec, err := LoadEntityBuildSpec(name)
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(cleanPrefabPath(name), ".yaml")
	}
	return b.Build(spec)
}

func (b *Builder) Build(spec EntityBuildSpec) (*ecs.GameObject, error) {
	for _, key := range sortedKeys(spec.Components) {
		if !slices.Contains(buildOrder, key) {
			return nil, fmt.Errorf("prefabs: build %s: unknown component %q", spec.Name, key)
		}
	}

	g := ecs.NewGameObject(spec.Name)
	for _, key := range buildOrder {
		raw, ok := spec.Components[key]
		if !ok {
			continue
		}
		if err := b.attach(g, key, raw); err != nil {
			return nil, fmt.Errorf("prefabs: build %s: %s: %w", spec.Name, key, err)
		}
	}
	b.log.Debug("prefab built", zap.String("name", spec.Name), zap.Int("components", len(g.Components())))
	return g, nil
}

func (b *Builder) attach(g *ecs.GameObject, key string, raw any) error {
	switch key {
	case TransformKey:
		spec, err := DecodeComponentSpec[TransformSpec](raw)
		if err != nil {
			return err
		}
		applyTransform(g.Transform(), spec)
	case SpriteKey:
		spec, err := DecodeComponentSpec[SpriteSpec](raw)
		if err != nil {
			return err
		}
		sr, err := b.sprite(spec)
		if err != nil {
			return err
		}
		g.AddComponent(sr)
	case AnimationKey:
		spec, err := DecodeComponentSpec[AnimationSpec](raw)
		if err != nil {
			return err
		}
		m, err := b.animation(spec)
		if err != nil {
			return err
		}
		g.AddComponent(m)
		if sr, ok := ecs.Get[*component.SpriteRenderer](g); ok && len(m.States) > 0 {
			sr.SetSprite(m.States[0].CurrentSprite())
		}
	case RigidBodyKey:
		spec, err := DecodeComponentSpec[RigidBodySpec](raw)
		if err != nil {
			return err
		}
		rb, err := rigidBody(spec)
		if err != nil {
			return err
		}
		g.AddComponent(rb)
	case BoxColliderKey:
		spec, err := DecodeComponentSpec[BoxColliderSpec](raw)
		if err != nil {
			return err
		}
		c := physics.NewBox2DCollider()
		c.HalfSize = orScale(common.V2(spec.Width, spec.Height), g.Transform().Scale)
		c.Offset = common.V2(spec.OffsetX, spec.OffsetY)
		g.AddComponent(c)
	case CircleColliderKey:
		spec, err := DecodeComponentSpec[CircleColliderSpec](raw)
		if err != nil {
			return err
		}
		c := physics.NewCircleCollider()
		c.Radius = spec.Radius
		if c.Radius <= 0 {
			c.Radius = g.Transform().Scale.X / 2
		}
		c.Offset = common.V2(spec.OffsetX, spec.OffsetY)
		g.AddComponent(c)
	case PillboxColliderKey:
		spec, err := DecodeComponentSpec[PillboxColliderSpec](raw)
		if err != nil {
			return err
		}
		size := orScale(common.V2(spec.Width, spec.Height), g.Transform().Scale)
		c := physics.NewPillboxCollider()
		c.Width = size.X
		c.Height = size.Y
		c.Offset = common.V2(spec.OffsetX, spec.OffsetY)
		c.RecalculateColliders()
		g.AddComponent(c)
	case ScriptKey:
		spec, err := DecodeComponentSpec[ScriptSpec](raw)
		if err != nil {
			return err
		}
		if spec.Path == "" && spec.Source == "" {
			return fmt.Errorf("script needs a path or source")
		}
		s := component.NewScript(b.scripts, b.log)
		s.Path = spec.Path
		s.Source = spec.Source
		g.AddComponent(s)
	}
	return nil
}

func applyTransform(t *ecs.Transform, spec TransformSpec) {
	t.Position = common.V2(spec.X, spec.Y)
	t.Scale = common.V2(spec.ScaleX, spec.ScaleY)
	if t.Scale.X == 0 {
		t.Scale.X = 1
	}
	if t.Scale.Y == 0 {
		t.Scale.Y = 1
	}
	t.Rotation = spec.Rotation
	t.ZIndex = spec.ZIndex
}

// orScale fills zero components of size from the transform scale.
func orScale(size, scale common.Vec2) common.Vec2 {
	if size.X <= 0 {
		size.X = scale.X
	}
	if size.Y <= 0 {
		size.Y = scale.Y
	}
	return size
}

func (b *Builder) sprite(spec SpriteSpec) (*component.SpriteRenderer, error) {
	sr := component.NewSpriteRenderer()
	switch {
	case spec.Sheet != nil:
		sheet, err := b.sheet(*spec.Sheet)
		if err != nil {
			return nil, err
		}
		s, ok := sheet.Sprite(spec.Index)
		if !ok {
			return nil, fmt.Errorf("sprite %d out of range for %s (%d sprites)", spec.Index, spec.Sheet.Image, sheet.Len())
		}
		sr.SetSprite(s)
	case spec.Image != "":
		sr.SetSprite(assets.NewSprite(b.pool.TextureOrPlaceholder(spec.Image)))
	}
	sr.SetColor(spec.Color.Vec4())
	return sr, nil
}

// sheet returns the pooled spritesheet for spec.Image, slicing and pooling
// it on first use.
func (b *Builder) sheet(spec SheetSpec) (*assets.Spritesheet, error) {
	if spec.Image == "" {
		return nil, fmt.Errorf("sheet needs an image")
	}
	if sheet, err := b.pool.Spritesheet(spec.Image); err == nil {
		return sheet, nil
	}
	sheet, err := assets.NewSpritesheet(b.pool.TextureOrPlaceholder(spec.Image), spec.FrameW, spec.FrameH, spec.Count, spec.Spacing)
	if err != nil {
		return nil, err
	}
	b.pool.AddSpritesheet(spec.Image, sheet)
	return b.pool.Spritesheet(spec.Image)
}

func (b *Builder) animation(spec AnimationSpec) (*component.StateMachine, error) {
	if len(spec.States) == 0 {
		return nil, fmt.Errorf("animation needs at least one state")
	}
	sheet, err := b.sheet(spec.Sheet)
	if err != nil {
		return nil, err
	}

	m := component.NewStateMachine(b.log)
	for _, st := range spec.States {
		state := component.NewAnimationState(st.Name, st.Loop)
		for _, i := range st.Frames {
			s, ok := sheet.Sprite(i)
			if !ok {
				return nil, fmt.Errorf("state %s: frame %d out of range (%d sprites)", st.Name, i, sheet.Len())
			}
			state.AddFrame(s, st.FrameTime)
		}
		m.AddState(state)
	}
	for _, tr := range spec.Transitions {
		m.AddTransition(tr.From, tr.To, tr.Trigger)
	}

	def := spec.Default
	if def == "" {
		def = spec.States[0].Name
	}
	m.SetDefaultState(def)
	return m, nil
}

func rigidBody(spec RigidBodySpec) (*physics.RigidBody2D, error) {
	rb := physics.NewRigidBody2D()
	bt, err := ParseBodyType(spec.BodyType)
	if err != nil {
		return nil, err
	}
	rb.BodyType = bt
	rb.Mass = spec.Mass
	rb.FixedRotation = spec.FixedRotation
	rb.IsSensor = spec.IsSensor
	if spec.Friction != nil {
		rb.Friction = *spec.Friction
	}
	if spec.GravityScale != nil {
		rb.GravityScale = *spec.GravityScale
	}
	if spec.LinearDamping != nil {
		rb.LinearDamping = *spec.LinearDamping
	}
	if spec.AngularDamping != nil {
		rb.AngularDamping = *spec.AngularDamping
	}
	return rb, nil
}

// ParseBodyType reads "static", "dynamic" or "kinematic". Empty means
// dynamic.
func ParseBodyType(s string) (physics.BodyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dynamic":
		return physics.Dynamic, nil
	case "static":
		return physics.Static, nil
	case "kinematic":
		return physics.Kinematic, nil
	default:
		return physics.Dynamic, fmt.Errorf("unknown body type %q", s)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
