package scene

import (
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/forge2d/assets"
	"github.com/milk9111/forge2d/config"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/ecs/physics"
	"github.com/milk9111/forge2d/ecs/render"
	"github.com/milk9111/forge2d/logging"
	"go.uber.org/zap"
)

type State int

const (
	StateConstructed State = iota
	StateInitialized
	StateAwake
	StateRunning
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateInitialized:
		return "initialized"
	case StateAwake:
		return "awake"
	case StateRunning:
		return "running"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Initializer fills a freshly constructed scene. LoadResources runs first so
// Init can rely on pooled assets.
type Initializer interface {
	LoadResources(p *assets.Pool)
	Init(s *Scene) error
}

// Deps are the long-lived services a scene borrows from the application.
type Deps struct {
	Registry *ecs.Registry
	Assets   *assets.Pool
	Backend  render.Backend
	Log      *zap.Logger
}

// Scene owns the live GameObjects of one level together with the renderer,
// physics world and camera that serve them.
type Scene struct {
	ID uuid.UUID

	cfg      config.Settings
	init     Initializer
	registry *ecs.Registry
	assets   *assets.Pool

	camera   *render.Camera
	renderer *render.Renderer
	physics  *physics.World
	debug    *render.DebugDraw

	objects []*ecs.GameObject
	pending []*ecs.GameObject
	state   State
	log     *zap.Logger
}

func New(cfg config.Settings, init Initializer, deps Deps) *Scene {
	log := logging.OrNop(deps.Log)
	reg := deps.Registry
	if reg == nil {
		reg = ecs.NewRegistry()
	}
	pool := deps.Assets
	if pool == nil {
		pool = assets.NewPool(nil, log)
	}
	return &Scene{
		ID:       uuid.New(),
		cfg:      cfg,
		init:     init,
		registry: reg,
		assets:   pool,
		camera:   render.NewCamera(cfg.Camera, cfg.Window.Width, cfg.Window.Height),
		renderer: render.NewRenderer(cfg.Render, deps.Backend, log),
		physics:  physics.NewWorld(cfg.Physics, log),
		debug:    render.NewDebugDraw(),
		log:      log.Named("scene"),
	}
}

// Init loads the initializer's resources and lets it populate the scene.
func (s *Scene) Init() error {
	if s == nil || s.state != StateConstructed {
		return nil
	}
	if s.init != nil {
		s.init.LoadResources(s.assets)
		if err := s.init.Init(s); err != nil {
			return err
		}
	}
	s.state = StateInitialized
	return nil
}

// Start starts every object added so far and registers them with the
// renderer and the physics world. The scene is awake until its first update.
func (s *Scene) Start() {
	if s == nil || s.started() || s.state == StateDestroyed {
		return
	}
	for _, g := range s.objects {
		s.activate(g)
	}
	s.state = StateAwake
	s.log.Info("scene started", zap.Stringer("id", s.ID), zap.Int("objects", len(s.objects)))
}

func (s *Scene) activate(g *ecs.GameObject) {
	g.Start()
	s.renderer.Add(g)
	s.physics.Add(g)
}

func (s *Scene) State() State {
	if s == nil {
		return StateDestroyed
	}
	return s.state
}

func (s *Scene) IsRunning() bool {
	return s.State() == StateRunning
}

func (s *Scene) started() bool {
	return s.state == StateAwake || s.state == StateRunning
}

func (s *Scene) tick() {
	if s.state == StateAwake {
		s.state = StateRunning
	}
}

// CreateGameObject returns a new object with only a Transform. It is not
// part of the scene until passed to AddGameObject.
func (s *Scene) CreateGameObject(name string) *ecs.GameObject {
	return ecs.NewGameObject(name)
}

// AddGameObject adds g directly before the scene starts. Once started, g
// waits in the pending list and joins at the end of the next update.
func (s *Scene) AddGameObject(g *ecs.GameObject) {
	if s == nil || g == nil || s.state == StateDestroyed {
		return
	}
	if s.started() {
		s.pending = append(s.pending, g)
		return
	}
	s.objects = append(s.objects, g)
}

// GameObjects returns a snapshot of the live objects in scene order.
func (s *Scene) GameObjects() []*ecs.GameObject {
	if s == nil {
		return nil
	}
	return append([]*ecs.GameObject(nil), s.objects...)
}

func (s *Scene) Pending() int {
	if s == nil {
		return 0
	}
	return len(s.pending)
}

func (s *Scene) GameObject(uid int) (*ecs.GameObject, bool) {
	if s == nil {
		return nil, false
	}
	for _, g := range s.objects {
		if g.UID() == uid {
			return g, true
		}
	}
	return nil, false
}

func (s *Scene) GameObjectByName(name string) (*ecs.GameObject, bool) {
	if s == nil {
		return nil, false
	}
	for _, g := range s.objects {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// GameObjectWith returns the first live object carrying a component of
// type T, together with that component.
func GameObjectWith[T any](s *Scene) (*ecs.GameObject, T, bool) {
	var zero T
	if s == nil {
		return nil, zero, false
	}
	for _, g := range s.objects {
		if c, ok := ecs.Get[T](g); ok {
			return g, c, true
		}
	}
	return nil, zero, false
}

// Update runs one game frame: physics, then every object, then pruning of
// dead objects and the flush of objects added during the frame.
func (s *Scene) Update(dt float64) {
	if s == nil || s.state == StateDestroyed {
		return
	}
	s.tick()
	s.debug.BeginFrame()
	s.camera.AdjustProjection()
	s.physics.Update(dt)
	for _, g := range s.GameObjects() {
		g.Update(dt)
	}
	s.settle()
}

// EditorUpdate is Update without the physics step.
func (s *Scene) EditorUpdate(dt float64) {
	if s == nil || s.state == StateDestroyed {
		return
	}
	s.tick()
	s.debug.BeginFrame()
	s.camera.AdjustProjection()
	for _, g := range s.GameObjects() {
		g.EditorUpdate(dt)
	}
	s.settle()
}

func (s *Scene) settle() {
	live := s.objects[:0]
	for _, g := range s.objects {
		if g.IsDead() {
			s.renderer.Remove(g)
			s.physics.Remove(g)
			continue
		}
		live = append(live, g)
	}
	clear(s.objects[len(live):])
	s.objects = live

	for len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		for _, g := range batch {
			s.objects = append(s.objects, g)
			s.activate(g)
		}
	}
}

// Render draws every batch through the scene camera, then the debug lines.
func (s *Scene) Render(target *ebiten.Image) {
	if s == nil || target == nil {
		return
	}
	b := target.Bounds()
	s.camera.SetViewport(b.Dx(), b.Dy())
	s.renderer.Render(target, s.camera)
	s.debug.Draw(target, s.camera)
}

// Destroy destroys every object and detaches it from the renderer and the
// physics world.
func (s *Scene) Destroy() {
	if s == nil || s.state == StateDestroyed {
		return
	}
	for _, g := range append(s.objects, s.pending...) {
		g.Destroy()
		s.renderer.Remove(g)
		s.physics.Remove(g)
	}
	s.objects = nil
	s.pending = nil
	s.state = StateDestroyed
}

func (s *Scene) Camera() *render.Camera     { return s.camera }
func (s *Scene) Renderer() *render.Renderer { return s.renderer }
func (s *Scene) Physics() *physics.World    { return s.physics }
func (s *Scene) Debug() *render.DebugDraw   { return s.debug }
func (s *Scene) Registry() *ecs.Registry    { return s.registry }
func (s *Scene) Assets() *assets.Pool       { return s.assets }
func (s *Scene) Config() config.Settings    { return s.cfg }
