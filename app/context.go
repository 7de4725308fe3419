package app

import (
	"io/fs"

	"github.com/milk9111/forge2d/assets"
	"github.com/milk9111/forge2d/config"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/ecs/component"
	"github.com/milk9111/forge2d/ecs/physics"
	"github.com/milk9111/forge2d/ecs/render"
	"github.com/milk9111/forge2d/logging"
	"github.com/milk9111/forge2d/prefabs"
	"go.uber.org/zap"
)

const spriteShaderPath = "assets/shaders/sprite.kage"

// Context holds the services that outlive any one scene.
type Context struct {
	Config   config.Settings
	Log      *zap.Logger
	Bus      *ecs.EventBus
	Registry *ecs.Registry
	Assets   *assets.Pool
	Backend  render.Backend
	Prefabs  *prefabs.Builder
}

// NewContext wires the registry, asset pool and prefab builder. A nil fsys
// reads assets from disk with the embedded art as fallback. Backend is left
// nil until UseEbiten is called, which keeps headless callers off the GPU.
func NewContext(cfg config.Settings, fsys fs.FS, log *zap.Logger) *Context {
	log = logging.OrNop(log)
	pool := assets.NewPool(fsys, log)

	reg := ecs.NewRegistry()
	component.Register(reg, prefabs.LoadScript, log)
	physics.Register(reg)

	return &Context{
		Config:   cfg,
		Log:      log,
		Bus:      ecs.NewEventBus(),
		Registry: reg,
		Assets:   pool,
		Prefabs:  prefabs.NewBuilder(pool, prefabs.LoadScript, log),
	}
}

// UseEbiten installs the ebiten sprite backend with the engine's sprite
// shader, falling back to the fixed pipeline when the shader is missing.
func (c *Context) UseEbiten() {
	shader, err := c.Assets.Shader(spriteShaderPath)
	if err != nil {
		c.Log.Warn("sprite shader missing", zap.String("path", spriteShaderPath), zap.Error(err))
	}
	c.Backend = render.NewEbitenBackend(shader, c.Log)
}
