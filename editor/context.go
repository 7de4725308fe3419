// Package editor holds the in-scene editing tools: selection, gizmos, the
// editor camera, grid lines, mouse picking and the clipboard. Each tool is a
// component on a single non-serialized GameObject and reads the frame's input
// through a shared Context.
package editor

import (
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/input"
	"github.com/milk9111/forge2d/logging"
	"github.com/milk9111/forge2d/scene"
	"go.uber.org/zap"
)

// Context is the state the editor tools of one scene share.
type Context struct {
	Scene      *scene.Scene
	Properties *PropertiesWindow
	Bus        *ecs.EventBus
	GridSize   float64

	in         *input.Snapshot
	lastCursor common.Vec2
	primed     bool
	log        *zap.Logger
}

func NewContext(s *scene.Scene, bus *ecs.EventBus, log *zap.Logger) *Context {
	log = logging.OrNop(log).Named("editor")
	grid := s.Config().Editor.GridSize
	if grid <= 0 {
		grid = 0.25
	}
	return &Context{
		Scene:      s,
		Properties: NewPropertiesWindow(log),
		Bus:        bus,
		GridSize:   grid,
		in:         input.NewSnapshot(),
		log:        log,
	}
}

// BeginFrame installs this frame's input. The previous cursor is kept so
// MouseDelta can report the drag distance in world units.
func (c *Context) BeginFrame(in *input.Snapshot) {
	if in == nil {
		in = input.NewSnapshot()
	}
	if c.primed {
		c.lastCursor = c.in.Cursor
	} else {
		c.lastCursor = in.Cursor
		c.primed = true
	}
	c.in = in
	c.Scene.Camera().AdjustProjection()
	c.Properties.Prune()
}

func (c *Context) Input() *input.Snapshot {
	return c.in
}

// MouseWorld is the cursor position in world units.
func (c *Context) MouseWorld() common.Vec2 {
	return c.Scene.Camera().ScreenToWorld(c.in.Cursor)
}

// MouseDelta is how far the cursor moved since the last frame, in world
// units under the current camera.
func (c *Context) MouseDelta() common.Vec2 {
	cam := c.Scene.Camera()
	return cam.ScreenToWorld(c.in.Cursor).Sub(cam.ScreenToWorld(c.lastCursor))
}

// Snap rounds p to the editor grid.
func (c *Context) Snap(p common.Vec2) common.Vec2 {
	return common.V2(common.Snap(p.X, c.GridSize), common.Snap(p.Y, c.GridSize))
}

func (c *Context) Log() *zap.Logger {
	return c.log
}
