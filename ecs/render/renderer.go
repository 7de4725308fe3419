package render

import (
	"slices"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/config"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/ecs/component"
	"github.com/milk9111/forge2d/logging"
	"go.uber.org/zap"
)

// Backend turns batches into pixels. Upload is only called after a batch's
// vertex data changed.
type Backend interface {
	Upload(b *Batch)
	Draw(target *ebiten.Image, b *Batch, cam *Camera)
	Release(b *Batch)
}

// Renderer assigns sprites to batches and keeps batches sorted by z index,
// lowest first.
type Renderer struct {
	batches     []*Batch
	owners      map[*ecs.GameObject]placement
	holders     map[*component.SpriteRenderer]*ecs.GameObject
	maxBatch    int
	maxTextures int
	backend     Backend
	log         *zap.Logger
}

func NewRenderer(cfg config.Render, backend Backend, log *zap.Logger) *Renderer {
	return &Renderer{
		owners:      make(map[*ecs.GameObject]placement),
		holders:     make(map[*component.SpriteRenderer]*ecs.GameObject),
		maxBatch:    cfg.MaxBatchSize,
		maxTextures: cfg.MaxTextures,
		backend:     backend,
		log:         logging.OrNop(log).Named("render"),
	}
}

// placement records which sprite of an object sits in which batch.
type placement struct {
	batch  *Batch
	sprite *component.SpriteRenderer
}

// Add places g's sprite in the first batch with the same z index, a free
// quad and a usable texture slot. Objects without a SpriteRenderer are
// ignored, as are objects whose current sprite is already present. A sprite
// that was swapped for a new one is replaced.
func (r *Renderer) Add(g *ecs.GameObject) {
	if r == nil || g == nil {
		return
	}
	sr, ok := ecs.Get[*component.SpriteRenderer](g)
	if !ok {
		return
	}
	if p, exists := r.owners[g]; exists {
		if p.sprite == sr {
			return
		}
		r.Remove(g)
	}

	z := g.Transform().ZIndex
	for _, b := range r.batches {
		if b.zIndex == z && b.HasRoom() && b.accepts(sr.Texture()) {
			b.AddSprite(sr)
			r.place(g, b, sr)
			return
		}
	}

	b := NewBatch(r.maxBatch, r.maxTextures, z)
	b.AddSprite(sr)
	r.place(g, b, sr)
	r.batches = append(r.batches, b)
	sort.SliceStable(r.batches, func(i, j int) bool {
		return r.batches[i].zIndex < r.batches[j].zIndex
	})
	r.log.Debug("batch created", zap.Int("z", z), zap.Int("batches", len(r.batches)))
}

func (r *Renderer) place(g *ecs.GameObject, b *Batch, sr *component.SpriteRenderer) {
	r.owners[g] = placement{batch: b, sprite: sr}
	r.holders[sr] = g
}

func (r *Renderer) forget(sr *component.SpriteRenderer) {
	g, ok := r.holders[sr]
	if !ok {
		return
	}
	delete(r.holders, sr)
	if p, ok := r.owners[g]; ok && p.sprite == sr {
		delete(r.owners, g)
	}
}

// Remove takes g's sprite out of its batch. Empty batches are dropped.
func (r *Renderer) Remove(g *ecs.GameObject) {
	if r == nil || g == nil {
		return
	}
	p, ok := r.owners[g]
	if !ok {
		return
	}
	r.forget(p.sprite)
	b := p.batch
	if i := slices.Index(b.sprites, p.sprite); i >= 0 {
		b.removeAt(i)
	}
	if b.Len() == 0 {
		r.drop(b)
	}
}

func (r *Renderer) drop(b *Batch) {
	i := slices.Index(r.batches, b)
	if i < 0 {
		return
	}
	r.batches = slices.Delete(r.batches, i, i+1)
	if r.backend != nil {
		r.backend.Release(b)
	}
}

func (r *Renderer) Batches() []*Batch {
	if r == nil {
		return nil
	}
	return slices.Clone(r.batches)
}

// Contains reports whether g currently has a sprite in a batch.
func (r *Renderer) Contains(g *ecs.GameObject) bool {
	if r == nil {
		return false
	}
	_, ok := r.owners[g]
	return ok
}

// Render refreshes dirty quads, moves sprites whose z index or texture no
// longer fits their batch, then uploads changed batches and draws all of
// them in z order.
func (r *Renderer) Render(target *ebiten.Image, cam *Camera) {
	if r == nil {
		return
	}
	for _, b := range slices.Clone(r.batches) {
		r.prepare(b)
	}
	for _, b := range slices.Clone(r.batches) {
		if b.Len() == 0 {
			r.drop(b)
		}
	}

	for _, b := range r.batches {
		if b.stale {
			if r.backend != nil {
				r.backend.Upload(b)
			}
			b.stale = false
		}
		if r.backend != nil {
			r.backend.Draw(target, b, cam)
		}
	}
}

func (r *Renderer) prepare(b *Batch) {
	for i := 0; i < len(b.sprites); i++ {
		sr := b.sprites[i]
		g := sr.GameObject()
		if g == nil {
			b.removeAt(i)
			r.forget(sr)
			i--
			continue
		}

		tex := sr.Texture()
		if g.Transform().ZIndex != b.zIndex || !b.accepts(tex) {
			b.removeAt(i)
			r.forget(sr)
			r.Add(g)
			i--
			continue
		}
		if tex != nil && !b.HasTexture(tex) {
			b.useTexture(tex)
			sr.SetDirty()
		}

		if sr.IsDirty() {
			b.load(i)
			sr.SetClean()
			b.stale = true
		}
	}
}

// Pick returns the uid of the topmost sprite whose quad contains the world
// point. Quads are read back from the packed vertex data; uids come from the
// batch's id list so large ones survive.
func (r *Renderer) Pick(world common.Vec2) (int, bool) {
	if r == nil {
		return 0, false
	}
	for bi := len(r.batches) - 1; bi >= 0; bi-- {
		b := r.batches[bi]
		verts := b.Vertices()
		for q := b.Len() - 1; q >= 0; q-- {
			quad := verts[q*VerticesPerQuad*VertexSize : (q+1)*VerticesPerQuad*VertexSize]
			if quadContains(quad, world) {
				return b.ObjectID(q), true
			}
		}
	}
	return 0, false
}

func quadContains(quad []float32, p common.Vec2) bool {
	var sign float64
	for k := 0; k < VerticesPerQuad; k++ {
		a := quad[k*VertexSize:]
		c := quad[((k+1)%VerticesPerQuad)*VertexSize:]
		ax, ay := float64(a[PosOffset]), float64(a[PosOffset+1])
		cx, cy := float64(c[PosOffset]), float64(c[PosOffset+1])
		cross := (cx-ax)*(p.Y-ay) - (cy-ay)*(p.X-ax)
		if cross == 0 {
			continue
		}
		if sign == 0 {
			sign = cross
			continue
		}
		if (cross > 0) != (sign > 0) {
			return false
		}
	}
	return sign != 0
}
