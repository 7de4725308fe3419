package render

import (
	"slices"

	"github.com/milk9111/forge2d/assets"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/ecs/component"
)

// Vertex layout: pos(2) color(4) tex(2) texId(1) entityId(1).
const (
	PosOffset      = 0
	ColorOffset    = 2
	TexCoordOffset = 6
	TexIDOffset    = 8
	EntityIDOffset = 9
	VertexSize     = 10

	VerticesPerQuad = 4
	IndicesPerQuad  = 6

	// MaxTextures is the number of texture slots a batch can address.
	MaxTextures = 8

	// maxQuads keeps every index addressable by a uint16.
	maxQuads = (1 << 16) / VerticesPerQuad
)

// Corner offsets of a unit quad centered on the transform: top-right,
// bottom-right, bottom-left, top-left. This matches assets.DefaultTexCoords.
var quadCorners = [VerticesPerQuad]common.Vec2{
	{X: 0.5, Y: 0.5},
	{X: 0.5, Y: -0.5},
	{X: -0.5, Y: -0.5},
	{X: -0.5, Y: 0.5},
}

// Batch packs up to maxSize sprites sharing one z index into a single vertex
// buffer. Texture ids in the buffer are slot+1; 0 means untextured.
type Batch struct {
	sprites     []*component.SpriteRenderer
	textures    []*assets.Texture
	vertices    []float32
	ids         []int
	indices     []uint16
	maxSize     int
	maxTextures int
	zIndex      int
	stale       bool
}

func NewBatch(maxSize, maxTextures, zIndex int) *Batch {
	maxSize = min(max(maxSize, 1), maxQuads)
	maxTextures = min(max(maxTextures, 1), MaxTextures)
	return &Batch{
		sprites:     make([]*component.SpriteRenderer, 0, maxSize),
		vertices:    make([]float32, maxSize*VerticesPerQuad*VertexSize),
		ids:         make([]int, maxSize),
		indices:     generateIndices(maxSize),
		maxSize:     maxSize,
		maxTextures: maxTextures,
		zIndex:      zIndex,
	}
}

func generateIndices(quads int) []uint16 {
	out := make([]uint16, quads*IndicesPerQuad)
	for i := 0; i < quads; i++ {
		off := uint16(i * VerticesPerQuad)
		o := i * IndicesPerQuad
		out[o+0] = off + 3
		out[o+1] = off + 2
		out[o+2] = off + 0
		out[o+3] = off + 0
		out[o+4] = off + 2
		out[o+5] = off + 1
	}
	return out
}

func (b *Batch) HasRoom() bool {
	return b != nil && len(b.sprites) < b.maxSize
}

// HasTexture reports whether a texture with t's handle holds a slot. Copies
// of one path share a slot even when they are distinct values.
func (b *Batch) HasTexture(t *assets.Texture) bool {
	return b.slot(t) >= 0
}

func (b *Batch) slot(t *assets.Texture) int {
	if b == nil || t == nil {
		return -1
	}
	return slices.IndexFunc(b.textures, func(have *assets.Texture) bool {
		return have == t || have.Handle == t.Handle
	})
}

// useTexture gives t a slot. A slot held by an unresolved copy is handed to
// a resolved one.
func (b *Batch) useTexture(t *assets.Texture) {
	if t == nil {
		return
	}
	i := b.slot(t)
	switch {
	case i < 0:
		b.textures = append(b.textures, t)
	case !b.textures[i].Resolved() && t.Resolved():
		b.textures[i] = t
	}
}

func (b *Batch) HasTextureRoom() bool {
	return b != nil && len(b.textures) < b.maxTextures
}

// accepts reports whether t can be addressed by this batch.
func (b *Batch) accepts(t *assets.Texture) bool {
	return t == nil || b.HasTexture(t) || b.HasTextureRoom()
}

// AddSprite appends sr and writes its quad. It returns false when the batch
// is full or has no slot for the sprite's texture.
func (b *Batch) AddSprite(sr *component.SpriteRenderer) bool {
	if b == nil || sr == nil || !b.HasRoom() {
		return false
	}
	tex := sr.Texture()
	if !b.accepts(tex) {
		return false
	}
	b.useTexture(tex)
	b.sprites = append(b.sprites, sr)
	b.load(len(b.sprites) - 1)
	b.stale = true
	return true
}

// DestroyIfExists removes g's sprite. Sprites after it shift down one quad
// and are marked dirty so their vertices are rewritten.
func (b *Batch) DestroyIfExists(g *ecs.GameObject) bool {
	if b == nil || g == nil {
		return false
	}
	for i, sr := range b.sprites {
		if sr.GameObject() == g {
			b.removeAt(i)
			return true
		}
	}
	return false
}

func (b *Batch) removeAt(i int) {
	b.sprites = slices.Delete(b.sprites, i, i+1)
	for _, sr := range b.sprites[i:] {
		sr.SetDirty()
	}
	b.stale = true
}

// load writes the quad for sprite i from its transform and renderer.
func (b *Batch) load(i int) {
	sr := b.sprites[i]
	g := sr.GameObject()
	if g == nil {
		return
	}
	t := g.Transform()

	texID := float32(0)
	if tex := sr.Texture(); tex != nil {
		if slot := b.slot(tex); slot >= 0 {
			texID = float32(slot + 1)
		}
	}
	coords := sr.TexCoords()
	c := sr.Color

	off := i * VerticesPerQuad * VertexSize
	for k, corner := range quadCorners {
		p := corner.Mul(t.Scale)
		if t.Rotation != 0 {
			p = p.Rotate(t.Rotation, common.Vec2{})
		}
		p = p.Add(t.Position)

		v := b.vertices[off+k*VertexSize : off+(k+1)*VertexSize]
		v[PosOffset] = float32(p.X)
		v[PosOffset+1] = float32(p.Y)
		v[ColorOffset] = float32(c.X)
		v[ColorOffset+1] = float32(c.Y)
		v[ColorOffset+2] = float32(c.Z)
		v[ColorOffset+3] = float32(c.W)
		v[TexCoordOffset] = float32(coords[k].X)
		v[TexCoordOffset+1] = float32(coords[k].Y)
		v[TexIDOffset] = texID
		v[EntityIDOffset] = float32(g.UID())
	}
	b.ids[i] = g.UID()
}

// ObjectID returns the uid written with quad q. The vertex lane holds the
// same value as a float32, which is exact only up to 1<<24.
func (b *Batch) ObjectID(q int) int {
	if b == nil || q < 0 || q >= len(b.sprites) {
		return 0
	}
	return b.ids[q]
}

func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.sprites)
}

func (b *Batch) Sprites() []*component.SpriteRenderer {
	if b == nil {
		return nil
	}
	return slices.Clone(b.sprites)
}

func (b *Batch) Textures() []*assets.Texture {
	if b == nil {
		return nil
	}
	return slices.Clone(b.textures)
}

// Vertices returns the packed vertex data for the live quads.
func (b *Batch) Vertices() []float32 {
	if b == nil {
		return nil
	}
	return b.vertices[:len(b.sprites)*VerticesPerQuad*VertexSize]
}

// Indices returns the index data for the live quads.
func (b *Batch) Indices() []uint16 {
	if b == nil {
		return nil
	}
	return b.indices[:len(b.sprites)*IndicesPerQuad]
}

func (b *Batch) ZIndex() int {
	if b == nil {
		return 0
	}
	return b.zIndex
}
