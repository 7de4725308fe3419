package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/forge2d/assets"
	"github.com/milk9111/forge2d/logging"
	"go.uber.org/zap"
)

// drawGroup is every quad of a batch that samples the same texture slot.
type drawGroup struct {
	texture  *assets.Texture
	vertices []ebiten.Vertex
	indices  []uint16
}

// EbitenBackend draws a batch with one DrawTriangles call per texture slot.
// Untextured quads sample a white image so only their vertex color shows.
type EbitenBackend struct {
	groups map[*Batch][]drawGroup
	shader *assets.Shader
	kage   *ebiten.Shader
	white  *ebiten.Image
	log    *zap.Logger
}

func NewEbitenBackend(shader *assets.Shader, log *zap.Logger) *EbitenBackend {
	return &EbitenBackend{
		groups: make(map[*Batch][]drawGroup),
		shader: shader,
		log:    logging.OrNop(log).Named("backend"),
	}
}

func (e *EbitenBackend) Upload(b *Batch) {
	if e == nil || b == nil {
		return
	}
	e.groups[b] = convert(b)
}

func (e *EbitenBackend) Release(b *Batch) {
	if e == nil {
		return
	}
	delete(e.groups, b)
}

func (e *EbitenBackend) Draw(target *ebiten.Image, b *Batch, cam *Camera) {
	if e == nil || target == nil || b == nil {
		return
	}
	groups, ok := e.groups[b]
	if !ok {
		groups = convert(b)
		e.groups[b] = groups
	}

	geom := cam.GeoM()
	shader := e.compiled()
	for _, grp := range groups {
		img := e.source(grp.texture)
		if img == nil {
			continue
		}
		vs := make([]ebiten.Vertex, len(grp.vertices))
		copy(vs, grp.vertices)
		for i := range vs {
			x, y := geom.Apply(float64(vs[i].DstX), float64(vs[i].DstY))
			vs[i].DstX, vs[i].DstY = float32(x), float32(y)
		}

		if shader != nil {
			op := &ebiten.DrawTrianglesShaderOptions{}
			op.Images[0] = img
			target.DrawTrianglesShader(vs, grp.indices, shader, op)
			continue
		}
		op := &ebiten.DrawTrianglesOptions{ColorScaleMode: ebiten.ColorScaleModeStraightAlpha}
		target.DrawTriangles(vs, grp.indices, img, op)
	}
}

func (e *EbitenBackend) compiled() *ebiten.Shader {
	if e.kage != nil || e.shader == nil {
		return e.kage
	}
	sh, err := e.shader.Compile()
	if err != nil {
		e.log.Warn("sprite shader unavailable, using fixed pipeline", zap.Error(err))
		e.shader = nil
		return nil
	}
	e.kage = sh
	return sh
}

func (e *EbitenBackend) source(t *assets.Texture) *ebiten.Image {
	if t != nil {
		return t.Image()
	}
	if e.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		e.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return e.white
}

// convert splits a batch's packed vertices into per-texture vertex lists in
// world space. Source coordinates are in texels; untextured quads map onto
// the 1x1 interior of the white image.
func convert(b *Batch) []drawGroup {
	verts := b.Vertices()
	textures := b.textures
	slots := make(map[int]int)
	var groups []drawGroup

	for q := 0; q < b.Len(); q++ {
		quad := verts[q*VerticesPerQuad*VertexSize : (q+1)*VerticesPerQuad*VertexSize]
		slot := int(quad[TexIDOffset])
		gi, ok := slots[slot]
		if !ok {
			var tex *assets.Texture
			if slot > 0 && slot <= len(textures) {
				tex = textures[slot-1]
			}
			gi = len(groups)
			slots[slot] = gi
			groups = append(groups, drawGroup{texture: tex})
		}
		grp := &groups[gi]

		sw, sh, so := float32(1), float32(1), float32(1)
		if grp.texture != nil {
			sw, sh, so = float32(grp.texture.Width), float32(grp.texture.Height), 0
		}

		base := uint16(len(grp.vertices))
		for k := 0; k < VerticesPerQuad; k++ {
			v := quad[k*VertexSize : (k+1)*VertexSize]
			grp.vertices = append(grp.vertices, ebiten.Vertex{
				DstX:   v[PosOffset],
				DstY:   v[PosOffset+1],
				SrcX:   so + v[TexCoordOffset]*sw,
				SrcY:   so + v[TexCoordOffset+1]*sh,
				ColorR: v[ColorOffset],
				ColorG: v[ColorOffset+1],
				ColorB: v[ColorOffset+2],
				ColorA: v[ColorOffset+3],
			})
		}
		grp.indices = append(grp.indices, base+3, base+2, base+0, base+0, base+2, base+1)
	}
	return groups
}
