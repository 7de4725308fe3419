package component

import (
	"github.com/milk9111/forge2d/assets"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
)

const SpriteRendererType = "SpriteRenderer"

// SpriteRenderer draws a sprite at its GameObject's transform. The renderer
// re-packs its quad only while it is dirty.
type SpriteRenderer struct {
	ecs.Base
	Color  common.Vec4   `json:"color"`
	Sprite assets.Sprite `json:"sprite"`

	lastTransform *ecs.Transform
	dirty         bool
}

func NewSpriteRenderer() *SpriteRenderer {
	return &SpriteRenderer{
		Color:  common.V4(1, 1, 1, 1),
		Sprite: assets.NewSprite(nil),
		dirty:  true,
	}
}

func NewSpriteRendererFor(sprite assets.Sprite) *SpriteRenderer {
	sr := NewSpriteRenderer()
	sr.Sprite = sprite
	return sr
}

func (s *SpriteRenderer) TypeName() string {
	return SpriteRendererType
}

func (s *SpriteRenderer) Start() {
	if t := s.Transform(); t != nil {
		s.lastTransform = t.Copy()
	}
}

func (s *SpriteRenderer) Update(float64) {
	s.checkTransform()
}

func (s *SpriteRenderer) EditorUpdate(float64) {
	s.checkTransform()
}

func (s *SpriteRenderer) checkTransform() {
	t := s.Transform()
	if t == nil {
		return
	}
	if s.lastTransform == nil {
		s.lastTransform = t.Copy()
		s.dirty = true
		return
	}
	if !s.lastTransform.Equal(t) {
		t.CopyTo(s.lastTransform)
		s.dirty = true
	}
}

func (s *SpriteRenderer) Texture() *assets.Texture {
	return s.Sprite.Texture
}

func (s *SpriteRenderer) TexCoords() [4]common.Vec2 {
	return s.Sprite.TexCoords
}

// SetColor only marks the sprite dirty when the color actually changes.
func (s *SpriteRenderer) SetColor(c common.Vec4) {
	if s.Color == c {
		return
	}
	s.Color = c
	s.dirty = true
}

func (s *SpriteRenderer) SetSprite(sprite assets.Sprite) {
	s.Sprite = sprite
	s.dirty = true
}

func (s *SpriteRenderer) SetTexture(t *assets.Texture) {
	s.Sprite.Texture = t
	s.dirty = true
}

func (s *SpriteRenderer) IsDirty() bool {
	return s.dirty
}

func (s *SpriteRenderer) SetDirty() {
	s.dirty = true
}

func (s *SpriteRenderer) SetClean() {
	s.dirty = false
}

func (s *SpriteRenderer) ResolveAssets(p *assets.Pool) error {
	if err := p.ResolveSprite(&s.Sprite); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

func (s *SpriteRenderer) Properties() []ecs.Property {
	return []ecs.Property{
		ecs.Vec4Prop("color", func() common.Vec4 { return s.Color }, s.SetColor),
	}
}
