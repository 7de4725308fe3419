package assets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/milk9111/forge2d/common"
)

// Handle identifies a loaded asset by the hash of its absolute path.
type Handle uint64

func HandleFor(absPath string) Handle {
	return Handle(xxhash.Sum64String(absPath))
}

// Texture is decoded image data. The GPU image is created on first use so
// textures can be loaded before the game loop starts.
type Texture struct {
	Handle Handle
	Path   string
	Width  int
	Height int

	src image.Image
	img *ebiten.Image
}

func NewTexture(path string, src image.Image) *Texture {
	b := src.Bounds()
	return &Texture{
		Handle: HandleFor(resolvePath(path)),
		Path:   path,
		Width:  b.Dx(),
		Height: b.Dy(),
		src:    src,
	}
}

// Resolved reports whether the texture carries image data. Textures decoded
// from a saved scene only hold a path until a Pool resolves them.
func (t *Texture) Resolved() bool {
	return t != nil && (t.src != nil || t.img != nil)
}

func (t *Texture) Source() image.Image {
	if t == nil {
		return nil
	}
	return t.src
}

func (t *Texture) Image() *ebiten.Image {
	if t == nil {
		return nil
	}
	if t.img == nil && t.src != nil {
		t.img = ebiten.NewImageFromImage(t.src)
	}
	return t.img
}

func (t *Texture) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Path)
}

func (t *Texture) UnmarshalJSON(data []byte) error {
	var path string
	if err := json.Unmarshal(data, &path); err != nil {
		return err
	}
	t.Path = path
	t.Handle = HandleFor(resolvePath(path))
	return nil
}

func placeholderImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	magenta := color.RGBA{R: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}
	img.Set(0, 0, magenta)
	img.Set(1, 1, magenta)
	img.Set(1, 0, black)
	img.Set(0, 1, black)
	return img
}

// Sprite is a texture region plus its world size.
type Sprite struct {
	Texture   *Texture       `json:"texture,omitempty"`
	TexCoords [4]common.Vec2 `json:"texCoords"`
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
}

// DefaultTexCoords maps the whole texture onto a quad whose corners are
// ordered top-right, bottom-right, bottom-left, top-left. V grows downward.
func DefaultTexCoords() [4]common.Vec2 {
	return [4]common.Vec2{
		common.V2(1, 0),
		common.V2(1, 1),
		common.V2(0, 1),
		common.V2(0, 0),
	}
}

func NewSprite(tex *Texture) Sprite {
	s := Sprite{Texture: tex, TexCoords: DefaultTexCoords()}
	if tex != nil {
		s.Width = float64(tex.Width)
		s.Height = float64(tex.Height)
	}
	return s
}

// Spritesheet slices a texture into equally sized sprites, left to right and
// top to bottom.
type Spritesheet struct {
	Texture *Texture
	Sprites []Sprite
}

func NewSpritesheet(tex *Texture, spriteWidth, spriteHeight, count, spacing int) (*Spritesheet, error) {
	if tex == nil {
		return nil, fmt.Errorf("assets: spritesheet: nil texture")
	}
	if spriteWidth <= 0 || spriteHeight <= 0 {
		return nil, fmt.Errorf("assets: spritesheet %s: bad sprite size %dx%d", tex.Path, spriteWidth, spriteHeight)
	}

	sheet := &Spritesheet{Texture: tex}
	w, h := float64(tex.Width), float64(tex.Height)
	x, y := 0, 0
	for i := 0; i < count; i++ {
		if y+spriteHeight > tex.Height {
			return nil, fmt.Errorf("assets: spritesheet %s: %d sprites do not fit", tex.Path, count)
		}
		left := float64(x) / w
		right := float64(x+spriteWidth) / w
		top := float64(y) / h
		bottom := float64(y+spriteHeight) / h
		sheet.Sprites = append(sheet.Sprites, Sprite{
			Texture: tex,
			TexCoords: [4]common.Vec2{
				common.V2(right, top),
				common.V2(right, bottom),
				common.V2(left, bottom),
				common.V2(left, top),
			},
			Width:  float64(spriteWidth),
			Height: float64(spriteHeight),
		})

		x += spriteWidth + spacing
		if x+spriteWidth > tex.Width {
			x = 0
			y += spriteHeight + spacing
		}
	}
	return sheet, nil
}

func (s *Spritesheet) Sprite(i int) (Sprite, bool) {
	if s == nil || i < 0 || i >= len(s.Sprites) {
		return Sprite{}, false
	}
	return s.Sprites[i], true
}

func (s *Spritesheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Sprites)
}

// Shader is Kage source compiled on first use.
type Shader struct {
	Handle Handle
	Path   string
	Source []byte

	compiled *ebiten.Shader
}

func (s *Shader) Compile() (*ebiten.Shader, error) {
	if s == nil {
		return nil, fmt.Errorf("assets: nil shader")
	}
	if s.compiled != nil {
		return s.compiled, nil
	}
	sh, err := ebiten.NewShader(s.Source)
	if err != nil {
		return nil, fmt.Errorf("assets: compile shader %s: %w", s.Path, err)
	}
	s.compiled = sh
	return sh, nil
}

// Sound holds encoded audio bytes.
type Sound struct {
	Handle Handle
	Path   string
	Data   []byte
}

// Player decodes the sound for ctx. WAV files are resampled to the context
// rate; anything else is treated as raw PCM.
func (s *Sound) Player(ctx *audio.Context) (*audio.Player, error) {
	if s == nil || ctx == nil {
		return nil, fmt.Errorf("assets: sound player: nil sound or context")
	}
	if strings.HasSuffix(strings.ToLower(s.Path), ".wav") {
		stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(s.Data))
		if err != nil {
			return nil, fmt.Errorf("assets: decode wav %q: %w", s.Path, err)
		}
		return ctx.NewPlayer(stream)
	}
	return ctx.NewPlayerFromBytes(s.Data), nil
}
