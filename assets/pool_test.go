package assets

import (
	"context"
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/milk9111/forge2d/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool(t *testing.T) *Pool {
	t.Helper()
	blocks, err := assetsFS.ReadFile("blocks.png")
	require.NoError(t, err)
	hero, err := assetsFS.ReadFile("hero.png")
	require.NoError(t, err)
	return NewPool(fstest.MapFS{
		"images/blocks.png":   {Data: blocks},
		"images/hero.png":     {Data: hero},
		"images/broken.png":   {Data: []byte("not a png")},
		"shaders/sprite.kage": {Data: []byte("package main")},
		"sounds/jump.wav":     {Data: []byte("RIFF")},
	}, nil)
}

func TestTextureIsCachedByPath(t *testing.T) {
	p := testPool(t)

	a, err := p.Texture("images/blocks.png")
	require.NoError(t, err)
	b, err := p.Texture("images/../images/blocks.png")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 64, a.Width)
	assert.Equal(t, 16, a.Height)
	assert.NotZero(t, a.Handle)
}

func TestMissingAssetsAreTyped(t *testing.T) {
	p := testPool(t)

	cases := []struct {
		name string
		load func() error
		kind Kind
	}{
		{"texture", func() error { _, err := p.Texture("images/none.png"); return err }, KindTexture},
		{"shader", func() error { _, err := p.Shader("shaders/none.kage"); return err }, KindShader},
		{"sound", func() error { _, err := p.Sound("sounds/none.wav"); return err }, KindSound},
		{"sheet", func() error { _, err := p.Spritesheet("images/none.png"); return err }, KindSpritesheet},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.load()
			require.ErrorIs(t, err, ErrAssetMissing)
			var me *MissingError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, c.kind, me.Kind)
		})
	}
}

func TestCorruptTextureIsNotMissing(t *testing.T) {
	p := testPool(t)
	_, err := p.Texture("images/broken.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAssetMissing)
}

func TestTextureOrPlaceholder(t *testing.T) {
	p := testPool(t)
	assert.Same(t, p.Placeholder(), p.TextureOrPlaceholder("images/none.png"))
}

func TestShaderAndSoundCached(t *testing.T) {
	p := testPool(t)
	s1, err := p.Shader("shaders/sprite.kage")
	require.NoError(t, err)
	s2, err := p.Shader("shaders/sprite.kage")
	require.NoError(t, err)
	assert.Same(t, s1, s2)

	w1, err := p.Sound("sounds/jump.wav")
	require.NoError(t, err)
	w2, err := p.Sound("sounds/jump.wav")
	require.NoError(t, err)
	assert.Same(t, w1, w2)
}

func TestPreloadFillsCache(t *testing.T) {
	p := testPool(t)
	require.NoError(t, p.Preload(context.Background(), "images/blocks.png", "images/hero.png"))

	p.files = fsReader{}
	_, err := p.Texture("images/hero.png")
	assert.NoError(t, err)
}

func TestPreloadReportsMissing(t *testing.T) {
	p := testPool(t)
	err := p.Preload(context.Background(), "images/blocks.png", "images/none.png")
	assert.ErrorIs(t, err, ErrAssetMissing)
}

func TestSpritesheetSlicing(t *testing.T) {
	p := testPool(t)
	tex, err := p.Texture("images/blocks.png")
	require.NoError(t, err)

	sheet, err := NewSpritesheet(tex, 16, 16, 4, 0)
	require.NoError(t, err)
	require.Equal(t, 4, sheet.Len())

	second, ok := sheet.Sprite(1)
	require.True(t, ok)
	assert.Equal(t, [4]common.Vec2{
		common.V2(0.5, 0), common.V2(0.5, 1), common.V2(0.25, 1), common.V2(0.25, 0),
	}, second.TexCoords)

	_, err = NewSpritesheet(tex, 16, 16, 5, 0)
	assert.Error(t, err)

	p.AddSpritesheet("images/blocks.png", sheet)
	got, err := p.Spritesheet("images/blocks.png")
	require.NoError(t, err)
	assert.Same(t, sheet, got)
}

func TestSpriteJSONStoresTexturePath(t *testing.T) {
	p := testPool(t)
	tex, err := p.Texture("images/hero.png")
	require.NoError(t, err)

	data, err := json.Marshal(NewSprite(tex))
	require.NoError(t, err)

	var s Sprite
	require.NoError(t, json.Unmarshal(data, &s))
	require.NotNil(t, s.Texture)
	assert.False(t, s.Texture.Resolved())
	assert.Equal(t, "images/hero.png", s.Texture.Path)

	require.NoError(t, p.ResolveSprite(&s))
	assert.Same(t, tex, s.Texture)
}
