package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/milk9111/forge2d/logging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Kind string

const (
	KindTexture     Kind = "texture"
	KindShader      Kind = "shader"
	KindSound       Kind = "sound"
	KindSpritesheet Kind = "spritesheet"
)

var ErrAssetMissing = errors.New("asset missing")

// MissingError is returned when an asset cannot be found. It matches
// ErrAssetMissing under errors.Is.
type MissingError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *MissingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("assets: %s %s: %v", e.Kind, e.Path, ErrAssetMissing)
	}
	return fmt.Sprintf("assets: %s %s: %v: %v", e.Kind, e.Path, ErrAssetMissing, e.Err)
}

func (e *MissingError) Is(target error) bool {
	return target == ErrAssetMissing
}

func (e *MissingError) Unwrap() error {
	return e.Err
}

type fileReader interface {
	ReadFile(path string) ([]byte, error)
}

type fsReader struct {
	fsys fs.FS
}

func (r fsReader) ReadFile(path string) ([]byte, error) {
	return fs.ReadFile(r.fsys, filepath.ToSlash(path))
}

// Pool caches assets by resolved absolute path. Asking twice for the same
// path returns the same handle.
type Pool struct {
	mu       sync.Mutex
	files    fileReader
	textures map[string]*Texture
	shaders  map[string]*Shader
	sounds   map[string]*Sound
	sheets   map[string]*Spritesheet

	placeholder *Texture
	log         *zap.Logger
}

// NewPool reads from fsys. A nil fsys reads from disk with the embedded
// engine art as fallback.
func NewPool(fsys fs.FS, log *zap.Logger) *Pool {
	var files fileReader = diskOrEmbedded{embedded: assetsFS}
	if fsys != nil {
		files = fsReader{fsys: fsys}
	}
	return &Pool{
		files:       files,
		textures:    make(map[string]*Texture),
		shaders:     make(map[string]*Shader),
		sounds:      make(map[string]*Sound),
		sheets:      make(map[string]*Spritesheet),
		placeholder: NewTexture("placeholder", placeholderImage()),
		log:         logging.OrNop(log).Named("assets"),
	}
}

func resolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func (p *Pool) Texture(path string) (*Texture, error) {
	key := resolvePath(path)
	p.mu.Lock()
	if t, ok := p.textures[key]; ok {
		p.mu.Unlock()
		return t, nil
	}
	p.mu.Unlock()

	img, err := p.decodeImage(path)
	if err != nil {
		return nil, err
	}
	return p.storeTexture(key, NewTexture(path, img)), nil
}

func (p *Pool) decodeImage(path string) (image.Image, error) {
	data, err := p.files.ReadFile(path)
	if err != nil {
		return nil, &MissingError{Kind: KindTexture, Path: path, Err: err}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("assets: decode texture %s: %w", path, err)
	}
	return img, nil
}

func (p *Pool) storeTexture(key string, t *Texture) *Texture {
	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.textures[key]; ok {
		return existing
	}
	p.textures[key] = t
	p.log.Debug("texture loaded", zap.String("path", t.Path), zap.Int("width", t.Width), zap.Int("height", t.Height))
	return t
}

// TextureOrPlaceholder logs a missing texture and substitutes the
// placeholder checkerboard.
func (p *Pool) TextureOrPlaceholder(path string) *Texture {
	t, err := p.Texture(path)
	if err != nil {
		p.log.Warn("texture unavailable, using placeholder", zap.String("path", path), zap.Error(err))
		return p.placeholder
	}
	return t
}

func (p *Pool) Placeholder() *Texture {
	return p.placeholder
}

// ResolveSprite swaps a path-only texture (as decoded from a saved scene)
// for the pooled one.
func (p *Pool) ResolveSprite(s *Sprite) error {
	if s == nil || s.Texture == nil || s.Texture.Resolved() {
		return nil
	}
	if s.Texture.Path == "" {
		s.Texture = nil
		return nil
	}
	t, err := p.Texture(s.Texture.Path)
	if err != nil {
		return err
	}
	s.Texture = t
	return nil
}

func (p *Pool) Shader(path string) (*Shader, error) {
	key := resolvePath(path)
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.shaders[key]; ok {
		return s, nil
	}
	data, err := p.files.ReadFile(path)
	if err != nil {
		return nil, &MissingError{Kind: KindShader, Path: path, Err: err}
	}
	s := &Shader{Handle: HandleFor(key), Path: path, Source: data}
	p.shaders[key] = s
	return s, nil
}

func (p *Pool) Sound(path string) (*Sound, error) {
	key := resolvePath(path)
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sounds[key]; ok {
		return s, nil
	}
	data, err := p.files.ReadFile(path)
	if err != nil {
		return nil, &MissingError{Kind: KindSound, Path: path, Err: err}
	}
	s := &Sound{Handle: HandleFor(key), Path: path, Data: data}
	p.sounds[key] = s
	return s, nil
}

// AddSpritesheet registers sheet under path unless one is already present.
func (p *Pool) AddSpritesheet(path string, sheet *Spritesheet) {
	key := resolvePath(path)
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.sheets[key]; !ok {
		p.sheets[key] = sheet
	}
}

func (p *Pool) Spritesheet(path string) (*Spritesheet, error) {
	key := resolvePath(path)
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sheets[key]; ok {
		return s, nil
	}
	return nil, &MissingError{Kind: KindSpritesheet, Path: path}
}

// Preload decodes the given textures concurrently and caches them. Paths
// already cached are skipped.
func (p *Pool) Preload(ctx context.Context, paths ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	decoded := make([]image.Image, len(paths))
	for i, path := range paths {
		p.mu.Lock()
		_, cached := p.textures[resolvePath(path)]
		p.mu.Unlock()
		if cached {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := p.decodeImage(path)
			if err != nil {
				return err
			}
			decoded[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, img := range decoded {
		if img == nil {
			continue
		}
		p.storeTexture(resolvePath(paths[i]), NewTexture(paths[i], img))
	}
	return nil
}
