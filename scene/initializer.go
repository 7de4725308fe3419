package scene

import (
	"bytes"
	"context"
	"fmt"

	"github.com/milk9111/forge2d/assets"
	"github.com/milk9111/forge2d/levels"
	"github.com/milk9111/forge2d/logging"
	"go.uber.org/zap"
)

// SheetSpec slices a texture into a spritesheet registered under Path.
type SheetSpec struct {
	Path    string
	Width   int
	Height  int
	Count   int
	Spacing int
}

// LevelInitializer fills a runtime scene from a saved scene document.
type LevelInitializer struct {
	Level    string
	Textures []string
	Sheets   []SheetSpec

	read func(name string) ([]byte, error)
	log  *zap.Logger
}

// NewLevelInitializer reads level through read, or from the levels package
// when read is nil.
func NewLevelInitializer(level string, read func(name string) ([]byte, error), log *zap.Logger) *LevelInitializer {
	if read == nil {
		read = levels.Read
	}
	return &LevelInitializer{
		Level: level,
		read:  read,
		log:   logging.OrNop(log).Named("level"),
	}
}

func (l *LevelInitializer) LoadResources(p *assets.Pool) {
	if len(l.Textures) > 0 {
		if err := p.Preload(context.Background(), l.Textures...); err != nil {
			l.log.Warn("preload failed", zap.Strings("textures", l.Textures), zap.Error(err))
		}
	}
	for _, spec := range l.Sheets {
		tex := p.TextureOrPlaceholder(spec.Path)
		sheet, err := assets.NewSpritesheet(tex, spec.Width, spec.Height, spec.Count, spec.Spacing)
		if err != nil {
			l.log.Warn("spritesheet skipped", zap.String("path", spec.Path), zap.Error(err))
			continue
		}
		p.AddSpritesheet(spec.Path, sheet)
	}
}

// Init loads the level document. A level that does not exist yet leaves the
// scene empty.
func (l *LevelInitializer) Init(s *Scene) error {
	data, err := l.read(l.Level)
	if levels.IsNotExist(err) {
		l.log.Info("level not found, starting empty", zap.String("level", l.Level))
		return nil
	}
	if err != nil {
		return fmt.Errorf("scene: init %s: %w", l.Level, err)
	}
	if err := s.Load(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("scene: init %s: %w", l.Level, err)
	}
	return nil
}
