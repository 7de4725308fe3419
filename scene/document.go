package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/milk9111/forge2d/assets"
	"github.com/milk9111/forge2d/ecs"
	"go.uber.org/zap"
)

// Document is the persisted form of a scene.
type Document struct {
	ID      uuid.UUID          `json:"id"`
	Objects []ecs.ObjectRecord `json:"objects"`
}

// AssetResolver is implemented by components that hold asset references
// which must be swapped for pooled handles after decoding.
type AssetResolver interface {
	ResolveAssets(p *assets.Pool) error
}

// Document encodes every serializable live object.
func (s *Scene) Document() (Document, error) {
	doc := Document{ID: s.ID}
	for _, g := range s.objects {
		if !g.Serializable() || g.IsDead() {
			continue
		}
		rec, err := s.registry.EncodeObject(g)
		if err != nil {
			return Document{}, fmt.Errorf("scene: encode %s: %w", g, err)
		}
		doc.Objects = append(doc.Objects, rec)
	}
	return doc, nil
}

func (s *Scene) Save(w io.Writer) error {
	doc, err := s.Document()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("scene: save: %w", err)
	}
	return nil
}

// SaveFile writes the scene to path, creating parent directories.
func (s *Scene) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("scene: save %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("scene: save %s: %w", path, err)
	}
	if err := s.Save(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("scene: save %s: %w", path, err)
	}
	s.log.Info("scene saved", zap.String("path", path))
	return nil
}

// Load decodes a document and adds its objects to the scene. Every object is
// decoded before any is added, so a bad component aborts the whole load and
// leaves the scene untouched. Id counters are raised past the document's ids
// and the loaded objects get fresh ones.
func (s *Scene) Load(r io.Reader) error {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("scene: load: %w", err)
	}
	objects, err := s.Instantiate(doc.Objects)
	if err != nil {
		return fmt.Errorf("scene: load: %w", err)
	}

	if doc.ID != uuid.Nil {
		s.ID = doc.ID
	}
	for _, g := range objects {
		s.AddGameObject(g)
	}
	s.log.Debug("scene loaded", zap.Stringer("id", s.ID), zap.Int("objects", len(objects)))
	return nil
}

// Instantiate materializes recs with fresh ids and pooled assets without
// adding them to the scene. Id counters are raised past the records' ids
// first, and nothing is returned unless every record decodes.
func (s *Scene) Instantiate(recs []ecs.ObjectRecord) ([]*ecs.GameObject, error) {
	ecs.IDs.Reserve(ecs.MaxUIDs(recs))

	objects := make([]*ecs.GameObject, 0, len(recs))
	for _, rec := range recs {
		g, err := s.registry.DecodeObject(rec)
		if err != nil {
			return nil, err
		}
		objects = append(objects, g)
	}
	for _, g := range objects {
		if err := s.resolveAssets(g); err != nil {
			return nil, fmt.Errorf("%s: %w", g, err)
		}
	}
	return objects, nil
}

// Clone copies g through the registry and re-links its assets. The copy is
// not added to the scene.
func (s *Scene) Clone(g *ecs.GameObject) (*ecs.GameObject, error) {
	rec, err := s.registry.EncodeObject(g)
	if err != nil {
		return nil, fmt.Errorf("scene: clone %s: %w", g, err)
	}
	out, err := s.Instantiate([]ecs.ObjectRecord{rec})
	if err != nil {
		return nil, fmt.Errorf("scene: clone %s: %w", g, err)
	}
	return out[0], nil
}

// resolveAssets re-links decoded asset paths. A missing file is logged and
// leaves the path in place so the scene can still be saved.
func (s *Scene) resolveAssets(g *ecs.GameObject) error {
	for _, r := range ecs.All[AssetResolver](g) {
		err := r.ResolveAssets(s.assets)
		if errors.Is(err, assets.ErrAssetMissing) {
			s.log.Warn("asset missing", zap.String("object", g.String()), zap.Error(err))
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("scene: load %s: %w", path, err)
	}
	defer f.Close()
	return s.Load(f)
}
