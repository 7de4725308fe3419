package ecs

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownComponent = errors.New("unknown component type")

// DecodeError reports a persisted component that could not be materialized.
type DecodeError struct {
	Type string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ecs: decode component %q: %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Record is the persisted form of one component: its type tag plus its own
// JSON field set.
type Record struct {
	Type       string          `json:"type"`
	UID        int             `json:"uid,omitempty"`
	Properties json.RawMessage `json:"properties"`
}

// ObjectRecord is the persisted form of a GameObject.
type ObjectRecord struct {
	Name         string   `json:"name"`
	UID          int      `json:"uid"`
	Serializable bool     `json:"serializable"`
	Components   []Record `json:"components"`
}

type Factory func() Component

// Registry maps component type tags to factories.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(TransformType, func() Component { return NewTransform() })
	return r
}

// Register binds tag to factory. Registering a tag twice is a programming
// error and panics.
func (r *Registry) Register(tag string, factory Factory) {
	if _, exists := r.factories[tag]; exists {
		panic(fmt.Sprintf("ecs: component type %q registered twice", tag))
	}
	r.factories[tag] = factory
}

func (r *Registry) Known(tag string) bool {
	_, ok := r.factories[tag]
	return ok
}

// Types lists registered tags in sorted order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) New(tag string) (Component, error) {
	f, ok := r.factories[tag]
	if !ok {
		return nil, &DecodeError{Type: tag, Err: ErrUnknownComponent}
	}
	return f(), nil
}

func (r *Registry) Encode(c Component) (Record, error) {
	tag := c.TypeName()
	if !r.Known(tag) {
		return Record{}, fmt.Errorf("ecs: encode component %q: %w", tag, ErrUnknownComponent)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return Record{}, fmt.Errorf("ecs: encode component %q: %w", tag, err)
	}
	return Record{Type: tag, UID: c.UID(), Properties: data}, nil
}

// Decode builds a fresh component from rec. The result has no uid until it is
// attached to a GameObject.
func (r *Registry) Decode(rec Record) (Component, error) {
	c, err := r.New(rec.Type)
	if err != nil {
		return nil, err
	}
	if len(rec.Properties) > 0 {
		if err := json.Unmarshal(rec.Properties, c); err != nil {
			return nil, &DecodeError{Type: rec.Type, Err: err}
		}
	}
	return c, nil
}

func (r *Registry) EncodeObject(g *GameObject) (ObjectRecord, error) {
	rec := ObjectRecord{Name: g.Name, UID: g.uid, Serializable: g.serializable}
	for _, c := range g.components {
		cr, err := r.Encode(c)
		if err != nil {
			return ObjectRecord{}, err
		}
		rec.Components = append(rec.Components, cr)
	}
	return rec, nil
}

// DecodeObject materializes rec with fresh uids. Every component is decoded
// before anything is built, so a bad record never yields a partial object.
func (r *Registry) DecodeObject(rec ObjectRecord) (*GameObject, error) {
	decoded := make([]Component, 0, len(rec.Components))
	for _, cr := range rec.Components {
		c, err := r.Decode(cr)
		if err != nil {
			return nil, fmt.Errorf("ecs: decode object %q: %w", rec.Name, err)
		}
		decoded = append(decoded, c)
	}

	g := NewGameObject(rec.Name)
	g.serializable = rec.Serializable
	for _, c := range decoded {
		if t, ok := c.(*Transform); ok {
			t.CopyTo(g.transform)
			continue
		}
		g.attach(c)
	}
	return g, nil
}

// attach appends c without resolving requirements; persisted component
// lists are taken as authoritative.
func (g *GameObject) attach(c Component) {
	b := c.base()
	b.generateID()
	b.gameObject = g
	g.components = append(g.components, c)
}

// MaxUIDs returns the largest object and component uids found in recs.
func MaxUIDs(recs []ObjectRecord) (maxObject, maxComponent int) {
	for _, rec := range recs {
		maxObject = max(maxObject, rec.UID)
		for _, cr := range rec.Components {
			maxComponent = max(maxComponent, cr.UID)
		}
	}
	return maxObject, maxComponent
}
