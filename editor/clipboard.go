package editor

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/forge2d/common"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/logging"
	"github.com/milk9111/forge2d/scene"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
)

var ErrClipboardEmpty = errors.New("editor: clipboard empty")

// pasteOffset shifts pasted objects so they do not hide the originals.
var pasteOffset = common.V2(0.25, -0.25)

// Clipboard copies objects as a scene document. It uses the system
// clipboard when one is available and keeps an in-process copy either way.
type Clipboard struct {
	system bool
	local  []byte
	log    *zap.Logger
}

// NewClipboard tries to attach to the system clipboard.
func NewClipboard(log *zap.Logger) *Clipboard {
	log = logging.OrNop(log)
	c := &Clipboard{log: log}
	if err := clipboard.Init(); err != nil {
		log.Warn("system clipboard unavailable", zap.Error(err))
		return c
	}
	c.system = true
	return c
}

// NewLocalClipboard never touches the system clipboard.
func NewLocalClipboard(log *zap.Logger) *Clipboard {
	return &Clipboard{log: logging.OrNop(log)}
}

// Copy encodes objs and stores the document.
func (c *Clipboard) Copy(s *scene.Scene, objs []*ecs.GameObject) error {
	doc := scene.Document{}
	for _, g := range objs {
		if g == nil || g.IsDead() || !g.Serializable() {
			continue
		}
		rec, err := s.Registry().EncodeObject(g)
		if err != nil {
			return fmt.Errorf("editor: copy %s: %w", g, err)
		}
		doc.Objects = append(doc.Objects, rec)
	}
	if len(doc.Objects) == 0 {
		return nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("editor: copy: %w", err)
	}
	c.local = data
	if c.system {
		clipboard.Write(clipboard.FmtText, data)
	}
	c.log.Debug("copied", zap.Int("objects", len(doc.Objects)))
	return nil
}

// read prefers the system clipboard when it holds a document.
func (c *Clipboard) read() []byte {
	if c.system {
		if data := clipboard.Read(clipboard.FmtText); json.Valid(data) {
			return data
		}
	}
	return c.local
}

// Paste adds fresh copies of the stored objects to s, shifted by
// pasteOffset, and returns them.
func (c *Clipboard) Paste(s *scene.Scene) ([]*ecs.GameObject, error) {
	data := c.read()
	if len(data) == 0 {
		return nil, ErrClipboardEmpty
	}
	var doc scene.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("editor: paste: %w", err)
	}
	objs, err := s.Instantiate(doc.Objects)
	if err != nil {
		return nil, fmt.Errorf("editor: paste: %w", err)
	}
	for _, g := range objs {
		t := g.Transform()
		t.Position = t.Position.Add(pasteOffset)
		s.AddGameObject(g)
	}
	return objs, nil
}

// KeyControls binds the clipboard and deletion to the keyboard: ctrl+C,
// ctrl+V, ctrl+D duplicates, Delete removes the selection.
type KeyControls struct {
	ecs.Base
	ctx       *Context
	clipboard *Clipboard
	hierarchy *SceneHierarchy
}

func NewKeyControls(ctx *Context, cb *Clipboard) *KeyControls {
	return &KeyControls{
		ctx:       ctx,
		clipboard: cb,
		hierarchy: NewSceneHierarchy(ctx.Scene, ctx.Properties),
	}
}

func (k *KeyControls) TypeName() string {
	return "KeyControls"
}

func (k *KeyControls) EditorUpdate(float64) {
	in := k.ctx.Input()
	ctrl := in.AnyPressed(ebiten.KeyControlLeft, ebiten.KeyControlRight, ebiten.KeyMetaLeft, ebiten.KeyMetaRight)
	switch {
	case ctrl && in.KeyJustPressed(ebiten.KeyC):
		k.copy()
	case ctrl && in.KeyJustPressed(ebiten.KeyV):
		k.paste()
	case ctrl && in.KeyJustPressed(ebiten.KeyD):
		k.copy()
		k.paste()
	case in.KeyJustPressed(ebiten.KeyDelete):
		k.hierarchy.Delete()
	}
}

// copy stores the selection with the sprites' own colors rather than the
// selection highlight.
func (k *KeyControls) copy() {
	props := k.ctx.Properties
	objs := props.ActiveGameObjects()
	props.ClearSelected()
	err := k.clipboard.Copy(k.ctx.Scene, objs)
	for _, g := range objs {
		props.AddActiveGameObject(g)
	}
	if err != nil {
		k.ctx.Log().Warn("copy", zap.Error(err))
	}
}

func (k *KeyControls) paste() {
	objs, err := k.clipboard.Paste(k.ctx.Scene)
	if err != nil {
		if !errors.Is(err, ErrClipboardEmpty) {
			k.ctx.Log().Warn("paste", zap.Error(err))
		}
		return
	}
	props := k.ctx.Properties
	props.ClearSelected()
	for _, g := range objs {
		props.AddActiveGameObject(g)
	}
}
