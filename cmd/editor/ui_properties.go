package main

import (
	"fmt"
	"strings"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/forge2d/ecs"
	"github.com/milk9111/forge2d/editor"
	"go.uber.org/zap"
)

// propertyField is one editable row. shown is the text last written into
// the widget, so a value changed elsewhere (a gizmo drag) only overwrites
// the field while the user has not typed into it.
type propertyField struct {
	prop  ecs.Property
	input *widget.TextInput
	btn   *widget.Button
	shown string
}

func (f *propertyField) sync() {
	cur := f.prop.Format()
	if cur == f.shown {
		return
	}
	switch {
	case f.btn != nil:
		if t := f.btn.Text(); t != nil {
			t.Label = cur
		}
	case f.input != nil:
		if f.input.GetText() != f.shown {
			return
		}
		f.input.SetText(cur)
	}
	f.shown = cur
}

// PropertiesPanel is the inspector for the single selected object.
type PropertiesPanel struct {
	container *widget.Container
	form      *widget.Container
	theme     *widget.Theme
	face      *text.Face
	fields    []*propertyField
	shown     string
	log       *zap.Logger
}

func addPropertiesSection(parent *widget.Container, theme *widget.Theme, fontFace *text.Face, current func() *editor.Editor, log *zap.Logger) *PropertiesPanel {
	pp := &PropertiesPanel{container: parent, theme: theme, face: fontFace, log: log}
	parent.AddChild(newLabel("Properties", fontFace, headerLabel))

	pp.form = widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(4),
			),
		),
	)
	parent.AddChild(pp.form)

	parent.AddChild(newLabel("Add component", fontFace, headerLabel))
	add := func(label string, fn func(p *editor.PropertiesWindow) bool) *widget.Button {
		return newButton(theme, fontFace, label, 104, func() {
			ed := current()
			if ed == nil {
				return
			}
			if !fn(ed.Context.Properties) {
				log.Info("component not added", zap.String("component", label))
			}
		})
	}
	row := newRow(6)
	row.AddChild(add("Rigid body", (*editor.PropertiesWindow).AddRigidBody))
	row.AddChild(add("Box", (*editor.PropertiesWindow).AddBoxCollider))
	parent.AddChild(row)
	row = newRow(6)
	row.AddChild(add("Circle", (*editor.PropertiesWindow).AddCircleCollider))
	row.AddChild(add("Pillbox", (*editor.PropertiesWindow).AddPillboxCollider))
	parent.AddChild(row)
	pp.rebuild(nil, nil)
	return pp
}

// Refresh rebuilds the form when the inspected object or its components
// changed, and otherwise pulls current values into the fields.
func (pp *PropertiesPanel) Refresh(ed *editor.Editor) {
	var sections []editor.Section
	var g *ecs.GameObject
	if ed != nil {
		g = ed.Context.Properties.ActiveGameObject()
		sections = ed.Context.Properties.Inspect()
	}
	sig := inspectorSignature(g, sections)
	if sig != pp.shown {
		pp.shown = sig
		pp.rebuild(g, sections)
		return
	}
	for _, f := range pp.fields {
		f.sync()
	}
}

func (pp *PropertiesPanel) rebuild(g *ecs.GameObject, sections []editor.Section) {
	pp.form.RemoveChildren()
	pp.fields = pp.fields[:0]
	if g == nil {
		pp.form.AddChild(newLabel("Nothing selected", pp.face, labelColor))
		pp.container.RequestRelayout()
		return
	}

	pp.form.AddChild(newLabel("Name", pp.face, labelColor))
	name := newTextInput(pp.face, panelWidth-16, func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			g.Name = s
		}
	})
	name.SetText(g.Name)
	pp.form.AddChild(name)

	for _, sec := range sections {
		pp.form.AddChild(newLabel(fmt.Sprintf("%s #%d", sec.Component, sec.UID), pp.face, headerLabel))
		for _, prop := range sec.Properties {
			pp.form.AddChild(pp.field(prop))
		}
	}
	pp.container.RequestRelayout()
}

func (pp *PropertiesPanel) field(prop ecs.Property) *widget.Container {
	row := newRow(6)
	row.AddChild(newLabel(prop.Name, pp.face, labelColor))

	f := &propertyField{prop: prop, shown: prop.Format()}
	switch prop.Kind {
	case ecs.PropBool:
		f.btn = newButton(pp.theme, pp.face, f.shown, 70, func() {
			cur, _ := prop.Get().(bool)
			if err := prop.Set(!cur); err != nil {
				pp.log.Warn("property not set", zap.String("property", prop.Name), zap.Error(err))
			}
		})
		row.AddChild(f.btn)
	case ecs.PropEnum:
		f.btn = newButton(pp.theme, pp.face, f.shown, 100, func() {
			cur, _ := prop.Get().(int)
			if err := prop.Set(nextOption(cur, len(prop.Options))); err != nil {
				pp.log.Warn("property not set", zap.String("property", prop.Name), zap.Error(err))
			}
		})
		row.AddChild(f.btn)
	default:
		f.input = newTextInput(pp.face, 130, func(s string) {
			if err := prop.SetString(s); err != nil {
				pp.log.Warn("property not set", zap.String("property", prop.Name), zap.Error(err))
			}
			f.shown = prop.Format()
			f.input.SetText(f.shown)
		})
		f.input.SetText(f.shown)
		row.AddChild(f.input)
	}
	pp.fields = append(pp.fields, f)
	return row
}

func nextOption(cur, n int) int {
	if n <= 0 {
		return 0
	}
	return (cur + 1) % n
}

// inspectorSignature changes whenever the set of rows would change.
func inspectorSignature(g *ecs.GameObject, sections []editor.Section) string {
	if g == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d", g.UID())
	for _, sec := range sections {
		fmt.Fprintf(&b, "|%s#%d:%d", sec.Component, sec.UID, len(sec.Properties))
	}
	return b.String()
}
