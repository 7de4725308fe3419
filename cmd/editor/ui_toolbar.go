package main

import (
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/forge2d/editor"
)

// Tool names a gizmo selectable from the toolbar.
type Tool int

const (
	ToolMove Tool = iota
	ToolScale
)

// ToolBar holds the play controls and the gizmo radio group.
type ToolBar struct {
	group    *widget.RadioGroup
	buttons  []*widget.Button
	play     *widget.Button
	stop     *widget.Button
	save     *widget.Button
	suppress bool
}

type toolBarActions struct {
	Play, Stop, Save func()
	Tool             func(tool Tool)
}

func buildToolBar(theme *widget.Theme, fontFace *text.Face, actions toolBarActions) (*widget.Container, *ToolBar) {
	tb := &ToolBar{}
	toolbar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(420, 40),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 4, Bottom: 4, Left: 8, Right: 8}),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelColor)),
	)

	tb.play = newButton(theme, fontFace, "Play", 64, actions.Play)
	tb.stop = newButton(theme, fontFace, "Stop", 64, actions.Stop)
	tb.save = newButton(theme, fontFace, "Save", 64, actions.Save)
	toolbar.AddChild(tb.play)
	toolbar.AddChild(tb.stop)
	toolbar.AddChild(tb.save)

	for _, name := range []string{"Move", "Scale"} {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(name, fontFace, buttonColors),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(64, 32),
			),
		)
		tb.buttons = append(tb.buttons, btn)
		toolbar.AddChild(btn)
	}

	elements := make([]widget.RadioGroupElement, 0, len(tb.buttons))
	for _, b := range tb.buttons {
		elements = append(elements, b)
	}
	tb.group = widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if tb.suppress || actions.Tool == nil {
				return
			}
			for idx, b := range tb.buttons {
				if args.Active == b {
					actions.Tool(Tool(idx))
					return
				}
			}
		}),
	)
	tb.group.SetActive(tb.buttons[ToolMove])
	return toolbar, tb
}

// Sync enables the controls that apply to the current mode and follows
// gizmo switches made from the keyboard.
func (tb *ToolBar) Sync(ed *editor.Editor, playing bool) {
	tb.play.GetWidget().Disabled = ed == nil
	tb.save.GetWidget().Disabled = ed == nil
	tb.stop.GetWidget().Disabled = !playing
	for _, b := range tb.buttons {
		b.GetWidget().Disabled = ed == nil
	}
	if ed == nil {
		return
	}
	tool := ToolMove
	if ed.Gizmos.Scale().Using() {
		tool = ToolScale
	}
	if tb.group.Active() != tb.buttons[tool] {
		tb.suppress = true
		tb.group.SetActive(tb.buttons[tool])
		tb.suppress = false
	}
}

// applyTool puts ed's gizmos on tool.
func applyTool(ed *editor.Editor, tool Tool) {
	if ed == nil {
		return
	}
	switch tool {
	case ToolScale:
		ed.Gizmos.Use(ed.Gizmos.Scale())
	default:
		ed.Gizmos.Use(ed.Gizmos.Translate())
	}
}
