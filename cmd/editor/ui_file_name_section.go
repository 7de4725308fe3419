package main

import (
	"strings"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/forge2d/levels"
	"go.uber.org/zap"
)

// FileSection is the scene file field plus the list of known levels.
type FileSection struct {
	input    *widget.TextInput
	list     *widget.List
	suppress bool
}

// addFileNameSection adds the scene file field. Enter, Load or picking a
// level opens the named file.
func addFileNameSection(parent *widget.Container, theme *widget.Theme, fontFace *text.Face, onLoad func(path string)) *FileSection {
	fs := &FileSection{}
	parent.AddChild(newLabel("Scene file", fontFace, headerLabel))

	load := func(s string) {
		if s = strings.TrimSpace(s); s != "" && onLoad != nil {
			onLoad(s)
		}
	}
	fs.input = newTextInput(fontFace, panelWidth-16, load)
	parent.AddChild(fs.input)
	parent.AddChild(newButton(theme, fontFace, "Load", 80, func() {
		load(fs.input.GetText())
	}))

	fs.list = widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			s, _ := e.(string)
			return s
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			if fs.suppress {
				return
			}
			if name, ok := args.Entry.(string); ok {
				load(levelPath(name))
			}
		}),
	)
	fs.list.GetWidget().MinHeight = 80
	parent.AddChild(fs.list)
	return fs
}

func (fs *FileSection) SetFile(path string) {
	fs.input.SetText(path)
}

// ReloadLevels lists the shipped and on-disk levels.
func (fs *FileSection) ReloadLevels(log *zap.Logger) {
	names, err := levels.List()
	if err != nil {
		log.Warn("level list failed", zap.Error(err))
		return
	}
	entries := make([]any, 0, len(names))
	for _, n := range names {
		entries = append(entries, n)
	}
	fs.suppress = true
	fs.list.SetEntries(entries)
	fs.suppress = false
}
