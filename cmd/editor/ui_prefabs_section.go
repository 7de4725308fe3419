package main

import (
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// PrefabPalette lists the prefab specs a user can place.
type PrefabPalette struct {
	list     *widget.List
	entries  []any
	suppress bool
}

func (p *PrefabPalette) SetPrefabs(prefabs []PrefabInfo) {
	p.suppress = true
	p.entries = make([]any, 0, len(prefabs))
	for _, pi := range prefabs {
		p.entries = append(p.entries, pi)
	}
	p.list.SetEntries(p.entries)
	p.suppress = false
}

// Selected returns the highlighted prefab, if any.
func (p *PrefabPalette) Selected() (PrefabInfo, bool) {
	pi, ok := p.list.SelectedEntry().(PrefabInfo)
	return pi, ok
}

func addPrefabsSection(parent *widget.Container, theme *widget.Theme, fontFace *text.Face, onPrefabSelected func(prefab PrefabInfo)) *PrefabPalette {
	palette := &PrefabPalette{}
	parent.AddChild(newLabel("Prefabs", fontFace, headerLabel))

	palette.list = widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if prefab, ok := e.(PrefabInfo); ok {
				return prefab.Name
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			if palette.suppress || onPrefabSelected == nil {
				return
			}
			if prefab, ok := args.Entry.(PrefabInfo); ok {
				onPrefabSelected(prefab)
			}
		}),
	)
	palette.list.GetWidget().MinHeight = 140
	parent.AddChild(palette.list)

	// The list only reports changes, so placing the same prefab again goes
	// through this button.
	parent.AddChild(newButton(theme, fontFace, "Place again", 120, func() {
		if prefab, ok := palette.Selected(); ok && onPrefabSelected != nil {
			onPrefabSelected(prefab)
		}
	}))
	return palette
}
