package main

import (
	"fmt"
	"strings"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/forge2d/editor"
)

// HierarchyEntry is one list row of the scene hierarchy.
type HierarchyEntry struct {
	UID  int
	Name string
}

// HierarchyPanel mirrors editor.SceneHierarchy into a list widget.
type HierarchyPanel struct {
	list    *widget.List
	entries []any
	shown   string
	// suppressEvents keeps programmatic selection from reaching the editor.
	suppressEvents bool
}

func addHierarchySection(parent *widget.Container, theme *widget.Theme, fontFace *text.Face, current func() *editor.Editor) *HierarchyPanel {
	hp := &HierarchyPanel{}
	parent.AddChild(newLabel("Hierarchy", fontFace, headerLabel))

	hp.list = widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if entry, ok := e.(HierarchyEntry); ok {
				return fmt.Sprintf("%s #%d", entry.Name, entry.UID)
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			if hp.suppressEvents {
				return
			}
			entry, ok := args.Entry.(HierarchyEntry)
			if !ok {
				return
			}
			if ed := current(); ed != nil {
				ed.Hierarchy.Select(entry.UID)
			}
		}),
	)
	hp.list.GetWidget().MinHeight = 180
	parent.AddChild(hp.list)

	row := newRow(6)
	row.AddChild(newButton(theme, fontFace, "Delete", 80, func() {
		if ed := current(); ed != nil {
			ed.Hierarchy.Delete()
		}
	}))
	row.AddChild(newButton(theme, fontFace, "Reset view", 100, func() {
		if ed := current(); ed != nil {
			ed.Camera.Reset()
		}
	}))
	parent.AddChild(row)
	return hp
}

// Refresh rebuilds the rows when the scene's objects or the selection
// changed since the last call.
func (hp *HierarchyPanel) Refresh(ed *editor.Editor) {
	var nodes []editor.Node
	if ed != nil {
		nodes = ed.Hierarchy.Nodes()
	}
	sig := hierarchySignature(nodes)
	if sig == hp.shown {
		return
	}
	hp.shown = sig

	hp.suppressEvents = true
	defer func() { hp.suppressEvents = false }()

	hp.entries = make([]any, 0, len(nodes))
	selected := -1
	for i, n := range nodes {
		hp.entries = append(hp.entries, HierarchyEntry{UID: n.UID, Name: n.Name})
		if n.Selected && selected < 0 {
			selected = i
		}
	}
	hp.list.SetEntries(hp.entries)
	if selected >= 0 {
		hp.list.SetSelectedEntry(hp.entries[selected])
	}
}

// hierarchySignature identifies the rows and selection a node list renders
// to.
func hierarchySignature(nodes []editor.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		fmt.Fprintf(&b, "%d:%s", n.UID, n.Name)
		if n.Selected {
			b.WriteByte('*')
		}
		b.WriteByte(';')
	}
	return b.String()
}
