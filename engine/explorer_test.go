package engine

import (
	"testing"

	"github.com/jesspatton/lazyfs/filesystem"
)

func TestExplorer_ClickRowTogglesDirectory(t *testing.T) {
	e := NewExplorer(DefaultOptions())
	e.SetTree(sampleTree())

	if len(e.Rows()) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(e.Rows()))
	}

	e.ClickRow(0)
	if !samePaths(rowPaths(e.Rows()), []string{"root/", "root/a.txt", "root/sub/", "top.md"}) {
		t.Errorf("Unexpected rows after expand: %v", rowPaths(e.Rows()))
	}

	e.ClickRow(0)
	if !samePaths(rowPaths(e.Rows()), []string{"root/", "top.md"}) {
		t.Errorf("Unexpected rows after collapse: %v", rowPaths(e.Rows()))
	}
}

func TestExplorer_ClickRowOpensFile(t *testing.T) {
	e := NewExplorer(DefaultOptions())
	e.SetTree([]*filesystem.Node{filesystem.NewDir("root", filesystem.NewFile("a.txt"))})

	var opened []string
	e.OnOpenFile = func(path string) { opened = append(opened, path) }

	e.ClickRow(0)
	e.ClickRow(1)

	if len(opened) != 1 || opened[0] != "root/a.txt" {
		t.Errorf("Expected [root/a.txt], got %v", opened)
	}
	if !e.Rows()[0].State.Expanded {
		t.Error("Expected root to stay expanded after file click")
	}
}

func TestExplorer_ClickActionDoesNotToggle(t *testing.T) {
	var calls []string
	opts := Options{
		DirectoryActions: []Action{{
			ID:      ActionCreateDirectory,
			Key:     "n",
			OnClick: func(path string) { calls = append(calls, path) },
		}},
		RootDirectoriesAreDeletable: true,
	}
	e := NewExplorer(opts)
	e.SetTree(sampleTree())

	if !e.ClickAction(0, 0) {
		t.Fatal("Expected action click to be handled")
	}

	if len(calls) != 1 || calls[0] != "root/" {
		t.Errorf("Expected one call with root/, got %v", calls)
	}
	if e.Rows()[0].State.Expanded {
		t.Error("Expected action click not to expand the directory")
	}
	if len(e.Rows()) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(e.Rows()))
	}
}

func TestExplorer_ClickActionOutOfRange(t *testing.T) {
	e := NewExplorer(DefaultOptions())
	e.SetTree(sampleTree())

	if e.ClickAction(0, 0) {
		t.Error("Expected no action at index 0")
	}
	if e.ClickAction(10, 0) {
		t.Error("Expected no row at index 10")
	}
}

func TestExplorer_TriggerKey(t *testing.T) {
	var deleted, uploaded []string
	opts := Options{
		DirectoryActions: []Action{
			{ID: ActionUpload, Key: "u", OnClick: func(p string) { uploaded = append(uploaded, p) }},
			{ID: ActionDelete, Key: "x", OnClick: func(p string) { deleted = append(deleted, p) }},
		},
		FileActions: []Action{
			{ID: ActionDelete, Key: "x", OnClick: func(p string) { deleted = append(deleted, p) }},
		},
		RootDirectoriesAreDeletable: false,
	}
	e := NewExplorer(opts)
	e.SetTree(sampleTree())

	if e.TriggerKey(0, "x") {
		t.Error("Expected delete to be unreachable on a protected root directory")
	}
	if !e.TriggerKey(0, "u") {
		t.Error("Expected upload on root directory")
	}
	if !e.TriggerKey(1, "x") {
		t.Error("Expected delete on root-level file")
	}
	if e.TriggerKey(1, "u") {
		t.Error("Expected no upload on a file")
	}

	if len(uploaded) != 1 || uploaded[0] != "root/" {
		t.Errorf("Expected upload of root/, got %v", uploaded)
	}
	if len(deleted) != 1 || deleted[0] != "top.md" {
		t.Errorf("Expected delete of top.md, got %v", deleted)
	}
}

func TestExplorer_HoverIsExclusive(t *testing.T) {
	e := NewExplorer(DefaultOptions())
	e.SetTree(sampleTree())

	e.Hover(0)
	if !e.Rows()[0].State.Hovered || e.Rows()[1].State.Hovered {
		t.Error("Expected only row 0 hovered")
	}
	if e.Hovered() != 0 {
		t.Errorf("Expected hovered index 0, got %d", e.Hovered())
	}

	e.Hover(1)
	if e.Rows()[0].State.Hovered || !e.Rows()[1].State.Hovered {
		t.Error("Expected only row 1 hovered")
	}

	e.Hover(-1)
	for _, r := range e.Rows() {
		if r.State.Hovered {
			t.Errorf("Expected %s not hovered", r.Path)
		}
	}
	if e.Hovered() != -1 {
		t.Errorf("Expected no hovered row, got %d", e.Hovered())
	}
}

func TestExplorer_HoverClearedOnUnmount(t *testing.T) {
	e := NewExplorer(DefaultOptions())
	e.SetTree(sampleTree())
	e.ClickRow(0)
	e.Hover(1) // root/a.txt

	e.ClickRow(0)
	if e.Hovered() != -1 {
		t.Errorf("Expected hover cleared with collapsed row, got %d", e.Hovered())
	}

	e.ClickRow(0)
	if e.Rows()[1].State.Hovered {
		t.Error("Expected remounted row to start without hover")
	}
}

func TestExplorer_SetTreeKeepsSurvivingState(t *testing.T) {
	e := NewExplorer(DefaultOptions())
	e.SetTree(sampleTree())
	e.ClickRow(0)

	tree := sampleTree()
	tree[0].Children = append(tree[0].Children, filesystem.NewFile("new.txt"))
	e.SetTree(tree)

	if !e.Rows()[0].State.Expanded {
		t.Error("Expected root/ to stay expanded across refresh")
	}
	if e.IndexOf("root/new.txt") < 0 {
		t.Error("Expected new file to be rendered")
	}

	e.SetTree([]*filesystem.Node{filesystem.NewFile("top.md")})
	if e.States().Mounted("root/") {
		t.Error("Expected removed directory to be unmounted")
	}
}

func TestExplorer_SetExpanded(t *testing.T) {
	e := NewExplorer(DefaultOptions())
	e.SetTree(sampleTree())

	if e.SetExpanded(1, true) {
		t.Error("Expected files not to expand")
	}
	if !e.SetExpanded(0, true) {
		t.Error("Expected directory to expand")
	}
	if e.SetExpanded(0, true) {
		t.Error("Expected no change when already expanded")
	}
	if len(e.Rows()) != 4 {
		t.Errorf("Expected 4 rows, got %d", len(e.Rows()))
	}
}
