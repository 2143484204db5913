package engine

import (
	"testing"

	"github.com/jesspatton/lazyfs/filesystem"
)

func sampleTree() []*filesystem.Node {
	return []*filesystem.Node{
		filesystem.NewDir("root",
			filesystem.NewFile("a.txt"),
			filesystem.NewDir("sub",
				filesystem.NewFile("b.txt"),
			),
		),
		filesystem.NewFile("top.md"),
	}
}

func rowPaths(rows []Row) []string {
	paths := make([]string, len(rows))
	for i, r := range rows {
		paths[i] = r.Path
	}
	return paths
}

func samePaths(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRender_Empty(t *testing.T) {
	if rows := Render(nil, 0, "", DefaultOptions(), nil); len(rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(rows))
	}
	if rows := Render([]*filesystem.Node{}, 0, "", DefaultOptions(), NewStateStore()); len(rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(rows))
	}
}

func TestRender_Collapsed(t *testing.T) {
	rows := Render(sampleTree(), 0, "", DefaultOptions(), nil)

	want := []string{"root/", "top.md"}
	if !samePaths(rowPaths(rows), want) {
		t.Fatalf("Expected %v, got %v", want, rowPaths(rows))
	}
	if rows[0].Icon() != IconDirectoryClosed {
		t.Errorf("Expected closed icon for collapsed directory")
	}
	if rows[1].Icon() != IconFile {
		t.Errorf("Expected file icon")
	}
	for _, r := range rows {
		if r.Depth != 0 {
			t.Errorf("Expected depth 0 for %s, got %d", r.Path, r.Depth)
		}
	}
}

func TestRender_ExpandedOrderAndDepth(t *testing.T) {
	states := NewStateStore()
	nodes := sampleTree()

	Render(nodes, 0, "", DefaultOptions(), states)
	states.SetExpanded("root/", true)
	Render(nodes, 0, "", DefaultOptions(), states)
	states.SetExpanded("root/sub/", true)
	rows := Render(nodes, 0, "", DefaultOptions(), states)

	want := []string{"root/", "root/a.txt", "root/sub/", "root/sub/b.txt", "top.md"}
	if !samePaths(rowPaths(rows), want) {
		t.Fatalf("Expected %v, got %v", want, rowPaths(rows))
	}

	depths := []int{0, 1, 1, 2, 0}
	for i, r := range rows {
		if r.Depth != depths[i] {
			t.Errorf("Expected depth %d for %s, got %d", depths[i], r.Path, r.Depth)
		}
	}
	if rows[0].Icon() != IconDirectoryOpened {
		t.Errorf("Expected opened icon for expanded directory")
	}
}

func TestRender_ParentPathAndDepthOffset(t *testing.T) {
	nodes := []*filesystem.Node{filesystem.NewFile("c.txt")}
	rows := Render(nodes, 2, "a/b/", DefaultOptions(), nil)

	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].Path != "a/b/c.txt" {
		t.Errorf("Expected a/b/c.txt, got %s", rows[0].Path)
	}
	if rows[0].Depth != 2 {
		t.Errorf("Expected depth 2, got %d", rows[0].Depth)
	}
}

func TestRender_RootDeleteProtection(t *testing.T) {
	opts := Options{
		DirectoryActions: []Action{{ID: ActionCreateDirectory}, {ID: ActionDelete}},
		FileActions:      []Action{{ID: ActionCopyPath}, {ID: ActionDelete}},
	}
	states := NewStateStore()
	nodes := sampleTree()

	Render(nodes, 0, "", opts, states)
	states.SetExpanded("root/", true)
	rows := Render(nodes, 0, "", opts, states)

	byPath := make(map[string]Row)
	for _, r := range rows {
		byPath[r.Path] = r
	}

	if got := actionIDs(byPath["root/"].Actions); !sameIDs(got, []ActionID{ActionCreateDirectory}) {
		t.Errorf("Expected delete filtered from root directory, got %v", got)
	}
	if got := actionIDs(byPath["root/sub/"].Actions); !sameIDs(got, []ActionID{ActionCreateDirectory, ActionDelete}) {
		t.Errorf("Expected delete on nested directory, got %v", got)
	}
	if got := actionIDs(byPath["top.md"].Actions); !sameIDs(got, []ActionID{ActionCopyPath, ActionDelete}) {
		t.Errorf("Expected file actions untouched, got %v", got)
	}

	opts.RootDirectoriesAreDeletable = true
	rows = Render(nodes, 0, "", opts, states)
	if got := actionIDs(rows[0].Actions); !sameIDs(got, []ActionID{ActionCreateDirectory, ActionDelete}) {
		t.Errorf("Expected delete on deletable root, got %v", got)
	}
}

func TestRender_SkipsNilNodes(t *testing.T) {
	nodes := []*filesystem.Node{nil, filesystem.NewFile("a"), nil}
	rows := Render(nodes, 0, "", DefaultOptions(), nil)
	if !samePaths(rowPaths(rows), []string{"a"}) {
		t.Errorf("Expected [a], got %v", rowPaths(rows))
	}
}

func TestRender_DeepTree(t *testing.T) {
	// Deep nesting must not depend on call-stack depth.
	const depth = 2000
	states := NewStateStore()
	root := filesystem.NewDir("d")
	cur := root
	path := "d/"
	states.mount(path).Expanded = true
	for i := 0; i < depth; i++ {
		next := filesystem.NewDir("d")
		cur.Children = append(cur.Children, next)
		cur = next
		path += "d/"
		states.mount(path).Expanded = true
	}

	rows := Render([]*filesystem.Node{root}, 0, "", DefaultOptions(), states)
	if len(rows) != depth+1 {
		t.Fatalf("Expected %d rows, got %d", depth+1, len(rows))
	}
	if rows[depth].Depth != depth {
		t.Errorf("Expected last depth %d, got %d", depth, rows[depth].Depth)
	}
}

func TestStateStore_Sweep(t *testing.T) {
	states := NewStateStore()
	nodes := sampleTree()

	Render(nodes, 0, "", DefaultOptions(), states)
	states.SetExpanded("root/", true)
	rows := Render(nodes, 0, "", DefaultOptions(), states)
	states.Sweep(rows)
	states.SetExpanded("root/sub/", true)

	if states.Len() != 4 {
		t.Fatalf("Expected 4 mounted rows, got %d", states.Len())
	}

	// Collapse the root directory: its descendants unmount, the directory keeps its entry.
	states.SetExpanded("root/", false)
	rows = Render(nodes, 0, "", DefaultOptions(), states)
	states.Sweep(rows)

	if states.Mounted("root/sub/") {
		t.Error("Expected root/sub/ to be unmounted after collapse")
	}
	if !states.Mounted("root/") {
		t.Error("Expected root/ to stay mounted")
	}

	// Re-expanding starts the descendants from scratch.
	states.SetExpanded("root/", true)
	rows = Render(nodes, 0, "", DefaultOptions(), states)
	states.Sweep(rows)

	if states.Get("root/sub/").Expanded {
		t.Error("Expected root/sub/ to start collapsed after re-expand")
	}
	if !samePaths(rowPaths(rows), []string{"root/", "root/a.txt", "root/sub/", "top.md"}) {
		t.Errorf("Unexpected rows %v", rowPaths(rows))
	}
}

func TestStateStore_Unmounted(t *testing.T) {
	states := NewStateStore()

	if states.ToggleExpanded("nope/") {
		t.Error("Expected toggle on unmounted path to report false")
	}
	states.SetHovered("nope/", true)
	if states.Mounted("nope/") {
		t.Error("Expected setters not to mount rows")
	}
	if states.Get("nope/") != (NodeState{}) {
		t.Error("Expected zero state for unmounted path")
	}
}

func TestStateStore_DuplicateSiblingsShareState(t *testing.T) {
	nodes := []*filesystem.Node{
		filesystem.NewDir("dup", filesystem.NewFile("x")),
		filesystem.NewDir("dup", filesystem.NewFile("y")),
	}
	states := NewStateStore()

	Render(nodes, 0, "", DefaultOptions(), states)
	states.SetExpanded("dup/", true)
	rows := Render(nodes, 0, "", DefaultOptions(), states)

	want := []string{"dup/", "dup/x", "dup/", "dup/y"}
	if !samePaths(rowPaths(rows), want) {
		t.Errorf("Expected %v, got %v", want, rowPaths(rows))
	}
}
