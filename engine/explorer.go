package engine

import "github.com/jesspatton/lazyfs/filesystem"

// Explorer owns one tree view: the current tree, the options and the row state. Every event
// re-renders synchronously, so Rows always reflects the latest input.
//
// Explorer is not safe for concurrent use; it is driven from a single event loop.
type Explorer struct {
	nodes   []*filesystem.Node
	opts    Options
	states  *StateStore
	rows    []Row
	hovered string

	// OnOpenFile is the primary-click behavior of file rows.
	OnOpenFile func(path string)
}

// NewExplorer creates an explorer with no tree.
func NewExplorer(opts Options) *Explorer {
	return &Explorer{
		opts:   opts,
		states: NewStateStore(),
	}
}

// SetTree replaces the tree. Rows whose resolved path survives keep their state.
func (e *Explorer) SetTree(nodes []*filesystem.Node) {
	e.nodes = nodes
	e.render()
}

// Tree returns the tree currently rendered.
func (e *Explorer) Tree() []*filesystem.Node {
	return e.nodes
}

// SetOptions replaces the action lists and policy flag.
func (e *Explorer) SetOptions(opts Options) {
	e.opts = opts
	e.render()
}

// Options returns the current options.
func (e *Explorer) Options() Options {
	return e.opts
}

// Rows returns the rendered rows.
func (e *Explorer) Rows() []Row {
	return e.rows
}

// Row returns row i.
func (e *Explorer) Row(i int) (Row, bool) {
	if i < 0 || i >= len(e.rows) {
		return Row{}, false
	}
	return e.rows[i], true
}

// IndexOf returns the index of the row with the given path, or -1.
func (e *Explorer) IndexOf(path string) int {
	for i, r := range e.rows {
		if r.Path == path {
			return i
		}
	}
	return -1
}

// States exposes the row state store.
func (e *Explorer) States() *StateStore {
	return e.states
}

func (e *Explorer) render() {
	e.rows = Render(e.nodes, 0, "", e.opts, e.states)
	e.states.Sweep(e.rows)
	if e.hovered != "" && !e.states.Mounted(e.hovered) {
		e.hovered = ""
	}
}

// ClickRow performs the primary click on row i: directories toggle, files open.
func (e *Explorer) ClickRow(i int) bool {
	row, ok := e.Row(i)
	if !ok {
		return false
	}
	if row.IsDirectory() {
		e.states.ToggleExpanded(row.Path)
		e.render()
		return true
	}
	if e.OnOpenFile != nil {
		e.OnOpenFile(row.Path)
	}
	return true
}

// SetExpanded expands or collapses directory row i.
func (e *Explorer) SetExpanded(i int, expanded bool) bool {
	row, ok := e.Row(i)
	if !ok || !row.IsDirectory() || row.State.Expanded == expanded {
		return false
	}
	e.states.SetExpanded(row.Path, expanded)
	e.render()
	return true
}

// ClickAction invokes action j of row i with the row's resolved path. The click stops at
// the action: the row's expanded flag is untouched.
func (e *Explorer) ClickAction(i, j int) bool {
	row, ok := e.Row(i)
	if !ok || j < 0 || j >= len(row.Actions) {
		return false
	}
	if onClick := row.Actions[j].OnClick; onClick != nil {
		onClick(row.Path)
	}
	return true
}

// TriggerKey clicks the first action of row i bound to key. Filtered-out actions are
// unreachable.
func (e *Explorer) TriggerKey(i int, key string) bool {
	row, ok := e.Row(i)
	if !ok {
		return false
	}
	for j, a := range row.Actions {
		if a.Key == key {
			return e.ClickAction(i, j)
		}
	}
	return false
}

// Hover moves the pointer onto row i, leaving the previously hovered row. -1 leaves all rows.
func (e *Explorer) Hover(i int) {
	next := ""
	if row, ok := e.Row(i); ok {
		next = row.Path
	}
	if next == e.hovered {
		return
	}
	if e.hovered != "" {
		e.states.SetHovered(e.hovered, false)
	}
	if next != "" {
		e.states.SetHovered(next, true)
	}
	e.hovered = next
	e.render()
}

// Hovered returns the index of the hovered row, or -1.
func (e *Explorer) Hovered() int {
	if e.hovered == "" {
		return -1
	}
	return e.IndexOf(e.hovered)
}
