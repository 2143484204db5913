package engine

import "github.com/jesspatton/lazyfs/filesystem"

// Icon selects the row glyph. Directories pick opened or closed from their expanded flag only.
type Icon int

const (
	IconFile Icon = iota
	IconDirectoryClosed
	IconDirectoryOpened
)

// Row is one rendered line of the explorer.
type Row struct {
	Name  string
	Type  filesystem.NodeType
	Depth int
	// Path is the resolved path the row's actions receive. Directory paths end with Separator.
	Path    string
	Actions []Action
	State   NodeState
}

// IsDirectory reports whether the row renders a directory.
func (r Row) IsDirectory() bool {
	return r.Type == filesystem.Directory
}

// Icon returns the glyph for the row.
func (r Row) Icon() Icon {
	if !r.IsDirectory() {
		return IconFile
	}
	if r.State.Expanded {
		return IconDirectoryOpened
	}
	return IconDirectoryClosed
}

// Options are passed unchanged to every level of the tree.
type Options struct {
	DirectoryActions            []Action
	FileActions                 []Action
	RootDirectoriesAreDeletable bool
}

// DefaultOptions returns options with root directories deletable and no actions.
func DefaultOptions() Options {
	return Options{RootDirectoriesAreDeletable: true}
}

type frame struct {
	node       *filesystem.Node
	depth      int
	parentPath string
}

// Render turns nodes into rows in display order. The children of an expanded directory
// follow it directly, one level deeper and with the directory's path as parent path.
// Every rendered row is mounted in states; a nil store renders everything collapsed.
func Render(nodes []*filesystem.Node, depth int, parentPath string, opts Options, states *StateStore) []Row {
	if len(nodes) == 0 {
		return nil
	}
	if states == nil {
		states = NewStateStore()
	}

	var rows []Row
	stack := pushFrames(make([]frame, 0, len(nodes)), nodes, depth, parentPath)

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := f.node
		if n == nil {
			continue
		}

		path := Resolve(f.parentPath, n.Name, n.Type)
		st := states.mount(path)
		row := Row{
			Name:  n.Name,
			Type:  n.Type,
			Depth: f.depth,
			Path:  path,
			State: *st,
		}

		if !n.IsDir() {
			row.Actions = opts.FileActions
			rows = append(rows, row)
			continue
		}

		row.Actions = FilterActions(opts.DirectoryActions, RowContext{IsDirectory: true, Depth: f.depth}, opts.RootDirectoriesAreDeletable)
		rows = append(rows, row)
		if st.Expanded {
			stack = pushFrames(stack, n.Children, f.depth+1, path)
		}
	}
	return rows
}

// pushFrames pushes nodes in reverse so they pop in order.
func pushFrames(stack []frame, nodes []*filesystem.Node, depth int, parentPath string) []frame {
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: nodes[i], depth: depth, parentPath: parentPath})
	}
	return stack
}
