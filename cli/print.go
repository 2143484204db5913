package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jesspatton/lazyfs/engine"
	"github.com/jesspatton/lazyfs/filesystem"
	"github.com/xlab/treeprint"
)

func printTree(ctx context.Context, w io.Writer, app *appConfig) error {
	s, err := newSession(app)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	nodes, err := s.backend.Tree(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, formatTree(s.title, nodes))
	return err
}

// expandAll renders nodes with every directory expanded.
func expandAll(nodes []*filesystem.Node) []engine.Row {
	states := engine.NewStateStore()
	for {
		rows := engine.Render(nodes, 0, "", engine.DefaultOptions(), states)
		expanded := false
		for _, r := range rows {
			if r.IsDirectory() && !r.State.Expanded {
				states.SetExpanded(r.Path, true)
				expanded = true
			}
		}
		if !expanded {
			return rows
		}
	}
}

// formatTree draws the fully expanded tree under a root label.
func formatTree(label string, nodes []*filesystem.Node) string {
	tree := treeprint.NewWithRoot(label)
	// parents[d] is the branch holding rows of depth d.
	parents := []treeprint.Tree{tree}

	for _, r := range expandAll(nodes) {
		parents = parents[:r.Depth+1]
		parent := parents[r.Depth]
		if r.IsDirectory() {
			parents = append(parents, parent.AddBranch(r.Name+engine.Separator))
		} else {
			parent.AddNode(r.Name)
		}
	}
	return tree.String()
}
