package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

type walkEntry struct {
	rel   string
	isDir bool
}

// Walk traverses the root directory and builds the forest of its entries.
// The root itself is not part of the result; its children are the root-level nodes.
// Children are sorted directories first, then by name.
func Walk(root string, ign *Ignorer) ([]*Node, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walk %s: not a directory", root)
	}

	var (
		mu      sync.Mutex
		entries []walkEntry
	)

	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped rather than failing the whole walk.
			return nil
		}
		if path == root {
			return nil
		}
		if ign.ShouldIgnore(path, root) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		mu.Lock()
		entries = append(entries, walkEntry{rel: filepath.ToSlash(rel), isDir: d.IsDir()})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	// fastwalk visits concurrently; sorting makes the build deterministic.
	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })

	top := NewDir(".")
	for _, e := range entries {
		addPathToTree(top, e.rel, e.isDir)
	}
	SortTree(top.Children)
	return top.Children, nil
}

// addPathToTree adds a slash-separated relative path to the tree, creating intermediate
// directory nodes as needed.
func addPathToTree(root *Node, rel string, isDir bool) {
	parts := strings.Split(rel, "/")
	current := root

	for i, part := range parts {
		last := i == len(parts)-1

		var found *Node
		for _, child := range current.Children {
			if child.Name == part && child.IsDir() {
				found = child
				break
			}
		}

		if last {
			if isDir {
				if found == nil {
					current.Children = append(current.Children, NewDir(part))
				}
				return
			}
			current.Children = append(current.Children, NewFile(part))
			return
		}

		if found == nil {
			found = NewDir(part)
			current.Children = append(current.Children, found)
		}
		current = found
	}
}

// SortTree orders every level of the forest: directories first, then by name.
func SortTree(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].IsDir() != nodes[j].IsDir() {
			return nodes[i].IsDir()
		}
		return nodes[i].Name < nodes[j].Name
	})
	for _, n := range nodes {
		if n.IsDir() {
			SortTree(n.Children)
		}
	}
}
