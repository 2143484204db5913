package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jesspatton/lazyfs/filesystem"
)

// Memory is an in-memory filesystem, typically seeded from a tree file.
type Memory struct {
	mu    sync.Mutex
	nodes []*filesystem.Node
}

// NewMemory creates a backend holding a copy of nodes.
func NewMemory(nodes []*filesystem.Node) *Memory {
	return &Memory{nodes: cloneNodes(nodes)}
}

// Tree returns a snapshot; callers may keep it while the backend changes.
func (m *Memory) Tree(ctx context.Context) ([]*filesystem.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneNodes(m.nodes), nil
}

// Delete removes the entry at path. A trailing "/" selects a directory.
func (m *Memory) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	parts := segments(path)
	if len(parts) == 0 {
		return fmt.Errorf("%q: %w", path, ErrOutsideRoot)
	}
	wantDir := strings.HasSuffix(path, "/")

	m.mu.Lock()
	defer m.mu.Unlock()

	siblings, err := m.childrenOf(parts[:len(parts)-1])
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	name := parts[len(parts)-1]
	for i, n := range *siblings {
		if n.Name == name && n.IsDir() == wantDir {
			*siblings = append((*siblings)[:i], (*siblings)[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete %s: %w", path, ErrNotFound)
}

// CreateDirectory adds a directory; the parent must exist.
func (m *Memory) CreateDirectory(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	parts := segments(path)
	if len(parts) == 0 {
		return fmt.Errorf("%q: %w", path, ErrOutsideRoot)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	siblings, err := m.childrenOf(parts[:len(parts)-1])
	if err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	name := parts[len(parts)-1]
	for _, n := range *siblings {
		if n.Name == name {
			return fmt.Errorf("create directory %s: %w", path, ErrExists)
		}
	}
	*siblings = append(*siblings, filesystem.NewDir(name))
	return nil
}

// Upload adds a file named after source to dirPath. The source must exist locally.
func (m *Memory) Upload(ctx context.Context, dirPath, source string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("upload %s: %w", source, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	siblings, err := m.childrenOf(segments(dirPath))
	if err != nil {
		return fmt.Errorf("upload to %s: %w", dirPath, err)
	}
	name := filepath.Base(source)
	for _, n := range *siblings {
		if n.Name == name && !n.IsDir() {
			return fmt.Errorf("upload %s: %w", name, ErrExists)
		}
	}
	*siblings = append(*siblings, filesystem.NewFile(name))
	return nil
}

// childrenOf walks directory names from the root and returns the child list of the last one.
func (m *Memory) childrenOf(dirs []string) (*[]*filesystem.Node, error) {
	current := &m.nodes
	for _, name := range dirs {
		var next *filesystem.Node
		for _, n := range *current {
			if n.Name == name && n.IsDir() {
				next = n
				break
			}
		}
		if next == nil {
			return nil, ErrNotFound
		}
		current = &next.Children
	}
	return current, nil
}

func cloneNodes(nodes []*filesystem.Node) []*filesystem.Node {
	if nodes == nil {
		return nil
	}
	out := make([]*filesystem.Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		c := &filesystem.Node{Name: n.Name, Type: n.Type}
		if n.IsDir() {
			c.Children = cloneNodes(n.Children)
			if c.Children == nil {
				c.Children = []*filesystem.Node{}
			}
		}
		out = append(out, c)
	}
	return out
}
