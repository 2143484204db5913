package filesystem

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// treeEntry is the on-disk shape of a tree description. YAML is a superset of JSON,
// so the same decoder reads both.
type treeEntry struct {
	Name     string      `yaml:"name"`
	Type     string      `yaml:"type"`
	Children []treeEntry `yaml:"children"`
}

// LoadTree reads a YAML or JSON tree description from disk.
func LoadTree(path string) ([]*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree file: %w", err)
	}
	nodes, err := ParseTree(data)
	if err != nil {
		return nil, fmt.Errorf("parse tree file %s: %w", path, err)
	}
	return nodes, nil
}

// ParseTree decodes and validates a tree description.
func ParseTree(data []byte) ([]*Node, error) {
	var entries []treeEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	nodes := make([]*Node, 0, len(entries))
	for _, e := range entries {
		n, err := e.toNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if err := Validate(nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (e treeEntry) toNode() (*Node, error) {
	typ, err := ParseNodeType(e.Type)
	if err != nil {
		return nil, err
	}
	if typ == File {
		if len(e.Children) > 0 {
			return nil, fmt.Errorf("%w: file %q has children", ErrInvalidNode, e.Name)
		}
		return NewFile(e.Name), nil
	}

	dir := NewDir(e.Name)
	for _, c := range e.Children {
		child, err := c.toNode()
		if err != nil {
			return nil, err
		}
		dir.Children = append(dir.Children, child)
	}
	return dir, nil
}
