package filesystem

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidNode is returned when a tree handed to the explorer breaks the node contract.
var ErrInvalidNode = errors.New("invalid node")

// NodeType distinguishes directories from files.
type NodeType int

const (
	// File is a leaf entry.
	File NodeType = iota
	// Directory is an entry that holds children.
	Directory
)

// String returns the wire name of the type.
func (t NodeType) String() string {
	if t == Directory {
		return "directory"
	}
	return "file"
}

// MarshalText implements encoding.TextMarshaler.
func (t NodeType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *NodeType) UnmarshalText(text []byte) error {
	parsed, err := ParseNodeType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseNodeType converts "directory"/"dir" and "file" into a NodeType.
func ParseNodeType(s string) (NodeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "directory", "dir":
		return Directory, nil
	case "file":
		return File, nil
	default:
		return File, fmt.Errorf("%w: unknown type %q", ErrInvalidNode, s)
	}
}

// Node represents a file or directory in the explorer tree.
// A node is owned by its parent and never stores its own path.
type Node struct {
	Name     string   `json:"name"`
	Type     NodeType `json:"type"`
	Children []*Node  `json:"children,omitempty"`
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.Type == Directory
}

// NewDir builds a directory node.
func NewDir(name string, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Name: name, Type: Directory, Children: children}
}

// NewFile builds a file node.
func NewFile(name string) *Node {
	return &Node{Name: name, Type: File}
}

// Validate checks the node contract for a whole tree: every name is non-empty and free of
// the path separator, and files carry no children. Duplicate sibling names are not checked.
func Validate(nodes []*Node) error {
	stack := make([]validateFrame, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, validateFrame{node: nodes[i], at: ""})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.node == nil {
			return fmt.Errorf("%w: nil entry under %q", ErrInvalidNode, f.at)
		}
		if f.node.Name == "" {
			return fmt.Errorf("%w: empty name under %q", ErrInvalidNode, f.at)
		}
		if strings.Contains(f.node.Name, "/") {
			return fmt.Errorf("%w: name %q contains a separator", ErrInvalidNode, f.node.Name)
		}
		if !f.node.IsDir() {
			if len(f.node.Children) > 0 {
				return fmt.Errorf("%w: file %q has children", ErrInvalidNode, f.at+f.node.Name)
			}
			continue
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, validateFrame{node: f.node.Children[i], at: f.at + f.node.Name + "/"})
		}
	}
	return nil
}

type validateFrame struct {
	node *Node
	at   string
}

// CountNodes counts every node in the given forest.
func CountNodes(nodes []*Node) int {
	count := 0
	for _, n := range nodes {
		if n == nil {
			continue
		}
		count += 1 + CountNodes(n.Children)
	}
	return count
}
