// Package backend performs the file operations that explorer actions request. The explorer
// never waits on these; results come back through Executor.Updates.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jesspatton/lazyfs/filesystem"
)

var (
	// ErrNotFound is returned when the target path does not exist.
	ErrNotFound = errors.New("not found")
	// ErrExists is returned when creating something that already exists.
	ErrExists = errors.New("already exists")
	// ErrOutsideRoot is returned for paths that leave the backend's root.
	ErrOutsideRoot = errors.New("path escapes root")
)

// Backend is a filesystem the explorer can browse and modify. Paths are the explorer's
// resolved paths: slash-separated, relative to the backend root, directories ending in "/".
type Backend interface {
	Tree(ctx context.Context) ([]*filesystem.Node, error)
	Delete(ctx context.Context, path string) error
	CreateDirectory(ctx context.Context, path string) error
	Upload(ctx context.Context, dirPath, source string) error
}

// OpKind is the kind of a file operation.
type OpKind int

const (
	OpDelete OpKind = iota
	OpCreateDirectory
	OpUpload
)

func (k OpKind) String() string {
	switch k {
	case OpDelete:
		return "delete"
	case OpCreateDirectory:
		return "create directory"
	case OpUpload:
		return "upload"
	default:
		return fmt.Sprintf("op(%d)", int(k))
	}
}

// Operation is one requested file operation.
type Operation struct {
	ID   string
	Kind OpKind
	// Path is the target: the entry to delete, the directory to create, or the directory
	// receiving an upload.
	Path string
	// Source is the local file to upload.
	Source string
}

// Describe returns a one-line human description.
func (op Operation) Describe() string {
	if op.Kind == OpUpload {
		return fmt.Sprintf("upload %s to %s", op.Source, displayPath(op.Path))
	}
	return fmt.Sprintf("%s %s", op.Kind, displayPath(op.Path))
}

func displayPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

// segments splits a resolved path into its names.
func segments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
