package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jesspatton/lazyfs/filesystem"
	"go.uber.org/zap"
)

// Local serves a directory on the local disk.
type Local struct {
	root    string
	ignorer *filesystem.Ignorer
	log     *zap.Logger
}

// NewLocal creates a backend rooted at root.
func NewLocal(root string, ign *filesystem.Ignorer, log *zap.Logger) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open root %s: not a directory", abs)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Local{root: abs, ignorer: ign, log: log}, nil
}

// Root returns the absolute root directory.
func (l *Local) Root() string {
	return l.root
}

// Tree walks the root directory.
func (l *Local) Tree(ctx context.Context) ([]*filesystem.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return filesystem.Walk(l.root, l.ignorer)
}

// Delete removes a file or a directory and everything below it.
func (l *Local) Delete(ctx context.Context, path string) error {
	full, err := l.resolve(path, false)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Lstat(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("delete %s: %w", path, err)
	}
	if err := os.RemoveAll(full); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	l.log.Debug("deleted", zap.String("path", full))
	return nil
}

// CreateDirectory creates a directory, including missing parents.
func (l *Local) CreateDirectory(ctx context.Context, path string) error {
	full, err := l.resolve(path, false)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(full); err == nil {
		return fmt.Errorf("create directory %s: %w", path, ErrExists)
	}
	if err := os.MkdirAll(full, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// Upload copies a local file into dirPath, keeping its base name.
func (l *Local) Upload(ctx context.Context, dirPath, source string) error {
	dir, err := l.resolve(dirPath, true)
	if err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("upload to %s: %w", dirPath, ErrNotFound)
	}
	if !info.IsDir() {
		return fmt.Errorf("upload to %s: not a directory", dirPath)
	}

	src, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("upload %s: %w", source, err)
	}
	defer src.Close()

	dst := filepath.Join(dir, filepath.Base(source))
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("upload %s: %w", filepath.Base(source), ErrExists)
		}
		return fmt.Errorf("upload %s: %w", source, err)
	}

	if _, err := io.Copy(out, &ctxReader{ctx: ctx, r: src}); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("upload %s: %w", source, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("upload %s: %w", source, err)
	}
	return nil
}

// resolve maps a resolved explorer path onto the disk, refusing anything outside the root.
func (l *Local) resolve(path string, allowRoot bool) (string, error) {
	rel := strings.Trim(path, "/")
	if rel == "" && !allowRoot {
		return "", fmt.Errorf("%q: %w", path, ErrOutsideRoot)
	}
	full := filepath.Join(l.root, filepath.FromSlash(rel))
	r, err := filepath.Rel(l.root, full)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", path, ErrOutsideRoot)
	}
	return full, nil
}

// ctxReader stops a copy once the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
