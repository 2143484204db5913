package filesystem

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIgnorePatterns are always skipped by the walker and the watcher.
var DefaultIgnorePatterns = []string{
	".git",
	"node_modules",
	".DS_Store",
	"*.swp",
}

// Ignorer handles file and directory ignoring logic based on default patterns and .gitignore.
type Ignorer struct {
	patterns []string
}

// NewIgnorer creates a new Ignorer and loads patterns from .gitignore if present.
// Extra patterns (e.g. from config) are appended after the defaults.
func NewIgnorer(root string, extra ...string) *Ignorer {
	ign := &Ignorer{
		patterns: append([]string{}, DefaultIgnorePatterns...),
	}
	ign.patterns = append(ign.patterns, extra...)

	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err == nil {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
				continue
			}
			ign.patterns = append(ign.patterns, line)
		}
	}
	return ign
}

// Patterns returns the active patterns in match order.
func (i *Ignorer) Patterns() []string {
	return append([]string{}, i.patterns...)
}

// ShouldIgnore checks if the given path should be ignored.
// It checks against the file name (basename) and the slash-separated path relative to root.
func (i *Ignorer) ShouldIgnore(path string, root string) bool {
	if i == nil {
		return false
	}
	name := filepath.Base(path)
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		relPath = name
	}
	relPath = filepath.ToSlash(relPath)

	for _, p := range i.patterns {
		cleanP := strings.TrimSuffix(p, "/")

		// Anchored patterns only match from the root.
		if strings.HasPrefix(cleanP, "/") {
			cleanP = strings.TrimPrefix(cleanP, "/")
			if matchOrPrefix(cleanP, relPath) {
				return true
			}
			continue
		}

		if ok, _ := doublestar.Match(cleanP, name); ok {
			return true
		}
		if matchOrPrefix(cleanP, relPath) {
			return true
		}
	}
	return false
}

func matchOrPrefix(pattern, relPath string) bool {
	if ok, _ := doublestar.Match(pattern, relPath); ok {
		return true
	}
	return strings.HasPrefix(relPath, pattern+"/")
}
