package filesystem

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// ChangedFiles returns the set of files git reports as modified or untracked, as
// slash-separated paths relative to root (the same form the explorer resolves).
// Renames report the new path.
func ChangedFiles(root string) (map[string]struct{}, error) {
	// git status --porcelain gives us a stable, easy-to-parse output
	cmd := exec.Command("git", "status", "--porcelain", "--untracked-files=all")
	cmd.Dir = root
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	prefix, err := repoPrefix(root)
	if err != nil {
		return nil, err
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(string(output), "\n") {
		if len(line) < 4 {
			continue
		}
		// Two status characters, a space, then the path relative to the repository root.
		relPath := line[3:]
		if idx := strings.Index(relPath, " -> "); idx >= 0 {
			relPath = relPath[idx+4:]
		}
		relPath = strings.Trim(relPath, "\"")

		if !strings.HasPrefix(relPath, prefix) {
			continue
		}
		files[strings.TrimPrefix(relPath, prefix)] = struct{}{}
	}

	return files, nil
}

// repoPrefix returns root's position inside its repository, e.g. "sub/dir/" or "".
func repoPrefix(root string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-prefix")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(strings.TrimSpace(string(out))), nil
}
