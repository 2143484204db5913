package engine

import "github.com/jesspatton/lazyfs/filesystem"

// Separator joins path segments in resolved paths, regardless of the host OS.
const Separator = "/"

// Resolve computes a node's absolute path from its parent's path.
// Directories resolve to the path their children use as parent path, so the result ends
// with the separator; files resolve to the exact file path.
func Resolve(parentPath, name string, typ filesystem.NodeType) string {
	if typ == filesystem.Directory {
		return parentPath + name + Separator
	}
	return parentPath + name
}
