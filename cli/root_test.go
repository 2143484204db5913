package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jesspatton/lazyfs/config"
	"github.com/jesspatton/lazyfs/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPrintLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "empty"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.go"), []byte("package main"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# hi"), 0o644))

	out, err := execute(t, dir, "--print", "--no-watch")
	require.NoError(t, err)

	assert.Contains(t, out, filepath.Base(dir))
	assert.Contains(t, out, "src/")
	assert.Contains(t, out, "empty/")
	assert.Contains(t, out, "main.go")
	assert.Contains(t, out, "README.md")
	assert.NotContains(t, out, "node_modules")
}

func TestPrintIgnoreFlag(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drop.log"), nil, 0o644))

	out, err := execute(t, dir, "--print", "--ignore", "*.log")
	require.NoError(t, err)
	assert.Contains(t, out, "keep.txt")
	assert.NotContains(t, out, "drop.log")
}

func TestPrintTreeFile(t *testing.T) {
	dir := t.TempDir()
	treeFile := filepath.Join(dir, "tree.yaml")
	require.NoError(t, os.WriteFile(treeFile, []byte(`
- name: root
  type: directory
  children:
    - name: a.txt
      type: file
- name: top.md
  type: file
`), 0o644))

	out, err := execute(t, dir, "--print", "--tree", treeFile)
	require.NoError(t, err)
	assert.Contains(t, out, "tree.yaml")
	assert.Contains(t, out, "root/")
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "top.md")
}

func TestPrintRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"name":"shared","type":"directory","children":[{"name":"report.pdf","type":"file"}]}]`)
	}))
	defer srv.Close()

	out, err := execute(t, t.TempDir(), "--print", "--remote", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "shared/")
	assert.Contains(t, out, "report.pdf")
}

func TestRemoteWithoutURL(t *testing.T) {
	_, err := execute(t, t.TempDir(), "--print", "--backend", "remote")
	assert.Error(t, err)
}

func TestTooManyArgs(t *testing.T) {
	_, err := execute(t, "a", "b")
	assert.Error(t, err)
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`{"watch": true, "confirm_delete": true}`), 0o644))

	cmd := NewRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--no-watch", "--no-root-delete", "--log-level", "debug"}))

	f := flags{noWatch: true, noRootDelete: true, logLevel: "debug"}
	cfg, err := loadConfig(cmd, dir, f)
	require.NoError(t, err)

	assert.False(t, cfg.Watch)
	assert.False(t, cfg.RootDirsDeletable)
	assert.True(t, cfg.ConfirmDelete, "file value survives without a flag")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFormatTree(t *testing.T) {
	nodes := []*filesystem.Node{
		filesystem.NewDir("a",
			filesystem.NewDir("b", filesystem.NewFile("c.txt")),
			filesystem.NewFile("d.txt"),
		),
		filesystem.NewFile("e.txt"),
	}

	out := formatTree("root", nodes)
	expected := `root
├── a/
│   ├── b/
│   │   └── c.txt
│   └── d.txt
└── e.txt
`
	assert.Equal(t, expected, out)
}

func TestExpandAll(t *testing.T) {
	nodes := []*filesystem.Node{
		filesystem.NewDir("a", filesystem.NewDir("b", filesystem.NewFile("c"))),
	}

	rows := expandAll(nodes)
	require.Len(t, rows, 3)
	assert.Equal(t, "a/b/c", rows[2].Path)
	assert.Equal(t, 2, rows[2].Depth)
}

func TestEngineOptions(t *testing.T) {
	cfg := config.Default()
	cfg.RootDirsDeletable = false
	opts := engineOptions(&appConfig{Config: cfg, Root: t.TempDir()})
	assert.False(t, opts.RootDirectoriesAreDeletable)

	cfg.RootDirsDeletable = true
	opts = engineOptions(&appConfig{Config: cfg})
	assert.True(t, opts.RootDirectoriesAreDeletable)
}
