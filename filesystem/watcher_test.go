package filesystem

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "lazyfs-watcher-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	w, err := NewWatcher(tmpDir, NewIgnorer(tmpDir), nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	// Wait for watcher to start up
	time.Sleep(100 * time.Millisecond)

	testFile := filepath.Join(tmpDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-w.Events:
		if event != testFile {
			t.Errorf("expected event for %s, got %s", testFile, event)
		}
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for file creation event")
	}

	swapFile := filepath.Join(tmpDir, "test.txt.swp")
	if err := os.WriteFile(swapFile, []byte("swap"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-w.Events:
		t.Errorf("unexpected event for ignored file: %s", event)
	case <-time.After(500 * time.Millisecond):
		// Success, no event received
	}
}

func TestWatcher_CloseTwice(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "lazyfs-watcher-close")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	w, err := NewWatcher(tmpDir, nil, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.Close()
	w.Close()
}

func TestShouldIgnore(t *testing.T) {
	w := &Watcher{root: "/path"}

	tests := []struct {
		path string
		want bool
	}{
		{"/path/to/.git", true},
		{"/path/to/node_modules", true},
		{"/path/to/normal.go", false},
		{"/path/to/.main.go.swp", true},
	}

	for _, tt := range tests {
		if got := w.shouldIgnore(tt.path); got != tt.want {
			t.Errorf("shouldIgnore(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
