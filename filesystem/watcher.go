package filesystem

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DebounceDuration is how long the watcher waits for a burst of events to settle.
const DebounceDuration = 100 * time.Millisecond

// Watcher monitors the file system for changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	ignorer   *Ignorer
	log       *zap.Logger
	Events    chan string // Signal to refresh the tree, carries the changed file path
	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher creates a new Watcher for the given root directory.
func NewWatcher(root string, ign *Ignorer, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		root:      root,
		ignorer:   ign,
		log:       log,
		Events:    make(chan string, 10),
		done:      make(chan struct{}),
	}

	// fsnotify is not recursive, every directory is added explicitly.
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	go w.startLoop()

	return w, nil
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
		w.fsWatcher.Close()
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	if w.ignorer == nil {
		return NewIgnorer(w.root).ShouldIgnore(path, w.root)
	}
	return w.ignorer.ShouldIgnore(path, w.root)
}

func (w *Watcher) startLoop() {
	var timer *time.Timer

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.shouldIgnore(event.Name) {
				continue
			}
			// CHMOD is noisy and never changes the tree shape.
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if err := w.fsWatcher.Add(event.Name); err != nil {
						w.log.Warn("watch new directory", zap.String("path", event.Name), zap.Error(err))
					}
				}
			}

			if timer != nil {
				timer.Stop()
			}
			name := event.Name
			timer = time.AfterFunc(DebounceDuration, func() {
				select {
				case w.Events <- name:
				case <-w.done:
				}
			})

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error", zap.Error(err))
		}
	}
}
