package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jesspatton/lazyfs/backend"
	"github.com/jesspatton/lazyfs/filesystem"
	"github.com/jesspatton/lazyfs/runner"
	"go.uber.org/zap"
)

// RefreshTimeout bounds a tree reload.
const RefreshTimeout = 30 * time.Second

// Messages

// WatcherMsg indicates a file system event occurred.
type WatcherMsg string

// TreeLoadedMsg carries the new tree after a refresh.
type TreeLoadedMsg struct {
	Nodes []*filesystem.Node
}

// TreeErrorMsg reports a failed refresh.
type TreeErrorMsg struct {
	Err error
}

// WatcherReadyMsg carries the initialized watcher.
type WatcherReadyMsg struct {
	watcher *filesystem.Watcher
}

// ChangedFilesMsg carries the paths git reports as changed.
type ChangedFilesMsg map[string]struct{}

// Activity is one line of the operation log.
type Activity struct {
	Time time.Time
	Text string
	Err  error
}

// Config holds what the engine needs besides the backend.
type Config struct {
	// RootPath is the local directory behind the tree; empty for non-local backends.
	RootPath string
	Watch    bool
	Ignorer  *filesystem.Ignorer
	// OpenCommand runs for opened files, e.g. "code <path>". Empty disables it.
	OpenCommand string
}

// State represents the business state around the explorer.
type State struct {
	Loaded    bool
	LastError error
	Changed   map[string]struct{}
	Pending   map[string]backend.Operation
	Activity  []Activity
}

// Engine manages the explorer and its side effects.
type Engine struct {
	Explorer *Explorer
	State    State

	cfg      Config
	backend  backend.Backend
	executor *backend.Executor
	watcher  *filesystem.Watcher
	runner   *runner.Runner
	log      *zap.Logger
}

// New creates a new Engine instance.
func New(cfg Config, b backend.Backend, opts Options, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	var r *runner.Runner
	if cfg.OpenCommand != "" {
		r = runner.NewRunner()
	}
	return &Engine{
		Explorer: NewExplorer(opts),
		State: State{
			Changed: make(map[string]struct{}),
			Pending: make(map[string]backend.Operation),
		},
		cfg:      cfg,
		backend:  b,
		executor: backend.NewExecutor(b, log.Named("executor")),
		runner:   r,
		log:      log,
	}
}

// Init initializes the engine's side effects.
func (e *Engine) Init() tea.Cmd {
	cmds := []tea.Cmd{e.RefreshTree, e.waitForUpdates}
	if e.runner != nil {
		cmds = append(cmds, e.waitForRunner)
	}
	if e.cfg.RootPath != "" {
		cmds = append(cmds, e.loadChangedFiles)
		if e.cfg.Watch {
			cmds = append(cmds, e.startWatcher)
		}
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the engine state.
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case WatcherReadyMsg:
		e.watcher = msg.watcher
		return e.waitForWatcherEvents

	case WatcherMsg:
		e.log.Debug("filesystem changed", zap.String("path", string(msg)))
		return tea.Batch(e.RefreshTree, e.loadChangedFiles, e.waitForWatcherEvents)

	case TreeLoadedMsg:
		e.Explorer.SetTree(msg.Nodes)
		e.State.Loaded = true
		e.State.LastError = nil
		return nil

	case TreeErrorMsg:
		e.State.LastError = msg.Err
		e.log.Error("refresh tree", zap.Error(msg.Err))
		return nil

	case ChangedFilesMsg:
		e.State.Changed = msg
		return nil

	case backend.StatusUpdate:
		delete(e.State.Pending, msg.Op.ID)
		if msg.Err != nil {
			e.record(fmt.Sprintf("%s failed", msg.Op.Describe()), msg.Err)
		} else {
			e.record(fmt.Sprintf("%s done", msg.Op.Describe()), nil)
		}
		cmds := []tea.Cmd{e.waitForUpdates, e.RefreshTree}
		if e.cfg.RootPath != "" {
			cmds = append(cmds, e.loadChangedFiles)
		}
		return tea.Batch(cmds...)

	case runner.OutputUpdate:
		e.record("  "+string(msg), nil)
		return e.waitForRunner

	case runner.StatusUpdate:
		if msg.Err != nil {
			e.record("open "+msg.Path+" failed", msg.Err)
		} else {
			e.record("open "+msg.Path+" done", nil)
		}
		return e.waitForRunner
	}

	return nil
}

// Actions

// Submit hands an operation to the executor without waiting for it.
func (e *Engine) Submit(op backend.Operation) backend.Operation {
	op = e.executor.Submit(op)
	e.State.Pending[op.ID] = op
	e.record(op.Describe()+"...", nil)
	return op
}

// OpenFile runs the open command for the file at path. It returns false when no open
// command is configured.
func (e *Engine) OpenFile(path string) bool {
	if e.runner == nil {
		return false
	}
	target, cwd := path, "."
	if e.cfg.RootPath != "" {
		target = filepath.Join(e.cfg.RootPath, filepath.FromSlash(path))
		cwd = e.cfg.RootPath
	}
	command, args := runner.BuildCommand(e.cfg.OpenCommand, target)
	e.log.Info("open file", zap.String("path", path), zap.String("command", command))
	e.record("open "+path+"...", nil)
	e.runner.Run(path, command, args, cwd)
	return true
}

// Record appends a line to the activity log.
func (e *Engine) Record(text string, err error) {
	e.record(text, err)
}

func (e *Engine) record(text string, err error) {
	e.State.Activity = append(e.State.Activity, Activity{Time: time.Now(), Text: text, Err: err})
}

// Close stops the watcher and waits for in-flight operations.
func (e *Engine) Close() {
	if e.watcher != nil {
		e.watcher.Close()
	}
	if e.runner != nil {
		e.runner.Kill()
	}
	e.executor.Close()
}

// Internal Commands

// RefreshTree reloads the tree from the backend.
func (e *Engine) RefreshTree() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), RefreshTimeout)
	defer cancel()

	nodes, err := e.backend.Tree(ctx)
	if err != nil {
		return TreeErrorMsg{Err: err}
	}
	return TreeLoadedMsg{Nodes: nodes}
}

func (e *Engine) loadChangedFiles() tea.Msg {
	files, err := filesystem.ChangedFiles(e.cfg.RootPath)
	if err != nil {
		// Not a git checkout; no markers.
		return nil
	}
	return ChangedFilesMsg(files)
}

func (e *Engine) startWatcher() tea.Msg {
	w, err := filesystem.NewWatcher(e.cfg.RootPath, e.cfg.Ignorer, e.log.Named("watcher"))
	if err != nil {
		e.log.Warn("watcher disabled", zap.Error(err))
		return nil
	}
	return WatcherReadyMsg{watcher: w}
}

func (e *Engine) waitForWatcherEvents() tea.Msg {
	if e.watcher == nil {
		return nil
	}
	eventPath, ok := <-e.watcher.Events
	if !ok {
		return nil
	}
	return WatcherMsg(eventPath)
}

func (e *Engine) waitForUpdates() tea.Msg {
	update, ok := <-e.executor.Updates
	if !ok {
		return nil
	}
	return update
}

func (e *Engine) waitForRunner() tea.Msg {
	if e.runner == nil {
		return nil
	}
	update, ok := <-e.runner.Updates
	if !ok {
		return nil
	}
	return update
}

// Accessors

// IsChanged reports whether git marks the file at path as changed.
func (e *Engine) IsChanged(path string) bool {
	_, ok := e.State.Changed[path]
	return ok
}

// Busy reports whether operations are in flight.
func (e *Engine) Busy() bool {
	return len(e.State.Pending) > 0
}
