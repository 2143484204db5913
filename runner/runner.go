// Package runner runs the configured open command for a file and streams its output.
package runner

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// PathPlaceholder is replaced by the file path in a command template.
const PathPlaceholder = "<path>"

// Update is either an OutputUpdate or a StatusUpdate.
type Update interface {
	isUpdate()
}

// OutputUpdate is one line of command output.
type OutputUpdate string

func (OutputUpdate) isUpdate() {}

// StatusUpdate reports how the command for Path ended.
type StatusUpdate struct {
	Path string
	Err  error
}

func (StatusUpdate) isUpdate() {}

type Runner struct {
	mu      sync.Mutex
	currCmd *exec.Cmd
	cancel  context.CancelFunc
	Updates chan Update // Channel to stream output and report completion
}

func NewRunner() *Runner {
	return &Runner{
		Updates: make(chan Update, 100), // Buffered to prevent blocking
	}
}

// BuildCommand expands template for path. A template without the placeholder gets the
// path appended as the last argument.
func BuildCommand(template, path string) (string, []string) {
	parts := strings.Fields(template)
	if len(parts) == 0 {
		return "", nil
	}
	found := false
	for i, p := range parts {
		if strings.Contains(p, PathPlaceholder) {
			parts[i] = strings.ReplaceAll(p, PathPlaceholder, path)
			found = true
		}
	}
	if !found {
		parts = append(parts, path)
	}
	return parts[0], parts[1:]
}

// Run starts the command for path. A command still running is killed first and its
// status is never reported.
func (r *Runner) Run(path, command string, args []string, cwd string) {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = cwd
	prepareCommand(cmd)

	r.currCmd = cmd
	r.mu.Unlock()

	// Run is called from the UI loop, so failures are reported off it.
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		go r.finish(cmd, path, err)
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		go r.finish(cmd, path, err)
		return
	}

	if err := cmd.Start(); err != nil {
		go r.finish(cmd, path, err)
		return
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		streamReader(stdout, r.Updates)
	}()
	go func() {
		defer wg.Done()
		streamReader(stderr, r.Updates)
	}()

	go func() {
		// Pipes must be drained before Wait returns their resources.
		wg.Wait()
		err := cmd.Wait()
		r.finish(cmd, path, err)
	}()
}

// finish reports status only if cmd is still the current command.
func (r *Runner) finish(cmd *exec.Cmd, path string, err error) {
	r.mu.Lock()
	shouldReport := r.currCmd == cmd
	if shouldReport {
		r.currCmd = nil
		r.cancel = nil
	}
	r.mu.Unlock()

	if shouldReport {
		r.Updates <- StatusUpdate{Path: path, Err: err}
	}
}

func streamReader(r io.Reader, out chan<- Update) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		out <- OutputUpdate(scanner.Text())
	}
}

// Kill explicitly stops the current command
func (r *Runner) Kill() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}
