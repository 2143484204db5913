//go:build windows

package runner

import (
	"os/exec"
)

// prepareCommand relies on exec.CommandContext killing the process; Windows has no
// process groups to signal.
func prepareCommand(cmd *exec.Cmd) {}
