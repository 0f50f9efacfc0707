//go:build linux

// Package procattr configures worker subprocesses so they cannot outlive the
// engine: each worker runs in its own process group, and the whole group is
// signaled on teardown.
package procattr

import (
	"os/exec"
	"syscall"
)

// Set places the worker in its own process group. On Linux, Pdeathsig
// additionally delivers SIGTERM to the worker if the engine process dies
// without running teardown (OOM kill, SIGKILL).
func Set(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
