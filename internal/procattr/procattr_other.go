//go:build !linux

// Package procattr configures worker subprocesses so they cannot outlive the
// engine: each worker runs in its own process group, and the whole group is
// signaled on teardown.
package procattr

import (
	"os/exec"
	"syscall"
)

// Set places the worker in its own process group. Pdeathsig is unavailable
// off Linux; the group still allows kill -<signal> -<pgid> cleanup.
func Set(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
