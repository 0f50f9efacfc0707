package procattr

import (
	"os"
	"syscall"
)

// SignalGroup signals the worker's entire process group. The negative PID
// makes the kernel deliver to every process in the group, so tools spawned
// by the worker go down with it.
func SignalGroup(p *os.Process, sig syscall.Signal) error {
	if p == nil {
		return nil
	}
	return syscall.Kill(-p.Pid, sig)
}

// KillGroup sends SIGKILL to the worker's entire process group.
func KillGroup(p *os.Process) error {
	return SignalGroup(p, syscall.SIGKILL)
}
