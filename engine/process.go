package engine

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/nocur/engine/internal/procattr"
	"github.com/nocur/engine/protocol"
)

// processManager owns the worker process and its three I/O streams. The
// input stream is guarded by its own mutex so concurrent writers never
// interleave partial lines; the two output streams are each consumed by a
// single reader goroutine owned by the Session.
type processManager struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	stderr *bufio.Reader

	config Config

	mu      sync.Mutex // guards lifecycle flags
	writeMu sync.Mutex // guards the input stream

	started bool
	killed  bool
}

func newProcessManager(config Config) *processManager {
	return &processManager{config: config}
}

// BuildArgs returns the argument list used to spawn the worker.
func (pm *processManager) BuildArgs() []string {
	args := []string{
		"--input-format", "stream-json",
		"--output-format", "stream-json",
		"--verbose",
	}

	if pm.config.Model != "" {
		args = append(args, "--model", pm.config.Model.ID())
	}

	if pm.config.ResumeSessionID != "" {
		args = append(args, "--resume", pm.config.ResumeSessionID)
	}

	if pm.config.SkipPermissions {
		args = append(args, "--dangerously-skip-permissions")
	}

	return args
}

// Start spawns the worker with piped input, output, and diagnostic streams.
// Cancelling ctx kills the worker, so a leaked session cannot outlive its
// owner's scope.
func (pm *processManager) Start(ctx context.Context) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.started {
		return ErrAlreadyStarted
	}

	workerPath := pm.config.WorkerPath
	if workerPath == "" {
		workerPath = "claude"
	}

	pm.cmd = exec.CommandContext(ctx, workerPath, pm.BuildArgs()...)
	if pm.config.WorkingDir != "" {
		pm.cmd.Dir = pm.config.WorkingDir
	}
	pm.cmd.Env = enhancedEnv()

	// Process group for orphan prevention.
	procattr.Set(pm.cmd)

	stdin, err := pm.cmd.StdinPipe()
	if err != nil {
		return &SpawnError{Path: workerPath, Cause: err}
	}

	stdout, err := pm.cmd.StdoutPipe()
	if err != nil {
		return &SpawnError{Path: workerPath, Cause: err}
	}

	stderr, err := pm.cmd.StderrPipe()
	if err != nil {
		return &SpawnError{Path: workerPath, Cause: err}
	}

	if err := pm.cmd.Start(); err != nil {
		return &SpawnError{Path: workerPath, Cause: err}
	}

	pm.stdin = stdin
	pm.stdout = bufio.NewReader(stdout)
	pm.stderr = bufio.NewReader(stderr)
	pm.started = true
	return nil
}

// WriteCommand serializes one command to one JSON line and writes it under
// exclusive access to the input stream.
func (pm *processManager) WriteCommand(cmd protocol.Command) error {
	line, err := protocol.EncodeCommand(cmd)
	if err != nil {
		return err
	}

	pm.writeMu.Lock()
	defer pm.writeMu.Unlock()

	if pm.stdin == nil {
		return &WriteError{}
	}
	if _, err := pm.stdin.Write(line); err != nil {
		return &WriteError{Cause: err}
	}

	if pm.config.Trace != nil {
		_ = pm.config.Trace.Record(protocol.TraceSent, line[:len(line)-1])
	}
	return nil
}

// ReadLine reads the next newline-delimited line from the primary output
// stream, with the trailing newline removed. Blocks until a line arrives,
// the stream closes (io.EOF), or the process dies.
func (pm *processManager) ReadLine() ([]byte, error) {
	return readTrimmedLine(pm.stdout)
}

// ReadStderrLine reads the next line from the diagnostic output stream.
func (pm *processManager) ReadStderrLine() ([]byte, error) {
	return readTrimmedLine(pm.stderr)
}

// Kill terminates the worker immediately. It is idempotent and never waits
// for the process to exit: shutdown latency stays bounded even against a
// hung worker. The input stream is closed after the kill so in-flight
// writers fail rather than block. Reaping happens in the background.
func (pm *processManager) Kill() {
	pm.mu.Lock()
	if !pm.started || pm.killed {
		pm.mu.Unlock()
		return
	}
	pm.killed = true
	cmd := pm.cmd
	pm.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		_ = procattr.KillGroup(cmd.Process)
	}

	pm.writeMu.Lock()
	if pm.stdin != nil {
		_ = pm.stdin.Close()
		pm.stdin = nil
	}
	pm.writeMu.Unlock()

	if cmd != nil {
		go func() { _ = cmd.Wait() }()
	}
}

func readTrimmedLine(r *bufio.Reader) ([]byte, error) {
	if r == nil {
		return nil, io.EOF
	}
	line, err := r.ReadBytes('\n')
	if err != nil {
		if len(line) > 0 && err == io.EOF {
			// Final unterminated line still counts.
			return line, nil
		}
		return nil, err
	}
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	return line, nil
}

// enhancedEnv augments PATH with the usual install locations of the worker
// binary, matching where package managers drop it.
func enhancedEnv() []string {
	env := os.Environ()
	home, _ := os.UserHomeDir()

	extras := []string{
		home + "/.local/bin",
		home + "/.npm-global/bin",
		"/usr/local/bin",
		"/opt/homebrew/bin",
	}

	for i, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			env[i] = kv + ":" + strings.Join(extras, ":")
			return env
		}
	}
	return append(env, "PATH="+strings.Join(extras, ":"))
}
