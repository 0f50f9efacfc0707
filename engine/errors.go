package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	ErrAlreadyStarted = errors.New("session already started")
	ErrNotStarted     = errors.New("session not started")
	ErrSessionClosed  = errors.New("session is closed")
	ErrInvalidState   = errors.New("invalid state transition")
)

// SpawnError indicates the worker process could not be launched. It is fatal
// to Start and is surfaced to the caller.
type SpawnError struct {
	Cause error
	Path  string
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn worker %q: %v", e.Path, e.Cause)
}

func (e *SpawnError) Unwrap() error {
	return e.Cause
}

// WriteError indicates a command could not be written because the worker's
// input stream has closed — the process ended or Stop already ran. It
// signals that the session is over; sends are never retried automatically.
type WriteError struct {
	Cause error
}

func (e *WriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("write command: %v", e.Cause)
	}
	return "write command: input stream closed"
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}
