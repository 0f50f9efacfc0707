package protocol

import "fmt"

// ParseError reports a line on the worker's primary output stream that was
// not valid JSON. The stream is not assumed to be pure JSON at every moment,
// so callers recover by logging and dropping the line.
type ParseError struct {
	Cause error
	Line  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse event line: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// UnknownEventError reports a valid JSON line whose type discriminator is not
// part of the known taxonomy. Dropping these keeps the engine forward
// compatible as the protocol grows new kinds.
type UnknownEventError struct {
	EventType string
	Line      string
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("unknown event type %q", e.EventType)
}
