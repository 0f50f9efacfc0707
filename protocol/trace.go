package protocol

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// TraceDirection marks which side of the wire a trace entry came from.
type TraceDirection string

const (
	TraceSent     TraceDirection = "sent"
	TraceReceived TraceDirection = "received"
)

// TraceEntry wraps one wire line with metadata for debugging and fixtures.
// Trace files are themselves newline-delimited JSON.
type TraceEntry struct {
	ID        int             `json:"id"`
	Timestamp string          `json:"timestamp"`
	Direction TraceDirection  `json:"direction"`
	Message   json.RawMessage `json:"message"`
}

// TraceWriter records wire traffic as one TraceEntry per line. Safe for
// concurrent use; the session's writer and both readers share one instance.
type TraceWriter struct {
	mu  sync.Mutex
	w   io.Writer
	seq int
}

// NewTraceWriter creates a trace writer emitting to w.
func NewTraceWriter(w io.Writer) *TraceWriter {
	return &TraceWriter{w: w}
}

// Record appends one wire line to the trace. The line must be a single JSON
// value without its trailing newline.
func (t *TraceWriter) Record(direction TraceDirection, line []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	entry := TraceEntry{
		ID:        t.seq,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Direction: direction,
		Message:   json.RawMessage(line),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode trace entry: %w", err)
	}
	_, err = t.w.Write(append(data, '\n'))
	return err
}

// TranslateTraceLine translates one line of a trace file, unwrapping the
// TraceEntry envelope. Falls back to translating the line as a raw wire
// message, so traces and plain captures replay interchangeably.
func TranslateTraceLine(line []byte) ([]Event, error) {
	var entry TraceEntry
	if err := json.Unmarshal(line, &entry); err != nil || len(entry.Message) == 0 {
		return Translate(line)
	}
	return Translate(entry.Message)
}
