package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/nocur/engine/protocol"
)

// EventSink receives canonical events as the worker produces them, in source
// order per stream. The sink is owned by the caller; its behavior is out of
// the engine's scope. Publish is called from the engine's reader goroutines
// and must not block indefinitely.
type EventSink interface {
	Publish(protocol.Event)
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(protocol.Event)

// Publish implements EventSink.
func (f SinkFunc) Publish(ev protocol.Event) { f(ev) }

// discardSink drops every event. Used when the caller supplies no sink.
type discardSink struct{}

func (discardSink) Publish(protocol.Event) {}

// nopHandler is a slog.Handler that discards all output.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }

// nopLogger is a shared no-op logger instance.
var nopLogger = slog.New(nopHandler{})

// Config holds session configuration. Validation and defaulting happen in
// the caller before Start; the engine passes these through to the worker.
type Config struct {
	// Sink receives canonical events. Defaults to a discarding sink.
	Sink EventSink

	// Logger receives engine diagnostics. Defaults to a no-op logger.
	Logger *slog.Logger

	// WorkingDir is the directory the worker operates in.
	WorkingDir string

	// WorkerPath is the worker binary (default: "claude" on PATH).
	WorkerPath string

	// Model is the requested model tier. Empty means the worker's default.
	Model Model

	// ResumeSessionID continues a previous session instead of starting
	// fresh. The session keeps this id instead of generating one.
	ResumeSessionID string

	// SkipPermissions bypasses the out-of-band permission broker for every
	// tool invocation. The flag is forwarded at start time; the engine has
	// no other interface to the broker.
	SkipPermissions bool

	// Trace, when set, records all wire traffic for debugging and fixtures.
	Trace *protocol.TraceWriter
}

// Option is a functional option for configuring a Session.
type Option func(*Config)

// WithWorkingDir sets the worker's working directory.
func WithWorkingDir(dir string) Option {
	return func(c *Config) {
		c.WorkingDir = dir
	}
}

// WithModel sets the requested model tier.
func WithModel(m Model) Option {
	return func(c *Config) {
		c.Model = m
	}
}

// WithResume continues the session with the given id instead of starting a
// new one.
func WithResume(sessionID string) Option {
	return func(c *Config) {
		c.ResumeSessionID = sessionID
	}
}

// WithSkipPermissions bypasses permission prompts for all tool invocations.
func WithSkipPermissions() Option {
	return func(c *Config) {
		c.SkipPermissions = true
	}
}

// WithWorkerPath sets a custom worker binary path.
func WithWorkerPath(path string) Option {
	return func(c *Config) {
		c.WorkerPath = path
	}
}

// WithSink sets the event sink.
func WithSink(sink EventSink) Option {
	return func(c *Config) {
		c.Sink = sink
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithTrace records all wire traffic to w, one JSON entry per line.
func WithTrace(w io.Writer) Option {
	return func(c *Config) {
		c.Trace = protocol.NewTraceWriter(w)
	}
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Sink:       discardSink{},
		Logger:     nopLogger,
		WorkerPath: "claude",
	}
}
