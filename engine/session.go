package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nocur/engine/protocol"
)

// Session owns one worker process and drives it through the line-delimited
// JSON protocol. At most one session is active per engine instance: creating
// a new one requires stopping the previous one first.
//
// A session moves through Uninitialized → Starting → Active → Terminated.
// Terminated is absorbing; a fresh Session is needed to talk to a worker
// again.
type Session struct {
	config  Config
	logger  *slog.Logger
	process *processManager
	state   *stateMachine

	cancel context.CancelFunc
	done   chan struct{}

	publishMu sync.Mutex // serializes sink delivery across the two readers

	mu        sync.RWMutex
	id        string
	model     Model
	createdAt time.Time
	started   bool
	stopping  bool
}

// NewSession creates a session with options. Nothing is spawned until Start.
func NewSession(opts ...Option) *Session {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &Session{
		config: config,
		logger: config.Logger,
		state:  newStateMachine(),
		done:   make(chan struct{}),
	}
}

// Start spawns the worker, begins the two stream readers, and writes the
// start command. The readers run before the command is written so no early
// worker output is lost. Fails with *SpawnError if the worker cannot be
// launched; any later failure tears the session down before returning.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}

	if err := s.state.SetStarting(); err != nil {
		s.mu.Unlock()
		return err
	}

	// The session owns its own cancellation scope; Stop cancels it, which
	// also kills the worker on paths that never reach an explicit kill.
	procCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.process = newProcessManager(s.config)
	if err := s.process.Start(procCtx); err != nil {
		cancel()
		s.state.SetTerminated()
		s.mu.Unlock()
		return err
	}

	if s.config.ResumeSessionID != "" {
		s.id = s.config.ResumeSessionID
	} else {
		s.id = uuid.NewString()
	}
	s.model = s.config.Model
	s.createdAt = time.Now()
	s.started = true
	s.mu.Unlock()

	go s.readLoop()
	go s.stderrLoop()

	start := protocol.NewStart(
		s.config.WorkingDir,
		s.config.Model.ID(),
		s.config.ResumeSessionID,
		s.config.SkipPermissions,
	)
	if err := s.Send(start); err != nil {
		s.Stop()
		return err
	}

	select {
	case <-ctx.Done():
		s.Stop()
		return ctx.Err()
	default:
	}

	return nil
}

// Send serializes one command to one wire line. Fails with *WriteError once
// the input stream has closed — the worker exited or Stop ran. Writes are
// never retried automatically.
func (s *Session) Send(cmd protocol.Command) error {
	s.mu.RLock()
	started, stopping := s.started, s.stopping
	s.mu.RUnlock()

	if !started {
		return ErrNotStarted
	}
	if stopping || s.state.IsTerminated() {
		return &WriteError{Cause: ErrSessionClosed}
	}

	return s.process.WriteCommand(cmd)
}

// SendMessage sends one user turn.
func (s *Session) SendMessage(content string) error {
	return s.Send(protocol.NewMessage(content))
}

// Interrupt asks the worker to cancel the in-flight turn. Fire-and-forget:
// actual cessation is observed via a later "interrupted" event.
func (s *Session) Interrupt() error {
	return s.Send(protocol.NewInterrupt())
}

// ChangeModel requests a model switch. Fire-and-forget: the outcome arrives
// later as a "model_changed" event. With no correlation id in the protocol,
// at most one change should be outstanding at a time.
func (s *Session) ChangeModel(m Model) error {
	return s.Send(protocol.NewChangeModel(m.ID()))
}

// Stop terminates the session. It is idempotent and safe to call any number
// of times, from any state. The process is killed immediately without
// waiting for exit, then the input stream is closed: shutdown latency is
// bounded even against a hung worker.
func (s *Session) Stop() error {
	s.mu.Lock()
	if !s.started || s.stopping {
		s.mu.Unlock()
		return nil
	}
	s.stopping = true
	s.mu.Unlock()

	close(s.done)

	s.process.Kill()
	if s.cancel != nil {
		s.cancel()
	}

	s.state.SetTerminated()
	return nil
}

// Close implements io.Closer so the session tears down on any disposal path
// (defer, early error return). Equivalent to Stop.
func (s *Session) Close() error {
	return s.Stop()
}

// ID returns the session identity: generated fresh at Start, supplied on
// resume, or the worker-reported id once the session is acknowledged.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Model returns the most recently negotiated model, or the requested one if
// the worker has not reported yet.
func (s *Session) Model() Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// CreatedAt returns the session creation time (zero before Start).
func (s *Session) CreatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.createdAt
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state.Current()
}

// WorkingDir returns the configured working directory.
func (s *Session) WorkingDir() string {
	return s.config.WorkingDir
}

// readLoop continuously decodes the primary output stream. It is one of
// exactly two places the engine blocks on I/O; that blocking never happens
// inside a caller-facing Start/Send/Stop call.
func (s *Session) readLoop() {
	for {
		line, err := s.process.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) && !s.isStopping() {
				s.logger.Error("read worker output", "error", err)
			}
			s.handleStreamEnd()
			return
		}

		if len(line) == 0 {
			continue
		}

		if s.config.Trace != nil {
			_ = s.config.Trace.Record(protocol.TraceReceived, line)
		}

		events, terr := protocol.Translate(line)
		if terr != nil {
			// Malformed or unknown lines are dropped; the protocol is not
			// assumed to be pure JSON at every moment and new kinds must
			// not become hard failures.
			s.logger.Warn("dropping worker line", "error", terr)
			continue
		}

		for _, ev := range events {
			s.observe(ev)
			s.publish(ev)
		}
	}
}

// stderrLoop reads the diagnostic stream, surfacing only lines that pass the
// failure-keyword heuristic.
func (s *Session) stderrLoop() {
	for {
		line, err := s.process.ReadStderrLine()
		if err != nil {
			return
		}
		s.logger.Debug("worker stderr", "line", string(line))

		if ev, ok := protocol.TranslateStderr(string(line)); ok {
			s.publish(ev)
		}
	}
}

// observe updates session identity, model, and lifecycle state from events
// before they are published.
func (s *Session) observe(ev protocol.Event) {
	switch ev.Type {
	case protocol.EventTypeServiceReady, protocol.EventTypeReady, protocol.EventTypeSystemInit:
		_ = s.state.SetActive()
	case protocol.EventTypeStopped:
		s.state.SetTerminated()
	}

	s.mu.Lock()
	if ev.SessionID != "" {
		s.id = ev.SessionID
	}
	if ev.Model != "" {
		if m, ok := ParseModel(ev.Model); ok {
			s.model = m
		}
	}
	s.mu.Unlock()
}

// publish delivers one event to the sink. Delivery is serialized so the sink
// observes a single ordered stream even with two readers publishing.
func (s *Session) publish(ev protocol.Event) {
	select {
	case <-s.done:
		// Session is stopping; late stream output is dropped.
		return
	default:
	}

	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	s.config.Sink.Publish(ev)
}

// handleStreamEnd marks the session terminated when the primary output
// stream closes. Recovery from an unexpected worker exit is the caller's
// responsibility: the next Send fails with *WriteError.
func (s *Session) handleStreamEnd() {
	if !s.isStopping() {
		s.logger.Info("worker output stream closed", "session_id", s.ID())
	}
	s.state.SetTerminated()
}

func (s *Session) isStopping() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopping
}
