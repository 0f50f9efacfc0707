package engine

import (
	"sync"
	"time"
	"unicode/utf8"
)

const (
	// maxRecentSessions bounds the resumption history.
	maxRecentSessions = 10
	// previewMaxBytes bounds the stored message preview.
	previewMaxBytes = 100
)

// SavedSession is a history entry kept for resumption.
type SavedSession struct {
	SessionID string    `json:"sessionId"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Preview   string    `json:"preview,omitempty"`
}

// Registry tracks the active session and a bounded recency list for
// resumption. History and the active session are managed independently:
// stopping a session does not save it — that is an explicit caller decision
// via SaveCurrent.
type Registry struct {
	mu      sync.Mutex
	current *Session
	recent  []SavedSession // oldest first
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// SetCurrent replaces the active session. The caller must have stopped the
// previous session first; the registry does not tear it down.
func (r *Registry) SetCurrent(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = s
}

// ClearCurrent detaches the active session without saving it.
func (r *Registry) ClearCurrent() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = nil
}

// Current returns the active session, or nil.
func (r *Registry) Current() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// CurrentID returns the active session id, if any.
func (r *Registry) CurrentID() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return "", false
	}
	return r.current.ID(), true
}

// SaveCurrent appends the active session to history with a truncated message
// preview. No-op when no session is active or its id is already saved. At
// capacity the oldest entry is evicted first.
func (r *Registry) SaveCurrent(preview string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return
	}

	id := r.current.ID()
	for _, saved := range r.recent {
		if saved.SessionID == id {
			return
		}
	}

	if len(r.recent) >= maxRecentSessions {
		r.recent = r.recent[len(r.recent)-maxRecentSessions+1:]
	}

	r.recent = append(r.recent, SavedSession{
		SessionID: id,
		Model:     r.current.Model().ID(),
		CreatedAt: time.Now(),
		Preview:   truncatePreview(preview, previewMaxBytes),
	})
}

// Recent returns the history ordered most-recent-first.
func (r *Registry) Recent() []SavedSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]SavedSession, len(r.recent))
	for i, saved := range r.recent {
		out[len(r.recent)-1-i] = saved
	}
	return out
}

// truncatePreview cuts s to at most max bytes without splitting a multi-byte
// character, appending an ellipsis only if truncation occurred.
func truncatePreview(s string, max int) string {
	if len(s) <= max {
		return s
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
