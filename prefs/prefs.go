// Package prefs persists per-user engine preferences as a single JSON file,
// by default ~/.nocur/preferences.json.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Preferences holds user-level defaults and per-session bookkeeping.
type Preferences struct {
	// Model is the preferred model id, empty for the engine default.
	Model string `json:"model,omitempty"`
	// Skills lists skill names injected into every new session.
	Skills []string `json:"skills"`
	// SkipPermissions disables the worker's permission prompts.
	SkipPermissions bool `json:"skipPermissions"`
	// SessionNames maps session ids to stable human-friendly names.
	SessionNames map[string]string `json:"sessionNames,omitempty"`
	// ActiveSessions maps project paths to their active session id.
	ActiveSessions map[string]string `json:"activeSessions,omitempty"`
}

// File reads and writes preferences at a fixed path. Methods reload from
// disk on each call so concurrent processes see each other's writes.
type File struct {
	path string
}

// NewFile creates a preferences file handle at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// DefaultFile returns the per-user preferences file, ~/.nocur/preferences.json.
func DefaultFile() (*File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return NewFile(filepath.Join(home, ".nocur", "preferences.json")), nil
}

// Load reads preferences from disk. A missing file yields zero preferences.
func (f *File) Load() (Preferences, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Preferences{}, nil
		}
		return Preferences{}, fmt.Errorf("read preferences: %w", err)
	}

	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		return Preferences{}, fmt.Errorf("parse preferences: %w", err)
	}
	return p, nil
}

// Save writes preferences to disk, creating the parent directory if needed.
func (f *File) Save(p Preferences) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize preferences: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

// Update loads, applies fn, and saves in one step.
func (f *File) Update(fn func(*Preferences)) error {
	p, err := f.Load()
	if err != nil {
		return err
	}
	fn(&p)
	return f.Save(p)
}

// ActiveSession returns the active session id recorded for a project.
func (f *File) ActiveSession(projectPath string) (string, bool, error) {
	p, err := f.Load()
	if err != nil {
		return "", false, err
	}
	id, ok := p.ActiveSessions[projectPath]
	return id, ok, nil
}

// SetActiveSession records the active session for a project. An empty id
// clears the entry.
func (f *File) SetActiveSession(projectPath, sessionID string) error {
	return f.Update(func(p *Preferences) {
		if sessionID == "" {
			delete(p.ActiveSessions, projectPath)
			return
		}
		if p.ActiveSessions == nil {
			p.ActiveSessions = make(map[string]string)
		}
		p.ActiveSessions[projectPath] = sessionID
	})
}
