package playbook

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrBulletNotFound is returned when a bullet id does not exist in the
// project's playbook.
var ErrBulletNotFound = errors.New("playbook: bullet not found")

// Store reads and writes playbooks and reflections under a root directory,
// laid out as playbooks/<projectId>.json, reflections/<projectId>.json and
// config.json.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// DefaultStore returns a store at the conventional per-user location,
// ~/.config/nocur/ace.
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return NewStore(filepath.Join(home, ".config", "nocur", "ace")), nil
}

func (s *Store) playbooksDir() string   { return filepath.Join(s.root, "playbooks") }
func (s *Store) reflectionsDir() string { return filepath.Join(s.root, "reflections") }
func (s *Store) settingsPath() string   { return filepath.Join(s.root, "config.json") }

func (s *Store) playbookPath(projectID string) string {
	return filepath.Join(s.playbooksDir(), projectID+".json")
}

func (s *Store) reflectionsPath(projectID string) string {
	return filepath.Join(s.reflectionsDir(), projectID+".json")
}

// Settings loads store-wide settings, falling back to defaults when the
// config file is missing or unreadable.
func (s *Store) Settings() Settings {
	data, err := os.ReadFile(s.settingsPath())
	if err != nil {
		return DefaultSettings()
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return DefaultSettings()
	}
	return settings
}

// SaveSettings persists store-wide settings.
func (s *Store) SaveSettings(settings Settings) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	return writeJSON(s.settingsPath(), settings)
}

// Load returns the playbook for a project, or nil when none exists yet.
func (s *Store) Load(projectPath string) (*Playbook, error) {
	data, err := os.ReadFile(s.playbookPath(ProjectID(projectPath)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read playbook: %w", err)
	}

	var pb Playbook
	if err := json.Unmarshal(data, &pb); err != nil {
		return nil, fmt.Errorf("parse playbook: %w", err)
	}
	return &pb, nil
}

// Save persists a playbook.
func (s *Store) Save(pb *Playbook) error {
	if err := os.MkdirAll(s.playbooksDir(), 0o755); err != nil {
		return fmt.Errorf("create playbooks directory: %w", err)
	}
	return writeJSON(s.playbookPath(pb.ProjectID), pb)
}

// GetOrCreate returns the project's playbook, creating and persisting an
// empty one from the store settings if it does not exist.
func (s *Store) GetOrCreate(projectPath string) (*Playbook, error) {
	pb, err := s.Load(projectPath)
	if err != nil {
		return nil, err
	}
	if pb != nil {
		return pb, nil
	}

	settings := s.Settings()
	now := nowMillis()
	pb = &Playbook{
		ProjectID:   ProjectID(projectPath),
		ProjectPath: projectPath,
		Enabled:     settings.Enabled,
		MaxBullets:  settings.DefaultMaxBullets,
		MaxTokens:   settings.DefaultMaxTokens,
		Bullets:     []Bullet{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Save(pb); err != nil {
		return nil, err
	}
	return pb, nil
}

// AddBullet appends a new active bullet to the project's playbook.
func (s *Store) AddBullet(projectPath string, section Section, content string) (Bullet, error) {
	if !section.Valid() {
		return Bullet{}, fmt.Errorf("playbook: unknown section %q", section)
	}

	pb, err := s.GetOrCreate(projectPath)
	if err != nil {
		return Bullet{}, err
	}

	now := nowMillis()
	b := Bullet{
		ID:        newBulletID(section),
		ProjectID: pb.ProjectID,
		Section:   section,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Active:    true,
	}

	pb.Bullets = append(pb.Bullets, b)
	pb.UpdatedAt = now
	if err := s.Save(pb); err != nil {
		return Bullet{}, err
	}
	return b, nil
}

// UpdateBullet replaces a bullet's content.
func (s *Store) UpdateBullet(projectPath, bulletID, content string) (Bullet, error) {
	var updated Bullet
	err := s.mutateBullet(projectPath, bulletID, func(b *Bullet, now uint64) {
		b.Content = content
		b.UpdatedAt = now
		updated = *b
	})
	return updated, err
}

// DeactivateBullet retires a bullet without removing it, so stored
// reflections can still reference it.
func (s *Store) DeactivateBullet(projectPath, bulletID string) error {
	return s.mutateBullet(projectPath, bulletID, func(b *Bullet, now uint64) {
		b.Active = false
		b.UpdatedAt = now
	})
}

func (s *Store) mutateBullet(projectPath, bulletID string, fn func(*Bullet, uint64)) error {
	pb, err := s.GetOrCreate(projectPath)
	if err != nil {
		return err
	}

	now := nowMillis()
	for i := range pb.Bullets {
		if pb.Bullets[i].ID == bulletID {
			fn(&pb.Bullets[i], now)
			pb.UpdatedAt = now
			return s.Save(pb)
		}
	}
	return fmt.Errorf("%w: %s", ErrBulletNotFound, bulletID)
}

// ApplyTags increments bullet tag counts from reflector feedback. Tags for
// unknown bullet ids are skipped.
func (s *Store) ApplyTags(projectPath string, tags []TagEntry) error {
	pb, err := s.GetOrCreate(projectPath)
	if err != nil {
		return err
	}

	now := nowMillis()
	for _, entry := range tags {
		for i := range pb.Bullets {
			b := &pb.Bullets[i]
			if b.ID != entry.ID {
				continue
			}
			switch entry.Tag {
			case TagHelpful:
				b.HelpfulCount++
			case TagHarmful:
				b.HarmfulCount++
			case TagNeutral:
				b.NeutralCount++
			}
			used := now
			b.LastUsedAt = &used
			b.UpdatedAt = now
			break
		}
	}

	pb.UpdatedAt = now
	return s.Save(pb)
}

// SetEnabled toggles playbook use for a project.
func (s *Store) SetEnabled(projectPath string, enabled bool) error {
	pb, err := s.GetOrCreate(projectPath)
	if err != nil {
		return err
	}
	pb.Enabled = enabled
	pb.UpdatedAt = nowMillis()
	return s.Save(pb)
}

// Reflections returns all stored reflections for a project, oldest first.
func (s *Store) Reflections(projectPath string) ([]StoredReflection, error) {
	data, err := os.ReadFile(s.reflectionsPath(ProjectID(projectPath)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reflections: %w", err)
	}

	var log reflectionsLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("parse reflections: %w", err)
	}
	return log.Reflections, nil
}

// SaveReflection records a reflection for a project. Id, project id and
// timestamp are filled in when absent.
func (s *Store) SaveReflection(projectPath string, r StoredReflection) error {
	projectID := ProjectID(projectPath)
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.ProjectID == "" {
		r.ProjectID = projectID
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = nowMillis()
	}

	existing, err := s.Reflections(projectPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.reflectionsDir(), 0o755); err != nil {
		return fmt.Errorf("create reflections directory: %w", err)
	}
	return writeJSON(s.reflectionsPath(projectID), reflectionsLog{
		ProjectID:   projectID,
		Reflections: append(existing, r),
	})
}

// ListProjects returns the project ids of every stored playbook.
func (s *Store) ListProjects() ([]string, error) {
	entries, err := os.ReadDir(s.playbooksDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read playbooks directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".json") {
			ids = append(ids, strings.TrimSuffix(name, ".json"))
		}
	}
	return ids, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func nowMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}

func newBulletID(section Section) string {
	ts := time.Now().UnixMilli()
	return fmt.Sprintf("%s-%x%04x", section.idPrefix(), ts%0xFFFFFF, rand.Uint32()%0xFFFF)
}
