// Package playbook persists per-project agent playbooks and reflection logs
// as JSON files under a single store directory.
//
// A playbook accumulates curated bullets of project knowledge grouped into
// fixed sections; reflections record post-task analysis and feed tag counts
// back onto the bullets they reference.
package playbook

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// Section identifies the playbook section a bullet belongs to.
type Section string

const (
	SectionStrategies      Section = "strategies_and_hard_rules"
	SectionCodeSnippets    Section = "useful_code_snippets"
	SectionTroubleshooting Section = "troubleshooting_and_pitfalls"
	SectionAPIs            Section = "apis_to_use_for_specific_information"
	SectionVerification    Section = "verification_checklist"
	SectionGlossary        Section = "domain_glossary"
)

// Valid reports whether s is a known section.
func (s Section) Valid() bool {
	switch s {
	case SectionStrategies, SectionCodeSnippets, SectionTroubleshooting,
		SectionAPIs, SectionVerification, SectionGlossary:
		return true
	}
	return false
}

// idPrefix returns the short prefix used in bullet ids for this section.
func (s Section) idPrefix() string {
	switch s {
	case SectionStrategies:
		return "strat"
	case SectionCodeSnippets:
		return "code"
	case SectionTroubleshooting:
		return "trou"
	case SectionAPIs:
		return "apis"
	case SectionVerification:
		return "veri"
	case SectionGlossary:
		return "doma"
	}
	return "misc"
}

// Tag is reflector feedback applied to a bullet.
type Tag string

const (
	TagHelpful Tag = "helpful"
	TagHarmful Tag = "harmful"
	TagNeutral Tag = "neutral"
)

// Bullet is one curated item of project knowledge. Timestamps are Unix
// milliseconds. Bullets are never deleted, only deactivated, so reflection
// logs can keep referencing them.
type Bullet struct {
	ID           string  `json:"id"`
	ProjectID    string  `json:"projectId"`
	Section      Section `json:"section"`
	Content      string  `json:"content"`
	HelpfulCount int     `json:"helpfulCount"`
	HarmfulCount int     `json:"harmfulCount"`
	NeutralCount int     `json:"neutralCount"`
	CreatedAt    uint64  `json:"createdAt"`
	UpdatedAt    uint64  `json:"updatedAt"`
	LastUsedAt   *uint64 `json:"lastUsedAt"`
	Active       bool    `json:"active"`
}

// Playbook is the full per-project knowledge document.
type Playbook struct {
	ProjectID   string   `json:"projectId"`
	ProjectPath string   `json:"projectPath"`
	Enabled     bool     `json:"aceEnabled"`
	MaxBullets  int      `json:"maxBullets"`
	MaxTokens   int      `json:"maxTokens"`
	Bullets     []Bullet `json:"bullets"`
	CreatedAt   uint64   `json:"createdAt"`
	UpdatedAt   uint64   `json:"updatedAt"`
}

// ActiveBullets returns the bullets still in play, in insertion order.
func (p *Playbook) ActiveBullets() []Bullet {
	var out []Bullet
	for _, b := range p.Bullets {
		if b.Active {
			out = append(out, b)
		}
	}
	return out
}

// TagEntry ties a reflector tag to the bullet it grades.
type TagEntry struct {
	ID  string `json:"id"`
	Tag Tag    `json:"tag"`
}

// Reflection is the structured output of a reflector pass over one task.
type Reflection struct {
	Reasoning           string     `json:"reasoning" jsonschema:"description=Step-by-step reasoning about what happened during the task"`
	ErrorIdentification string     `json:"errorIdentification" jsonschema:"description=What went wrong; 'none' if the task succeeded"`
	RootCauseAnalysis   string     `json:"rootCauseAnalysis" jsonschema:"description=Why the error happened"`
	CorrectApproach     string     `json:"correctApproach" jsonschema:"description=What should have been done instead"`
	KeyInsight          string     `json:"keyInsight" jsonschema:"description=The single transferable lesson from this task"`
	BulletTags          []TagEntry `json:"bulletTags" jsonschema:"description=Feedback tags for the playbook bullets that were used"`
}

// StoredReflection is a reflection with its task context, as persisted.
type StoredReflection struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	SessionID   string     `json:"sessionId"`
	Task        string     `json:"task"`
	Outcome     string     `json:"outcome"`
	Reflection  Reflection `json:"reflection"`
	BulletsUsed []string   `json:"bulletsUsed"`
	CreatedAt   uint64     `json:"createdAt"`
}

// reflectionsLog is the on-disk container for a project's reflections.
type reflectionsLog struct {
	ProjectID   string             `json:"projectId"`
	Reflections []StoredReflection `json:"reflections"`
}

// Settings holds store-wide playbook defaults, persisted as config.json in
// the store directory.
type Settings struct {
	Enabled             bool    `json:"enabled"`
	DefaultMaxBullets   int     `json:"defaultMaxBullets"`
	DefaultMaxTokens    int     `json:"defaultMaxTokens"`
	ReflectorModel      string  `json:"reflectorModel"`
	CuratorModel        string  `json:"curatorModel"`
	AutoReflect         bool    `json:"autoReflect"`
	AutoCurate          bool    `json:"autoCurate"`
	SimilarityThreshold float64 `json:"similarityThreshold"`
}

// DefaultSettings returns the settings used when no config.json exists.
func DefaultSettings() Settings {
	return Settings{
		Enabled:             true,
		DefaultMaxBullets:   100,
		DefaultMaxTokens:    8000,
		ReflectorModel:      "claude-sonnet-4-20250514",
		CuratorModel:        "claude-sonnet-4-20250514",
		AutoReflect:         false,
		AutoCurate:          false,
		SimilarityThreshold: 0.85,
	}
}

// ProjectID derives a short stable id from a project path. The path is
// canonicalized first so symlinked and relative spellings of the same
// project map to the same playbook.
func ProjectID(path string) string {
	canonical := path
	if abs, err := filepath.Abs(path); err == nil {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			canonical = resolved
		} else {
			canonical = abs
		}
	}

	digest := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(digest[:8])
}
