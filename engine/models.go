package engine

import "strings"

// Model identifies one of the worker's supported model tiers by its wire id.
type Model string

const (
	// ModelSonnet is the default tier: fast and capable.
	ModelSonnet Model = "sonnet"
	// ModelOpus is the most powerful tier.
	ModelOpus Model = "opus"
	// ModelHaiku is the fastest, most economical tier.
	ModelHaiku Model = "haiku"
)

// DefaultModel is used when no model is specified.
const DefaultModel = ModelSonnet

// Valid reports whether m is part of the closed enumeration.
func (m Model) Valid() bool {
	switch m {
	case ModelSonnet, ModelOpus, ModelHaiku:
		return true
	}
	return false
}

// ID returns the wire identifier sent to the worker.
func (m Model) ID() string {
	return string(m)
}

// DisplayName returns the human-readable model name.
func (m Model) DisplayName() string {
	switch m {
	case ModelSonnet:
		return "Claude Sonnet 4.5"
	case ModelOpus:
		return "Claude Opus 4.5"
	case ModelHaiku:
		return "Claude Haiku 4.5"
	default:
		return string(m)
	}
}

// ParseModel resolves a case-insensitive wire id to a Model.
func ParseModel(s string) (Model, bool) {
	m := Model(strings.ToLower(strings.TrimSpace(s)))
	if m.Valid() {
		return m, true
	}
	return "", false
}

// ModelInfo describes one model tier for display purposes.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AvailableModels lists the supported model tiers, default first.
func AvailableModels() []ModelInfo {
	return []ModelInfo{
		{ID: ModelSonnet.ID(), Name: ModelSonnet.DisplayName(), Description: "Fast and capable, great for most coding tasks"},
		{ID: ModelOpus.ID(), Name: ModelOpus.DisplayName(), Description: "Most powerful, best for complex reasoning"},
		{ID: ModelHaiku.ID(), Name: ModelHaiku.DisplayName(), Description: "Fastest and most economical"},
	}
}
