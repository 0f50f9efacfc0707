package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_Valid(t *testing.T) {
	assert.True(t, ModelSonnet.Valid())
	assert.True(t, ModelOpus.Valid())
	assert.True(t, ModelHaiku.Valid())
	assert.False(t, Model("gpt-4").Valid())
	assert.False(t, Model("").Valid())
}

func TestDefaultModel(t *testing.T) {
	assert.Equal(t, ModelSonnet, DefaultModel)
}

func TestParseModel(t *testing.T) {
	tests := []struct {
		in   string
		want Model
		ok   bool
	}{
		{"sonnet", ModelSonnet, true},
		{"OPUS", ModelOpus, true},
		{"  haiku  ", ModelHaiku, true},
		{"unknown", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseModel(tt.in)
		assert.Equal(t, tt.ok, ok, "input: %q", tt.in)
		assert.Equal(t, tt.want, got, "input: %q", tt.in)
	}
}

func TestAvailableModels_DefaultFirst(t *testing.T) {
	models := AvailableModels()
	require.Len(t, models, 3)
	assert.Equal(t, DefaultModel.ID(), models[0].ID)

	for _, m := range models {
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.Description)
	}
}
