package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Project{}, cfg)
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	content := `worker: /usr/local/bin/claude
model: opus
skip_permissions: true
skills:
  - search
  - browser
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/claude", cfg.Worker)
	assert.Equal(t, "opus", cfg.Model)
	assert.True(t, cfg.SkipPermissions)
	assert.Equal(t, []string{"search", "browser"}, cfg.Skills)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("model: [unclosed"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
