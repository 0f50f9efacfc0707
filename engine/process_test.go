package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nocur/engine/protocol"
)

func TestBuildArgs_Default(t *testing.T) {
	pm := newProcessManager(defaultConfig())
	args := pm.BuildArgs()

	expected := []string{
		"--input-format", "stream-json",
		"--output-format", "stream-json",
		"--verbose",
	}
	assert.Equal(t, expected, args)
}

func TestBuildArgs_WithModel(t *testing.T) {
	config := defaultConfig()
	config.Model = ModelOpus
	pm := newProcessManager(config)
	args := pm.BuildArgs()

	assert.Contains(t, args, "--model")
	assert.Contains(t, args, "opus")
}

func TestBuildArgs_WithResume(t *testing.T) {
	config := defaultConfig()
	config.ResumeSessionID = "sess-42"
	pm := newProcessManager(config)
	args := pm.BuildArgs()

	assert.Contains(t, args, "--resume")
	assert.Contains(t, args, "sess-42")
}

func TestBuildArgs_WithSkipPermissions(t *testing.T) {
	config := defaultConfig()
	config.SkipPermissions = true
	pm := newProcessManager(config)

	assert.Contains(t, pm.BuildArgs(), "--dangerously-skip-permissions")
}

func TestBuildArgs_NoOptionalFlagsByDefault(t *testing.T) {
	pm := newProcessManager(defaultConfig())
	joined := strings.Join(pm.BuildArgs(), " ")

	assert.NotContains(t, joined, "--model")
	assert.NotContains(t, joined, "--resume")
	assert.NotContains(t, joined, "--dangerously-skip-permissions")
}

func TestProcessManager_WriteBeforeStart(t *testing.T) {
	pm := newProcessManager(defaultConfig())

	err := pm.WriteCommand(protocol.NewMessage("hi"))
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestProcessManager_KillBeforeStartIsNoop(t *testing.T) {
	pm := newProcessManager(defaultConfig())
	pm.Kill()
	pm.Kill()
}

func TestEnhancedEnv_AppendsToPath(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")

	env := enhancedEnv()
	var path string
	for _, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			path = kv
			break
		}
	}

	assert.True(t, strings.HasPrefix(path, "PATH=/usr/bin:"))
	assert.Contains(t, path, "/usr/local/bin")
	assert.Contains(t, path, "/.local/bin")
}
