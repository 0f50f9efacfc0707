// Package config loads per-project engine configuration from .nocur.yaml.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up in the project root.
const FileName = ".nocur.yaml"

// Project holds per-project configuration from .nocur.yaml.
type Project struct {
	// Worker overrides the worker binary looked up on PATH.
	Worker string `yaml:"worker"`
	// Model is the default model id for sessions in this project.
	Model string `yaml:"model"`
	// SkipPermissions disables the worker's permission prompts.
	SkipPermissions bool `yaml:"skip_permissions"`
	// Skills lists skill names injected into every new session.
	Skills []string `yaml:"skills"`
}

// Load reads .nocur.yaml from a project path.
// Returns a zero config if the file doesn't exist.
func Load(projectPath string) (*Project, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, FileName))
	if os.IsNotExist(err) {
		return &Project{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Project
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
