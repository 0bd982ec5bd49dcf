// Package config loads the YAML configuration file.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/aicoder/assets"
	"github.com/doeshing/aicoder/internal/domain"
	"github.com/doeshing/aicoder/internal/pkg/filesystem"
	"github.com/doeshing/aicoder/internal/ports"
)

// FileLoader loads YAML configuration from ~/.aicoder/config.yaml (overridable
// via AICODER_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is seeded from the
// embedded defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, 0o600); err != nil {
				return domain.Config{}, err
			}
			data = assets.DefaultConfigYAML
		} else {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("AICODER_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".aicoder", "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Preferences.DefaultModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.DefaultModel = cfg.Models[0].Name
	}
	if cfg.Preferences.TimeoutSeconds == 0 {
		cfg.Preferences.TimeoutSeconds = 300
	}
	for i, model := range cfg.Models {
		if model.ContextWindow == 0 {
			cfg.Models[i].ContextWindow = 32768
		}
		if model.MaxTokens == 0 {
			cfg.Models[i].MaxTokens = 2048
		}
		// Out-of-range sampling values from the file are clamped, not
		// rejected.
		cfg.Models[i] = cfg.Models[i].WithTemperature(model.Temperature).WithTopP(model.TopP)
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
