package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/margit/assets"
	"github.com/doeshing/margit/internal/domain"
	"github.com/doeshing/margit/internal/pkg/filesystem"
	"github.com/doeshing/margit/internal/ports"
)

// EnvConfigPath overrides the settings file location.
const EnvConfigPath = "MARGIT_CONFIG"

// FileLoader loads YAML settings from ~/.margit/config.yaml (overridable via MARGIT_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg, err := defaultConfig()
			if err != nil {
				return domain.Config{}, err
			}
			if err := writeDefault(path); err != nil {
				return domain.Config{}, err
			}
			return hydrateDefaults(cfg), nil
		}
		return domain.Config{}, fmt.Errorf("read settings %s: %w", path, err)
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	cfg = hydrateDefaults(cfg)
	if err := cfg.ValidateConsistency(); err != nil {
		return domain.Config{}, fmt.Errorf("settings %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the settings file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), domain.SettingsDirName, domain.SettingsFileName)
}

// Reset overwrites the settings file with the embedded defaults.
func (l *FileLoader) Reset() (domain.Config, error) {
	if err := writeDefault(l.Path()); err != nil {
		return domain.Config{}, fmt.Errorf("reset settings: %w", err)
	}
	return DefaultConfig()
}

// DefaultConfig returns the embedded defaults with derived paths filled in.
func DefaultConfig() (domain.Config, error) {
	cfg, err := defaultConfig()
	if err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return err
	}
	return os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions)
}

func defaultConfig() (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse embedded defaults: %w", err)
	}
	return cfg, nil
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Model.Endpoint == "" {
		cfg.Model.Endpoint = domain.DefaultEndpoint
	}
	if cfg.Model.ModelID == "" {
		cfg.Model.ModelID = domain.DefaultModelID
	}
	if cfg.Execution.Shell == "" {
		cfg.Execution.Shell = domain.DefaultShell
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(filesystem.UserHomeDir(), domain.SettingsDirName, domain.HistoryFileName)
	} else {
		cfg.History.Path = filesystem.ExpandPath(cfg.History.Path)
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
