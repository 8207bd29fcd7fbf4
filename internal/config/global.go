// Where: deliriumctl/internal/config/global.go
// What: Global config load/save helpers.
// Why: Manage ~/.delirium/config.yaml consistently.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/delirium-paste/deliriumctl/internal/constants"
	"github.com/delirium-paste/deliriumctl/internal/meta"
)

// GlobalConfig represents the ~/.delirium/config.yaml global configuration.
// It remembers where the deployment lives and how it was last launched so
// follow-up commands work without re-prompting.
type GlobalConfig struct {
	Version    int          `yaml:"version"`
	InstallDir string       `yaml:"install_dir,omitempty"`
	Profile    string       `yaml:"profile,omitempty"`
	RepoOwner  string       `yaml:"repo_owner,omitempty"`
	Backup     BackupConfig `yaml:"backup,omitempty"`
}

// BackupConfig stores the default destination for backup uploads.
type BackupConfig struct {
	Bucket   string `yaml:"bucket,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Region   string `yaml:"region,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// DefaultGlobalConfig returns an initialized GlobalConfig with version set.
func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		Version:   1,
		RepoOwner: meta.DefaultRepoOwner,
	}
}

// GlobalConfigPath returns the path to the global config file.
// DELIRIUM_HOME overrides the directory holding it.
func GlobalConfigPath() (string, error) {
	if override := strings.TrimSpace(os.Getenv(constants.EnvHome)); override != "" {
		return filepath.Join(override, "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, meta.HomeDir, "config.yaml"), nil
}

// EnsureGlobalConfig creates the global config file if it doesn't exist.
func EnsureGlobalConfig() error {
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return SaveGlobalConfig(path, DefaultGlobalConfig())
		}
		return err
	}
	return nil
}

// LoadGlobalConfig reads and parses the global configuration file.
func LoadGlobalConfig(path string) (GlobalConfig, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return GlobalConfig{}, err
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return GlobalConfig{}, err
	}
	return cfg, nil
}

// SaveGlobalConfig writes a GlobalConfig to the specified path.
func SaveGlobalConfig(path string, cfg GlobalConfig) error {
	payload, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, payload, 0o644)
}

// LoadCurrent loads the global config from its resolved path, falling back to
// defaults when the file is missing.
func LoadCurrent() (GlobalConfig, error) {
	path, err := GlobalConfigPath()
	if err != nil {
		return GlobalConfig{}, err
	}
	cfg, err := LoadGlobalConfig(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultGlobalConfig(), nil
		}
		return GlobalConfig{}, err
	}
	return cfg, nil
}

// SaveCurrent writes cfg to the resolved global config path.
func SaveCurrent(cfg GlobalConfig) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}
	return SaveGlobalConfig(path, cfg)
}
