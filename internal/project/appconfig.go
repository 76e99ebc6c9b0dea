// Package project persists configuration and run reports as TOML files.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// DefaultConfigDir returns ~/.atlaspack, or ./.atlaspack when the home
// directory is unknown.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".atlaspack")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

// SaveAppConfig writes config to path as TOML, creating parent directories.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeTOML(path, config)
}

// LoadAppConfig reads an AppConfig from path. Keys missing from the file keep
// their default values; a missing file yields DefaultAppConfig.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return model.AppConfig{}, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	if config.CustomPresets == nil {
		config.CustomPresets = []model.Preset{}
	}
	if config.DefaultStrategy != "" {
		if _, err := model.ParseStrategy(config.DefaultStrategy); err != nil {
			return model.AppConfig{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	return config, nil
}

func writeTOML(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
