package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/AtlasPack/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := model.DefaultAppConfig()
	cfg.DefaultPageWidth = 1024
	cfg.DefaultPadding = 1
	cfg.DefaultStrategy = string(model.StrategyFirstFit)
	cfg.OutputDir = "build/atlas"
	cfg.CustomPresets = []model.Preset{{Name: "switch", PageWidth: 2048, PageHeight: 1024, Padding: 2}}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}
	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultPageWidth != 1024 {
		t.Errorf("expected DefaultPageWidth=1024, got %d", loaded.DefaultPageWidth)
	}
	if loaded.DefaultPadding != 1 {
		t.Errorf("expected DefaultPadding=1, got %d", loaded.DefaultPadding)
	}
	if loaded.DefaultStrategy != "first-fit" {
		t.Errorf("expected first-fit, got %s", loaded.DefaultStrategy)
	}
	if loaded.OutputDir != "build/atlas" {
		t.Errorf("expected OutputDir=build/atlas, got %s", loaded.OutputDir)
	}
	if len(loaded.CustomPresets) != 1 || loaded.CustomPresets[0].Name != "switch" {
		t.Errorf("expected custom preset switch, got %+v", loaded.CustomPresets)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.toml")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	defaults := model.DefaultAppConfig()
	if cfg.DefaultPageWidth != defaults.DefaultPageWidth || cfg.AtlasName != defaults.AtlasName {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("default_padding = 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.DefaultPadding != 0 {
		t.Errorf("expected padding 0, got %d", cfg.DefaultPadding)
	}
	if cfg.DefaultPageWidth != 4096 {
		t.Errorf("expected default width 4096, got %d", cfg.DefaultPageWidth)
	}
	if cfg.CustomPresets == nil {
		t.Error("CustomPresets must never be nil")
	}
}

func TestLoadAppConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"invalid toml", "default_padding = [", "failed to parse"},
		{"unknown key", "page_widht = 12\n", "unknown config key"},
		{"bad strategy", "default_strategy = \"best\"\n", "unknown strategy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadAppConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "config.toml")

	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to exist: %v", err)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.toml" || filepath.Base(filepath.Dir(path)) != ".atlaspack" {
		t.Errorf("unexpected default config path %s", path)
	}
}
