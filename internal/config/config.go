package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"critview/internal/theme"
)

const (
	configDirName  = "critview"
	configFileName = "config.json"
)

// AppConfig is the on-disk configuration. Every field is optional; a missing
// or empty file yields the defaults.
type AppConfig struct {
	// DBPath points at the review projection database. The --db flag wins.
	DBPath string `json:"db_path,omitempty"`
	// Author recorded on comments written from this client.
	Author string `json:"author,omitempty"`
	// ViewMode is "unified" or "side-by-side".
	ViewMode string `json:"view_mode,omitempty"`
	// Wrap enables line wrapping in the diff pane.
	Wrap *bool `json:"wrap,omitempty"`
	// Theme overrides individual palette seed colors.
	Theme theme.Seed `json:"theme,omitempty"`
}

func Load() (AppConfig, string, error) {
	path, err := DefaultPath()
	if err != nil {
		return AppConfig{}, "", err
	}
	cfg, err := LoadFromPath(path)
	return cfg, path, err
}

func LoadFromPath(path string) (AppConfig, error) {
	var cfg AppConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return AppConfig{}, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}

	switch cfg.ViewMode {
	case "", "unified", "side-by-side":
	default:
		return AppConfig{}, fmt.Errorf("view_mode %q must be unified or side-by-side", cfg.ViewMode)
	}

	return cfg, nil
}

// WrapDefault resolves the wrap setting, defaulting to on.
func (c AppConfig) WrapDefault() bool {
	if c.Wrap == nil {
		return true
	}
	return *c.Wrap
}

func DefaultPath() (string, error) {
	home, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

func configHome() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return xdg, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}
