package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromPathMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.DBPath != "" || cfg.ViewMode != "" {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
	if !cfg.WrapDefault() {
		t.Fatalf("wrap should default to on")
	}
}

func TestLoadFromPathParsesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"db_path":"/tmp/reviews.db","author":"alice","view_mode":"side-by-side","wrap":false,"theme":{"primary":"#ff00ff"}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.DBPath != "/tmp/reviews.db" {
		t.Fatalf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ViewMode != "side-by-side" {
		t.Fatalf("ViewMode = %q", cfg.ViewMode)
	}
	if cfg.WrapDefault() {
		t.Fatalf("wrap=false should disable wrapping")
	}
	if cfg.Theme.Primary != "#ff00ff" {
		t.Fatalf("Theme.Primary = %q", cfg.Theme.Primary)
	}
}

func TestLoadFromPathRejectsBadViewMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"view_mode":"split"}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected error for invalid view_mode")
	}
}

func TestDefaultPathUsesXDGConfigHome(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error = %v", err)
	}

	want := filepath.Join(xdg, "critview", "config.json")
	if got != want {
		t.Fatalf("DefaultPath()=%q want %q", got, want)
	}
}
