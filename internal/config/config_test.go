package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Keys.QuickAdd != "ctrl+k" || cfg.Keys.Undo != "ctrl+z" {
		t.Fatalf("unexpected default keys %+v", cfg.Keys)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
}

func TestLoadOrCreateReadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "db_path = \"boards.db\"\n\n[keys]\nquick_add = \"ctrl+n\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "boards.db" {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
	if cfg.Keys.QuickAdd != "ctrl+n" {
		t.Fatalf("unexpected quick add key %q", cfg.Keys.QuickAdd)
	}
}

func TestLoadOrCreateFillsEmptyDBPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("db_path = \"\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath == "" {
		t.Fatal("empty db path should fall back to the default")
	}
}
