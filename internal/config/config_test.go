package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("CITYSCAN_INPUT_DIR", filepath.Join(tmp, "input"))
	t.Setenv("CITYSCAN_OUTPUT_DIR", filepath.Join(tmp, "output"))
	t.Setenv("DATABASE_PATH", filepath.Join(tmp, "db", "cityscan.db"))
	t.Setenv("CITYSCAN_DEFAULT_ERA", "")
	t.Setenv("WATCH_DEBOUNCE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DefaultEra != "VirtualFuture" {
		t.Errorf("Expected default era VirtualFuture, got %s", cfg.DefaultEra)
	}
	if cfg.WatchDebounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %s", cfg.WatchDebounce)
	}
}

func TestLoadFromEnv(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("CITYSCAN_INPUT_DIR", filepath.Join(tmp, "in"))
	t.Setenv("CITYSCAN_OUTPUT_DIR", filepath.Join(tmp, "out"))
	t.Setenv("DATABASE_PATH", filepath.Join(tmp, "cityscan.db"))
	t.Setenv("CITYSCAN_DEFAULT_ERA", "SpaceAgeMars")
	t.Setenv("WATCH_DEBOUNCE", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.InputDir != filepath.Join(tmp, "in") {
		t.Errorf("Unexpected input dir: %s", cfg.InputDir)
	}
	if cfg.DefaultEra != "SpaceAgeMars" {
		t.Errorf("Unexpected default era: %s", cfg.DefaultEra)
	}
	if cfg.WatchDebounce != 2*time.Second {
		t.Errorf("Unexpected debounce: %s", cfg.WatchDebounce)
	}
}

func TestLoadInvalidDebounceFallsBack(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("CITYSCAN_OUTPUT_DIR", filepath.Join(tmp, "out"))
	t.Setenv("DATABASE_PATH", filepath.Join(tmp, "cityscan.db"))
	t.Setenv("WATCH_DEBOUNCE", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.WatchDebounce != 500*time.Millisecond {
		t.Errorf("Expected fallback debounce, got %s", cfg.WatchDebounce)
	}
}
