package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Capacity != 500 {
		t.Fatalf("default capacity, got %d", cfg.Capacity)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("default log level, got %q", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Fatalf("default log format, got %q", cfg.LogFormat)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "stow.json")
	data := []byte(`{"dataDir":"/tmp/stow-data","capacity":64,"logLevel":"debug","logFormat":"json"}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/tmp/stow-data" {
		t.Fatalf("expected data dir override, got %q", cfg.DataDir)
	}
	if cfg.Capacity != 64 {
		t.Fatalf("expected 64, got %d", cfg.Capacity)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("expected json, got %q", cfg.LogFormat)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadBadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "stow.json")
	if err := os.WriteFile(file, []byte("{nope"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(file); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	os.Setenv("STOW_DATA_DIR", "/custom/stow")
	os.Setenv("STOW_CAPACITY", "12")
	os.Setenv("STOW_LOG_LEVEL", "warn")
	t.Cleanup(func() {
		os.Unsetenv("STOW_DATA_DIR")
		os.Unsetenv("STOW_CAPACITY")
		os.Unsetenv("STOW_LOG_LEVEL")
	})
	FromEnv(&cfg)
	if cfg.DataDir != "/custom/stow" {
		t.Fatalf("env override data dir")
	}
	if cfg.Capacity != 12 {
		t.Fatalf("env override capacity")
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("env override log level")
	}
}

func TestFromEnvIgnoresBadCapacity(t *testing.T) {
	cfg := Default()
	os.Setenv("STOW_CAPACITY", "not-a-number")
	t.Cleanup(func() { os.Unsetenv("STOW_CAPACITY") })
	FromEnv(&cfg)
	if cfg.Capacity != 500 {
		t.Fatalf("bad capacity should be ignored, got %d", cfg.Capacity)
	}

	os.Setenv("STOW_CAPACITY", "-5")
	FromEnv(&cfg)
	if cfg.Capacity != 500 {
		t.Fatalf("negative capacity should be ignored, got %d", cfg.Capacity)
	}
}
