package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerURL != "" {
		t.Errorf("expected empty config, got server %q", cfg.ServerURL)
	}
}

func TestSaveAndLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := &Config{
		ServerURL:       "http://backend:9000",
		PreferMarker:    "gemma",
		GenerateTimeout: 120,
		LatestVersion:   "1.2.0",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(home, ".testgen", "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ServerURL != cfg.ServerURL || loaded.PreferMarker != cfg.PreferMarker {
		t.Errorf("loaded config mismatch: %+v", loaded)
	}
	if loaded.GenerateTimeoutDuration() != 2*time.Minute {
		t.Errorf("expected 2m timeout, got %s", loaded.GenerateTimeoutDuration())
	}
}

func TestResolvePrecedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := (&Config{ServerURL: "http://from-file:8000", ExportDir: "/exports"}).Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	t.Setenv("TESTGEN_SERVER_URL", "http://from-env:8000")
	t.Setenv("TESTGEN_GENERATE_TIMEOUT", "30")

	cfg, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if cfg.ServerURL != "http://from-env:8000" {
		t.Errorf("expected env server url, got %q", cfg.ServerURL)
	}
	if cfg.ExportDir != "/exports" {
		t.Errorf("expected file export dir, got %q", cfg.ExportDir)
	}
	if cfg.PreferMarker != DefaultPreferMarker {
		t.Errorf("expected default marker, got %q", cfg.PreferMarker)
	}
	if cfg.GenerateTimeout != 30 {
		t.Errorf("expected timeout 30, got %d", cfg.GenerateTimeout)
	}
}

func TestGenerateTimeoutZeroMeansNone(t *testing.T) {
	cfg := &Config{}
	if cfg.GenerateTimeoutDuration() != 0 {
		t.Errorf("expected no timeout, got %s", cfg.GenerateTimeoutDuration())
	}
}

func TestShouldCheckForUpdate(t *testing.T) {
	cfg := &Config{LastUpdateCheck: time.Now()}
	if cfg.ShouldCheckForUpdate() {
		t.Error("expected no check right after a check")
	}
	cfg.LastUpdateCheck = time.Now().Add(-25 * time.Hour)
	if !cfg.ShouldCheckForUpdate() {
		t.Error("expected check after 25 hours")
	}
}
