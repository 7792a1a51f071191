package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if cfg.Grid.Cols <= 0 || cfg.Grid.Rows <= 0 {
		t.Fatalf("expected positive grid dimensions, got cols=%d rows=%d", cfg.Grid.Cols, cfg.Grid.Rows)
	}
	if len(cfg.Waves) == 0 {
		t.Fatal("expected at least one wave in embedded defaults")
	}
	if cfg.Derived.MaxDeltaTime32 != float32(cfg.Physics.MaxDeltaTime) {
		t.Fatalf("derived MaxDeltaTime32 not computed: got %v want %v", cfg.Derived.MaxDeltaTime32, float32(cfg.Physics.MaxDeltaTime))
	}
}

func TestLoadRejectsNonPositiveGrid(t *testing.T) {
	fixture := []byte("grid:\n  cols: 0\n  rows: 10\n")
	cfg := &Config{}
	if err := yaml.Unmarshal(fixture, cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.Grid.Cols > 0 {
		t.Fatalf("expected zero cols in fixture")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, fixture, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected Load to reject a config with zero grid cols")
	}
}

func TestMustInitPanicsOnMissingFile(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected MustInit to panic on an unreadable path")
		}
	}()
	MustInit("/nonexistent/path/to/config.yaml")
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() { global = saved }()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected Cfg() to panic before Init()")
		}
	}()
	Cfg()
}
