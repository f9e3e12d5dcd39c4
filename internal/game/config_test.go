package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Columns != 6 || cfg.Rows != 8 || cfg.TickInterval != 500*time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestConfig_ValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
	}{
		{"one column", func(c *Config) { c.Columns = 1 }},
		{"no rows", func(c *Config) { c.Rows = 0 }},
		{"zero min units", func(c *Config) { c.MinUnits = 0 }},
		{"inverted units", func(c *Config) { c.MinUnits = 4; c.MaxUnits = 3 }},
		{"capacity too small", func(c *Config) { c.MaxUnitsPerTeam = 4 }},
		{"half too small", func(c *Config) { c.Columns = 2; c.Rows = 2 }},
		{"zero damage", func(c *Config) { c.MinDamage = 0 }},
		{"inverted damage", func(c *Config) { c.MinDamage = 0.2; c.MaxDamage = 0.1 }},
		{"damage above one", func(c *Config) { c.MaxDamage = 1.5 }},
		{"zero pitch", func(c *Config) { c.TilePitch = 0 }},
		{"zero interval", func(c *Config) { c.TickInterval = 0 }},
		{"negative warmup", func(c *Config) { c.WarmupTicks = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mod(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "battle.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, "columns: 10\nrows: 12\ntick_interval: 250ms\nseed: 9\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Columns != 10 || cfg.Rows != 12 || cfg.Seed != 9 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.TickInterval != 250*time.Millisecond {
		t.Fatalf("expected 250ms interval, got %s", cfg.TickInterval)
	}
	if cfg.MaxUnits != 5 || cfg.MaxDamage != 0.12 {
		t.Fatalf("missing keys should keep defaults: %+v", cfg)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfig(t, "min_units: 9\n")
	if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	path = writeConfig(t, "columns: [1, 2\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected a parse error")
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestNewRand_ZeroSeedIsStable(t *testing.T) {
	a, b := NewRand(0), NewRand(1)
	for i := 0; i < 10; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatal("seed 0 should behave like seed 1")
		}
	}
	if SeedOrClock(42) != 42 {
		t.Fatal("explicit seed should be kept")
	}
}
