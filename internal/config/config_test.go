package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Agg != "mean" {
		t.Errorf("Agg = %q, want mean", cfg.Agg)
	}
	if cfg.Alpha != 0.05 {
		t.Errorf("Alpha = %v, want 0.05", cfg.Alpha)
	}
	if len(cfg.Days) != 8 || cfg.Days[0] != "D1" || cfg.Days[7] != "D8" {
		t.Errorf("Days = %v, want D1..D8", cfg.Days)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should yield defaults, got %v", err)
	}
	if cfg.Agg != "mean" {
		t.Errorf("Agg = %q, want default mean", cfg.Agg)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cagestat.yaml")
	content := `
store: observations.yaml
days: [D1, D2, D3, D4]
agg: median
alpha: 0.01
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Store != "observations.yaml" {
		t.Errorf("Store = %q", cfg.Store)
	}
	if len(cfg.Days) != 4 {
		t.Errorf("Days = %v", cfg.Days)
	}
	if cfg.Agg != "median" {
		t.Errorf("Agg = %q", cfg.Agg)
	}
	if cfg.Alpha != 0.01 {
		t.Errorf("Alpha = %v", cfg.Alpha)
	}
	// Unset fields keep their defaults.
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", cfg.LogLevel)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("days: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad agg", func(c *Config) { c.Agg = "mode" }, true},
		{"alpha too low", func(c *Config) { c.Alpha = 0 }, true},
		{"alpha too high", func(c *Config) { c.Alpha = 1 }, true},
		{"no days", func(c *Config) { c.Days = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
