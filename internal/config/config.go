// Package config loads cagestat configuration from YAML with defaulted
// fields. A missing config file is not an error; a malformed one is.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"cagestat/internal/aggregate"
	"cagestat/internal/pairstat"
)

// Config holds the analysis parameters and tool paths.
type Config struct {
	// Store is the path to the record store file (YAML or JSON).
	Store string `yaml:"store"`

	// Days lists the day labels to include, in order.
	Days []string `yaml:"days"`

	// Agg names the aggregation applied across days: mean, median, or sum.
	Agg string `yaml:"agg"`

	// Alpha is the significance threshold for the paired test.
	Alpha float64 `yaml:"alpha"`

	// HistoryDB is the path to the SQLite run-history database.
	HistoryDB string `yaml:"history_db"`

	// LogLevel sets logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config with the standard defaults: the full
// eight-day window, mean aggregation, and alpha 0.05.
func DefaultConfig() *Config {
	return &Config{
		Days:      aggregate.DefaultDays(),
		Agg:       "mean",
		Alpha:     pairstat.DefaultAlpha,
		HistoryDB: filepath.Join(".cagestat", "history.db"),
		LogLevel:  "info",
	}
}

// LoadConfig loads configuration from the given path. A nonexistent file
// yields defaults without error; a file that exists but fails to parse or
// validate is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks field values against their allowed ranges.
func (c *Config) Validate() error {
	if _, err := aggregate.ParseAgg(c.Agg); err != nil {
		return err
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0,1), got %v", c.Alpha)
	}
	if len(c.Days) == 0 {
		return fmt.Errorf("days list must not be empty")
	}
	return nil
}
