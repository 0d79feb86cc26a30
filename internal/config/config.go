package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tallybook-dev/tallybook/internal/match"
)

// FileName is the workspace configuration file.
const FileName = "tallybook.yaml"

// Config represents the top-level tallybook.yaml configuration.
type Config struct {
	Ledger   LedgerConfig  `yaml:"ledger"`
	Matching match.Config  `yaml:"matching"`
	Import   ImportConfig  `yaml:"import"`
	Logging  LoggingConfig `yaml:"logging"`
}

// LedgerConfig locates the ledger database.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// ImportConfig controls import-time defaults.
type ImportConfig struct {
	DefaultCategory string `yaml:"default_category"`
	User            string `yaml:"user"` // owning user recorded on imported rows
	AuditLog        string `yaml:"audit_log"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a tallybook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default() *Config {
	return &Config{
		Ledger:   LedgerConfig{Path: "tallybook.db"},
		Matching: match.DefaultConfig(),
		Import: ImportConfig{
			DefaultCategory: "Uncategorized",
			User:            "local",
			AuditLog:        "logs/import-log.csv",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
