// Package config handles configuration loading and validation for organizer.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/organizer/internal/idalloc"
)

// Config holds the application configuration.
type Config struct {
	IDStrategy    string            `yaml:"id_strategy"`
	IDPrefix      string            `yaml:"id_prefix"`
	Snapshot      string            `yaml:"snapshot"`
	CommitTimeout time.Duration     `yaml:"commit_timeout"`
	Persistence   PersistenceConfig `yaml:"persistence"`
	DataDir       string            `yaml:"-"` // set by caller, not from config file
}

// PersistenceConfig controls the SQLite task store.
type PersistenceConfig struct {
	Enabled        bool `yaml:"enabled"`
	MaxOpenConns   int  `yaml:"max_open_conns"`
	MaxIdleConns   int  `yaml:"max_idle_conns"`
	BusyTimeout    int  `yaml:"busy_timeout"` // milliseconds
	ConnectRetries int  `yaml:"connect_retries"`
}

var prefixPattern = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		IDStrategy:    string(idalloc.StrategyULID),
		IDPrefix:      "T",
		CommitTimeout: 5 * time.Second,
		Persistence: PersistenceConfig{
			Enabled:        true,
			MaxOpenConns:   1,
			MaxIdleConns:   1,
			BusyTimeout:    5000,
			ConnectRetries: 5,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.IDStrategy == "" {
		c.IDStrategy = defaults.IDStrategy
	}
	if c.CommitTimeout == 0 {
		c.CommitTimeout = defaults.CommitTimeout
	}
	if c.Persistence.MaxOpenConns == 0 {
		c.Persistence.MaxOpenConns = defaults.Persistence.MaxOpenConns
	}
	if c.Persistence.MaxIdleConns == 0 {
		c.Persistence.MaxIdleConns = defaults.Persistence.MaxIdleConns
	}
	if c.Persistence.BusyTimeout == 0 {
		c.Persistence.BusyTimeout = defaults.Persistence.BusyTimeout
	}
	if c.Persistence.ConnectRetries == 0 {
		c.Persistence.ConnectRetries = defaults.Persistence.ConnectRetries
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if _, err := idalloc.ParseStrategy(c.IDStrategy); err != nil {
		return fmt.Errorf("id_strategy: %w", err)
	}

	if !prefixPattern.MatchString(c.IDPrefix) {
		return fmt.Errorf("id_prefix %q may only contain letters, digits, '-' and '_'", c.IDPrefix)
	}

	if c.CommitTimeout < 0 {
		return fmt.Errorf("commit_timeout cannot be negative")
	}

	p := c.Persistence
	if p.MaxOpenConns < 1 {
		return fmt.Errorf("persistence.max_open_conns must be at least 1")
	}
	if p.MaxIdleConns < 0 || p.MaxIdleConns > p.MaxOpenConns {
		return fmt.Errorf("persistence.max_idle_conns must be between 0 and max_open_conns")
	}
	if p.BusyTimeout < 0 {
		return fmt.Errorf("persistence.busy_timeout cannot be negative")
	}
	if p.ConnectRetries < 1 {
		return fmt.Errorf("persistence.connect_retries must be at least 1")
	}

	return nil
}

// Strategy returns the parsed id strategy. Call after Validate.
func (c *Config) Strategy() idalloc.Strategy {
	st, _ := idalloc.ParseStrategy(c.IDStrategy)
	return st
}
