// Package config provides configuration management for the verity server.
//
// Config file locations (priority order):
//  1. $VERITY_CONFIG
//  2. ./verity.yaml
//  3. $XDG_CONFIG_HOME/verity/config.yaml
//  4. ~/.config/verity/config.yaml
//  5. /etc/verity/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{
		Version:  1,
		Server:   ServerConfig{Addr: ":3000"},
		Database: DatabaseConfig{Path: "./verity.db"},
		Sync:     SyncConfig{PollInterval: "15m"},
	}
	cfg.Integrations.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./verity.db"
	}
	if c.Sync.PollInterval == "" {
		c.Sync.PollInterval = "15m"
	}
	c.Integrations.applyDefaults()
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	enabled := c.Integrations.EnabledNames()
	summary := fmt.Sprintf("Database: %s, Listen: %s\n", c.Database.Path, c.Server.Addr)
	summary += fmt.Sprintf("Enabled integrations (%d):", len(enabled))
	for _, name := range enabled {
		summary += fmt.Sprintf(" %s", name)
	}
	return summary
}
