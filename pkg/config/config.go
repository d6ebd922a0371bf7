package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Audit   AuditConfig   `yaml:"audit"`
	Chain   ChainConfig   `yaml:"chain"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AuditConfig struct {
	Enabled bool `yaml:"enabled"`
	// Backend is "memory" or "badger".
	Backend    string `yaml:"backend"`
	Dir        string `yaml:"dir"`
	InMemory   bool   `yaml:"in_memory"`
	SyncWrites bool   `yaml:"sync_writes"`
	Shards     int    `yaml:"shards"`
	// IDs is "uuid" or "sequence".
	IDs string `yaml:"ids"`
}

type ChainConfig struct {
	// Strategies selects the strategies the chain may use; empty means all.
	// The chain always runs them in priority order.
	Strategies  []string `yaml:"strategies"`
	Concurrency int      `yaml:"concurrency"`
}

// Read loads path, fills defaults and validates the result.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes data over Default(), so keys the document omits keep their
// default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.PopulateDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
