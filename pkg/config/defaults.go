package config

import (
	"runtime"

	"conflict-resolver/pkg/resolver"
	"conflict-resolver/pkg/structs"
)

const (
	BackendMemory = "memory"
	BackendBadger = "badger"

	IDsUUID     = "uuid"
	IDsSequence = "sequence"

	FormatJSON = "json"
	FormatText = "text"
)

var (
	knownBackends   = structs.NewSet(BackendMemory, BackendBadger)
	knownIDSchemes  = structs.NewSet(IDsUUID, IDsSequence)
	knownFormats    = structs.NewSet(FormatJSON, FormatText)
	knownLevels     = structs.NewSet("debug", "info", "warn", "error")
	knownStrategies = structs.NewSet(resolver.Names()...)
)

var defaultLogging = LoggingConfig{
	Level:  "info",
	Format: FormatJSON,
}

var defaultAudit = AuditConfig{
	Enabled: true,
	Backend: BackendMemory,
	Shards:  64,
	IDs:     IDsUUID,
}

func defaultChain() ChainConfig {
	return ChainConfig{
		Strategies:  []string{},
		Concurrency: runtime.GOMAXPROCS(0),
	}
}

func Default() *Config {
	return &Config{
		Logging: defaultLogging,
		Audit:   defaultAudit,
		Chain:   defaultChain(),
	}
}

func (c *LoggingConfig) PopulateDefaults() {
	if c.Level == "" {
		c.Level = defaultLogging.Level
	}

	if c.Format == "" {
		c.Format = defaultLogging.Format
	}
}

func (c *AuditConfig) PopulateDefaults() {
	if c.Backend == "" {
		c.Backend = defaultAudit.Backend
	}

	if c.Shards == 0 {
		c.Shards = defaultAudit.Shards
	}

	if c.IDs == "" {
		c.IDs = defaultAudit.IDs
	}
}

func (c *ChainConfig) PopulateDefaults() {
	if c.Strategies == nil {
		c.Strategies = []string{}
	}

	if c.Concurrency == 0 {
		c.Concurrency = defaultChain().Concurrency
	}
}

func (c *Config) PopulateDefaults() {
	c.Logging.PopulateDefaults()
	c.Audit.PopulateDefaults()
	c.Chain.PopulateDefaults()
}
