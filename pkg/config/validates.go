package config

import (
	"fmt"
	"strings"
)

func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigIsNil
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Audit.Validate(); err != nil {
		return err
	}
	if err := c.Chain.Validate(); err != nil {
		return err
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	if !knownLevels.Contains(strings.ToLower(c.Level)) {
		return fmt.Errorf("%w: %q", ErrUnknownLogLevel, c.Level)
	}

	if !knownFormats.Contains(c.Format) {
		return fmt.Errorf("%w: %q", ErrUnknownLogFormat, c.Format)
	}
	return nil
}

func (c *AuditConfig) Validate() error {
	if !knownBackends.Contains(c.Backend) {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	if c.Backend == BackendBadger && !c.InMemory && c.Dir == "" {
		return ErrMissingAuditDir
	}

	if !knownIDSchemes.Contains(c.IDs) {
		return fmt.Errorf("%w: %q", ErrUnknownIDScheme, c.IDs)
	}
	return nil
}

func (c *ChainConfig) Validate() error {
	for _, name := range c.Strategies {
		if !knownStrategies.Contains(name) {
			return fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
		}
	}

	if c.Concurrency < 0 {
		return ErrInvalidConcurrency
	}
	return nil
}
