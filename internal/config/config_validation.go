package config

import "fmt"

// validate checks that the merged configuration is complete enough to run
// the agent. It is called by the builder after all layers are merged.
func (c *StructuredConfig) validate() error {
	if c.Adapter.BaseURL == "" {
		return ErrNoBaseURL
	}
	if c.Storage.DB.DSN == "" {
		return ErrNoDatabasePath
	}
	if len(c.Sync.Entities) == 0 {
		return ErrNoEntities
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("sync interval %s: %w", c.Sync.Interval, ErrBadInterval)
	}
	if c.Probe.Interval <= 0 {
		return fmt.Errorf("probe interval %s: %w", c.Probe.Interval, ErrBadInterval)
	}

	return nil
}
