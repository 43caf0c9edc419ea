package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *BotConfig) Validate() error {
	if len(c.Collections) == 0 {
		return errors.New("collections is required (comma-separated COLLECTION_SLUGS or yaml list)")
	}
	for i, slug := range c.Collections {
		if slug == "" {
			return fmt.Errorf("collections[%d] is empty", i)
		}
	}

	if bps := c.Pricing.UndercutBps; bps != nil && (*bps < 0 || *bps > 10000) {
		return fmt.Errorf("pricing.undercut_bps must be between 0 and 10000, got %d", *bps)
	}
	if c.Pricing.MinTick < 0 {
		return fmt.Errorf("pricing.min_tick must be >= 0, got %v", c.Pricing.MinTick)
	}

	if c.Scheduler.PollInterval <= 0 {
		return errors.New("scheduler.poll_interval must be > 0")
	}
	if c.Scheduler.Concurrency < 1 {
		return errors.New("scheduler.concurrency must be >= 1")
	}

	if err := c.Stats.validate("stats"); err != nil {
		return err
	}
	if err := c.Listings.validate("listings"); err != nil {
		return err
	}

	if c.Relay.Enabled && c.Relay.BaseURL == "" {
		return errors.New("relay.base_url is required when relay is enabled")
	}
	if c.Stream.Enabled && c.Stream.URL == "" {
		return errors.New("stream.url is required when stream is enabled")
	}

	if c.Journal.Enabled {
		if err := c.Journal.Database.validate("journal.database"); err != nil {
			return err
		}
		if c.Journal.BatchSize < 1 {
			return errors.New("journal.batch_size must be >= 1")
		}
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	return nil
}

func (g *GatewayConfig) validate(prefix string) error {
	if g.BaseURL == "" {
		return fmt.Errorf("%s.base_url is required", prefix)
	}
	if g.Timeout <= 0 {
		return fmt.Errorf("%s.timeout must be > 0", prefix)
	}
	if g.MaxAttempts < 1 {
		return fmt.Errorf("%s.max_attempts must be >= 1", prefix)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
