package config

import (
	"time"

	"github.com/lootworks/floorsync/internal/pricing"
)

// Default values for optional configuration fields.
const (
	DefaultPollInterval       = 30 * time.Second
	DefaultConcurrency        = 3
	DefaultGatewayTimeout     = 10 * time.Second
	DefaultMaxAttempts        = 5
	DefaultRetryWait          = 500 * time.Millisecond
	DefaultRelayTimeout       = 10 * time.Second
	DefaultReconnectBaseDelay = 1 * time.Second
	DefaultReconnectMaxDelay  = 60 * time.Second
	DefaultStreamWriteTimeout = 5 * time.Second
	DefaultDBPort             = 5432
	DefaultDBSSLMode          = "prefer"
	DefaultMaxConns           = 4
	DefaultMinConns           = 1
	DefaultBatchSize          = 100
	DefaultFlushInterval      = 1 * time.Second
	DefaultHealthPort         = 8080
)

func (c *BotConfig) applyDefaults() {
	if c.Pricing.UndercutBps == nil {
		bps := pricing.DefaultUndercutBps
		c.Pricing.UndercutBps = &bps
	}

	if c.Scheduler.PollInterval == 0 {
		c.Scheduler.PollInterval = DefaultPollInterval
	}
	if c.Scheduler.Concurrency == 0 {
		c.Scheduler.Concurrency = DefaultConcurrency
	}

	applyGatewayDefaults(&c.Stats)
	applyGatewayDefaults(&c.Listings)

	if c.Relay.Timeout == 0 {
		c.Relay.Timeout = DefaultRelayTimeout
	}
	if c.Relay.MaxAttempts == 0 {
		c.Relay.MaxAttempts = DefaultMaxAttempts
	}
	if c.Relay.RetryWait == 0 {
		c.Relay.RetryWait = DefaultRetryWait
	}

	if c.Stream.ReconnectBaseDelay == 0 {
		c.Stream.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Stream.ReconnectMaxDelay == 0 {
		c.Stream.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = DefaultStreamWriteTimeout
	}
	if c.Stream.MaxStale == 0 {
		// A quote older than two poll intervals came from a dead feed.
		c.Stream.MaxStale = 2 * c.Scheduler.PollInterval
	}

	if c.Journal.BatchSize == 0 {
		c.Journal.BatchSize = DefaultBatchSize
	}
	if c.Journal.FlushInterval == 0 {
		c.Journal.FlushInterval = DefaultFlushInterval
	}
	applyDBDefaults(&c.Journal.Database)

	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}
}

func applyGatewayDefaults(g *GatewayConfig) {
	if g.Timeout == 0 {
		g.Timeout = DefaultGatewayTimeout
	}
	if g.MaxAttempts == 0 {
		g.MaxAttempts = DefaultMaxAttempts
	}
	if g.RetryWait == 0 {
		g.RetryWait = DefaultRetryWait
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
