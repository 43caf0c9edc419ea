package config

import "time"

// BotConfig is the root configuration for a floorsync instance.
type BotConfig struct {
	Collections []string        `yaml:"collections"`
	DryRun      bool            `yaml:"dry_run"`
	Pricing     PricingConfig   `yaml:"pricing"`
	Scheduler   SchedulerConfig `yaml:"scheduler"`
	Stats       GatewayConfig   `yaml:"stats"`
	Listings    GatewayConfig   `yaml:"listings"`
	Relay       RelayConfig     `yaml:"relay"`
	Stream      StreamConfig    `yaml:"stream"`
	Journal     JournalConfig   `yaml:"journal"`
	Health      HealthConfig    `yaml:"health"`
}

// PricingConfig holds the undercut policy.
type PricingConfig struct {
	// Discount in basis points, 0-10000. A pointer so an explicit 0
	// (sell exactly at the reference) is distinct from unset.
	UndercutBps *int    `yaml:"undercut_bps"`
	MinTick     float64 `yaml:"min_tick"` // Venue price grid, 0 = no grid
}

// SchedulerConfig holds poll loop settings.
type SchedulerConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	Concurrency  int           `yaml:"concurrency"`
}

// GatewayConfig holds one marketplace HTTP gateway.
type GatewayConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Wallet      string        `yaml:"wallet"` // Offerer address filter (listings gateway only)
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"` // Total call attempts including the first
	RetryWait   time.Duration `yaml:"retry_wait"`   // Fixed wait between attempts
}

// RelayConfig holds the optional on-chain relay service.
type RelayConfig struct {
	Enabled     bool          `yaml:"enabled"`
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"` // Total call attempts including the first
	RetryWait   time.Duration `yaml:"retry_wait"`   // Fixed wait between attempts
}

// StreamConfig holds the optional live quote feed.
type StreamConfig struct {
	Enabled            bool          `yaml:"enabled"`
	URL                string        `yaml:"url"`
	APIKey             string        `yaml:"api_key"`
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	MaxStale           time.Duration `yaml:"max_stale"` // Streamed quotes older than this are ignored
}

// JournalConfig holds the optional snapshot journal.
type JournalConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Database      DBConfig      `yaml:"database"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// DBConfig holds a single PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int `yaml:"port"`
}
