package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*BotConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg BotConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	return &cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*BotConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// FromEnv builds a config purely from environment variables, applies
// defaults, and validates. This is the no-config-file path; the variable
// names match the original bot's .env surface.
func FromEnv() (*BotConfig, error) {
	cfg := &BotConfig{
		Collections: splitSlugs(os.Getenv("COLLECTION_SLUGS")),
		DryRun:      envBool("DRY_RUN", false),
		Pricing: PricingConfig{
			MinTick: envFloat("MIN_TICK", 0),
		},
		Scheduler: SchedulerConfig{
			PollInterval: time.Duration(envInt("POLL_INTERVAL_MS", 0)) * time.Millisecond,
			Concurrency:  envInt("CONCURRENCY", 0),
		},
		Stats: GatewayConfig{
			BaseURL: strings.TrimRight(os.Getenv("STATS_BASE_URL"), "/"),
			APIKey:  os.Getenv("STATS_API_KEY"),
		},
		Listings: GatewayConfig{
			BaseURL: strings.TrimRight(os.Getenv("LISTINGS_BASE_URL"), "/"),
			APIKey:  os.Getenv("LISTINGS_API_KEY"),
			Wallet:  os.Getenv("WALLET_ADDRESS"),
		},
		Relay: RelayConfig{
			Enabled: os.Getenv("RELAY_BASE_URL") != "",
			BaseURL: strings.TrimRight(os.Getenv("RELAY_BASE_URL"), "/"),
			APIKey:  os.Getenv("RELAY_API_KEY"),
		},
		Stream: StreamConfig{
			Enabled: os.Getenv("STREAM_URL") != "",
			URL:     os.Getenv("STREAM_URL"),
			APIKey:  os.Getenv("STATS_API_KEY"),
		},
	}

	// An explicit UNDERCUT_BPS=0 is a valid sell-at-reference policy, so
	// only an absent variable falls through to the default.
	if v := os.Getenv("UNDERCUT_BPS"); v != "" {
		if bps, err := strconv.Atoi(v); err == nil {
			cfg.Pricing.UndercutBps = &bps
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// splitSlugs parses a comma-separated slug list, dropping empty entries.
func splitSlugs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if slug := strings.TrimSpace(part); slug != "" {
			out = append(out, slug)
		}
	}
	return out
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}
