package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the caregiver CLI.
type Config struct {
	ServerEndpointAddr string
	// MaxAttempts caps the sign-in and registration attempts of one command.
	MaxAttempts int
	// RetryBaseDelay is the wait before the first retry; the n-th retry
	// waits n times as long.
	RetryBaseDelay time.Duration
	// AttemptTimeout bounds a single remote attempt.
	AttemptTimeout time.Duration
	// CacheFile is the SQLite file holding the cached profile.
	CacheFile string
	Verbose   bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.MaxAttempts = 3
	c.RetryBaseDelay = 3 * time.Second
	c.AttemptTimeout = 15 * time.Second
	c.CacheFile = "caregiver.db"
	c.Verbose = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
