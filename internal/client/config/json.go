package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/caregiver/internal/flagx"
	"github.com/dmitrijs2005/caregiver/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// timex.Duration values ("3s" or integer nanoseconds). Pointer fields tell
// "absent" apart from zero.
type JsonConfig struct {
	ServerEndpointAddr string          `json:"server_endpoint_addr"`
	MaxAttempts        *int            `json:"max_attempts"`
	RetryBaseDelay     *timex.Duration `json:"retry_base_delay"`
	AttemptTimeout     *timex.Duration `json:"attempt_timeout"`
	CacheFile          string          `json:"cache_file"`
	Verbose            *bool           `json:"verbose"`
}

// parseJson overlays Config with the JSON file named by -c or -config.
// Missing keys keep their current values. Read or decode errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.MaxAttempts != nil {
		cfg.MaxAttempts = *jc.MaxAttempts
	}
	if jc.RetryBaseDelay != nil {
		cfg.RetryBaseDelay = jc.RetryBaseDelay.Duration
	}
	if jc.AttemptTimeout != nil {
		cfg.AttemptTimeout = jc.AttemptTimeout.Duration
	}
	if jc.CacheFile != "" {
		cfg.CacheFile = jc.CacheFile
	}
	if jc.Verbose != nil {
		cfg.Verbose = *jc.Verbose
	}
}
