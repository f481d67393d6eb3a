// Package config loads runtime configuration for the caregiver CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags: -a, -n, -d, -t, -f, -v.
//
// JSON example:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "max_attempts": 3,
//	  "retry_base_delay": "3s",
//	  "attempt_timeout": "15s",
//	  "cache_file": "caregiver.db",
//	  "verbose": false
//	}
package config
