package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/caregiver/internal/flagx"
)

var ownedFlags = flagx.Owned{
	Value: []string{"-a", "-n", "-d", "-t", "-f"},
	Bool:  []string{"-v"},
}

// parseFlags populates Config fields from command-line flags.
//
//	-a string   address and port of the backend server
//	-n int      attempts per login/register command
//	-d int      retry base delay (milliseconds)
//	-t int      per-attempt timeout (seconds)
//	-f string   profile cache file
//	-v          verbose logging
//
// Only the flags listed above are picked out of args, so -c/-config and
// anything else is left alone.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.IntVar(&cfg.MaxAttempts, "n", cfg.MaxAttempts, "attempts per login/register command")
	baseDelay := fs.Int("d", int(cfg.RetryBaseDelay.Milliseconds()), "retry base delay (in milliseconds)")
	attemptTimeout := fs.Int("t", int(cfg.AttemptTimeout.Seconds()), "per-attempt timeout (in seconds)")
	fs.StringVar(&cfg.CacheFile, "f", cfg.CacheFile, "profile cache file")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose logging")

	if err := fs.Parse(flagx.FilterArgs(args, ownedFlags)); err != nil {
		panic(err)
	}

	cfg.RetryBaseDelay = time.Duration(*baseDelay) * time.Millisecond
	cfg.AttemptTimeout = time.Duration(*attemptTimeout) * time.Second
}
