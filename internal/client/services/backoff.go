package services

import (
	"time"

	"github.com/sethvargo/go-retry"
)

// progressiveBackoff waits n*base before the n-th retry and stops once
// maxAttempts attempts have been made.
func progressiveBackoff(base time.Duration, maxAttempts int) retry.Backoff {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var n int64
	next := retry.BackoffFunc(func() (time.Duration, bool) {
		n++
		return time.Duration(n) * base, false
	})
	return retry.WithMaxRetries(uint64(maxAttempts-1), next)
}
