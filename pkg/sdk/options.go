package sdk

import (
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

// Defaults used by NewClient.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 500 * time.Millisecond
)

type settings struct {
	timeout time.Duration
	retry   retry.Config
}

func defaultSettings() settings {
	return settings{
		timeout: DefaultTimeout,
		retry: retry.Config{
			MaxAttempts:   DefaultMaxAttempts,
			InitialDelay:  DefaultInitialDelay,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Option configures the SDK client.
type Option func(*settings)

// WithTimeout bounds each tool call; a forecast over a large workspace may
// need more than the default.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// WithRetry sets how often a failed transport call is attempted and the
// first backoff delay. One attempt disables retries.
func WithRetry(maxAttempts int, initialDelay time.Duration) Option {
	return func(s *settings) {
		s.retry.MaxAttempts = maxAttempts
		s.retry.InitialDelay = initialDelay
	}
}
