package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryConfig configures exponential-backoff retries.
type RetryConfig struct {
	// MaxAttempts counts the first call. Defaults to 3.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
	// InitialBackoff is the delay before the second attempt.
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
	// MaxBackoff caps any single delay.
	MaxBackoff time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
	// BackoffFactor multiplies the delay after each attempt.
	BackoffFactor float64 `yaml:"backoff_factor" mapstructure:"backoff_factor"`
	// Jitter randomizes each delay by up to this fraction, clamped to [0,1].
	Jitter float64 `yaml:"jitter" mapstructure:"jitter"`
	// RetryIf selects the errors worth another attempt.
	RetryIf func(error) bool `yaml:"-" mapstructure:"-"`
	// OnRetry runs before sleeping; attempt is the number of the failed call.
	OnRetry func(attempt int, err error, backoff time.Duration) `yaml:"-" mapstructure:"-"`
}

// DefaultRetryConfig returns three attempts starting at 100ms.
func DefaultRetryConfig() RetryConfig {
	cfg := RetryConfig{Jitter: 0.1}
	cfg.applyDefaults()
	return cfg
}

// DefaultRetryIf retries everything but context cancellation and expiry.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *RetryConfig) applyDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 100 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = 2
	}
	c.Jitter = min(max(c.Jitter, 0), 1)
	if c.RetryIf == nil {
		c.RetryIf = DefaultRetryIf
	}
}

func newBackOff(cfg RetryConfig) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialBackoff
	b.RandomizationFactor = cfg.Jitter
	b.Multiplier = cfg.BackoffFactor
	b.MaxInterval = cfg.MaxBackoff
	b.Reset()
	return b
}

// Retry calls fn until it succeeds, fails with an error RetryIf rejects, or
// runs out of attempts. The returned error is fn's last error, or the context
// error when ctx ends while waiting.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	cfg.applyDefaults()

	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	attempt := 0
	opts := []backoff.RetryOption{
		backoff.WithBackOff(newBackOff(cfg)),
		backoff.WithMaxTries(uint(cfg.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
	}
	if cfg.OnRetry != nil {
		opts = append(opts, backoff.WithNotify(func(err error, next time.Duration) {
			cfg.OnRetry(attempt, err, next)
		}))
	}

	result, err := backoff.Retry(ctx, func() (T, error) {
		attempt++
		v, err := fn()
		if err != nil && !cfg.RetryIf(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, opts...)
	if err == nil {
		return result, nil
	}

	// backoff leaves the wrapper on a permanent error from the final try.
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	return zero, err
}
