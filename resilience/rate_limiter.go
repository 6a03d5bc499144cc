package resilience

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when a token cannot be obtained in time.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimiterConfig configures a token bucket.
type RateLimiterConfig struct {
	// Name identifies the limiter in logs and callbacks.
	Name string `yaml:"name" mapstructure:"name"`
	// Rate is the sustained number of requests per second.
	Rate float64 `yaml:"rate" mapstructure:"rate"`
	// Burst is the bucket size. Defaults to Rate rounded down, at least 1.
	Burst int `yaml:"burst" mapstructure:"burst"`
	// OnLimit is called whenever a request is refused.
	OnLimit func(name string) `yaml:"-" mapstructure:"-"`
}

// DefaultRateLimiterConfig allows 10 requests per second with bursts of 20.
func DefaultRateLimiterConfig(name string) RateLimiterConfig {
	return RateLimiterConfig{Name: name, Rate: 10, Burst: 20}
}

// RateLimiter is a token bucket shared by every request of an adapter.
type RateLimiter struct {
	cfg     RateLimiterConfig
	limiter *rate.Limiter
}

// NewRateLimiter creates a full bucket. A non-positive Rate falls back to 10.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Rate <= 0 {
		cfg.Rate = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = max(int(cfg.Rate), 1)
	}
	return &RateLimiter{cfg: cfg, limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)}
}

// Allow takes a token if one is available, without blocking.
func (rl *RateLimiter) Allow() bool {
	if rl.limiter.Allow() {
		return true
	}
	rl.refused()
	return false
}

// Wait blocks until a token is available. It returns the context error when
// ctx ends first, and ErrRateLimited when the token would arrive after the
// context deadline.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	err := rl.limiter.Wait(ctx)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		rl.refused()
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
}

// Tokens returns the tokens currently in the bucket.
func (rl *RateLimiter) Tokens() float64 {
	return rl.limiter.Tokens()
}

// Name returns the configured limiter name.
func (rl *RateLimiter) Name() string {
	return rl.cfg.Name
}

func (rl *RateLimiter) refused() {
	if rl.cfg.OnLimit != nil {
		rl.cfg.OnLimit(rl.cfg.Name)
	}
}
