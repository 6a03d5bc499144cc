package httpclient

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kbukum/typedhttp/resilience"
)

const (
	defaultTimeout = 30 * time.Second
	defaultName    = "http"
)

// Config configures an Adapter. The nil resilience sections are disabled.
//
//	http:
//	  base_url: https://api.example.com/v1
//	  timeout: 10s
//	  headers: {accept: application/json}
//	  retry: {max_attempts: 3, initial_backoff: 200ms}
//	  circuit_breaker: {max_failures: 5, timeout: 30s}
//	  rate_limiter: {rate: 20, burst: 40}
type Config struct {
	// Name tags logs, spans and metrics. Defaults to "http".
	Name    string        `yaml:"name" mapstructure:"name"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Headers are sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	Auth    Authenticator     `yaml:"-" mapstructure:"-"`
	TLS     *TLSConfig        `yaml:"tls" mapstructure:"tls"`
	// HTTP2 negotiates HTTP/2 over TLS through golang.org/x/net/http2.
	HTTP2 bool `yaml:"http2" mapstructure:"http2"`
	// RequestID adds an X-Request-ID to requests that lack one.
	RequestID bool `yaml:"request_id" mapstructure:"request_id"`
	// Tracing records a client span and request metrics per call on the
	// global OpenTelemetry providers.
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`

	Retry          *resilience.RetryConfig          `yaml:"retry" mapstructure:"retry"`
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	RateLimiter    *resilience.RateLimiterConfig    `yaml:"rate_limiter" mapstructure:"rate_limiter"`
}

// ApplyDefaults sets the name and timeout, and names unnamed resilience
// sections after the adapter.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if cb := c.CircuitBreaker; cb != nil && cb.Name == "" {
		cb.Name = c.Name
	}
	if rl := c.RateLimiter; rl != nil && rl.Name == "" {
		rl.Name = c.Name
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err != nil {
			errs = append(errs, fmt.Errorf("invalid base_url: %w", err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, fmt.Errorf("base_url must be http or https (got: %q)", c.BaseURL))
		}
	}
	if err := c.TLS.Validate(); err != nil {
		errs = append(errs, err)
	}
	if rl := c.RateLimiter; rl != nil && rl.Rate < 0 {
		errs = append(errs, errors.New("rate_limiter.rate must not be negative"))
	}
	return errors.Join(errs...)
}

// DefaultRetryConfig retries only errors marked retryable.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}

// DefaultCircuitBreakerConfig counts only retryable errors as failures, so
// 4xx answers never open the circuit.
func DefaultCircuitBreakerConfig(name string) *resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(name)
	cfg.IsFailure = IsRetryable
	return &cfg
}

// DefaultRateLimiterConfig returns the resilience defaults for name.
func DefaultRateLimiterConfig(name string) *resilience.RateLimiterConfig {
	cfg := resilience.DefaultRateLimiterConfig(name)
	return &cfg
}
