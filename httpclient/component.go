package httpclient

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kbukum/typedhttp/component"
)

// Component owns an Adapter inside a component.Registry. The adapter is
// built on Start and released on Stop.
type Component struct {
	config Config
	opts   []Option

	mu      sync.RWMutex
	adapter *Adapter
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent defers building the adapter until Start.
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

func (c *Component) Name() string {
	if c.config.Name == "" {
		return defaultName
	}
	return c.config.Name
}

// Start builds the adapter. Starting twice is an error.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.adapter != nil {
		return fmt.Errorf("%s: already started", c.Name())
	}
	a, err := New(c.config, c.opts...)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Name(), err)
	}
	c.adapter = a
	return nil
}

// Stop drops idle connections and forgets the adapter.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	a := c.adapter
	c.adapter = nil
	c.mu.Unlock()
	if a == nil {
		return nil
	}
	return a.Close(ctx)
}

// Health is degraded while the circuit breaker is open.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	a := c.Adapter()
	switch {
	case a == nil:
		h.Status, h.Message = component.StatusUnhealthy, "not started"
	case !a.IsAvailable(ctx):
		h.Status, h.Message = component.StatusDegraded, "circuit open"
	}
	return h
}

// Describe lists the base URL and the resilience layers in use.
func (c *Component) Describe() component.Description {
	details := []string{c.config.BaseURL}
	if r := c.config.Retry; r != nil {
		details = append(details, fmt.Sprintf("retry x%d", max(r.MaxAttempts, 1)))
	}
	if c.config.CircuitBreaker != nil {
		details = append(details, "circuit breaker")
	}
	if rl := c.config.RateLimiter; rl != nil {
		details = append(details, fmt.Sprintf("%g req/s", rl.Rate))
	}
	return component.Description{
		Name:    c.Name(),
		Type:    "http-adapter",
		Details: strings.Join(details, ", "),
	}
}

// Adapter returns the running adapter, or nil outside Start and Stop.
func (c *Component) Adapter() *Adapter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.adapter
}
