package observability

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kbukum/typedhttp/component"
)

// Config groups the provider sections. A nil section keeps the global
// no-op provider for that signal.
type Config struct {
	Tracing *TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics *MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

type shutdownFunc func(context.Context) error

// Component owns the telemetry providers: it installs them on Start and
// flushes them on Stop, metrics first.
type Component struct {
	cfg Config

	mu       sync.Mutex
	running  bool
	shutdown []shutdownFunc
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a telemetry component.
func NewComponent(cfg Config) *Component {
	return &Component{cfg: cfg}
}

func (c *Component) Name() string { return "telemetry" }

func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}

	var installed []shutdownFunc
	if c.cfg.Tracing != nil {
		tp, err := InitTracer(ctx, c.cfg.Tracing)
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		installed = append(installed, tp.Shutdown)
	}
	if c.cfg.Metrics != nil {
		mp, err := InitMeter(ctx, c.cfg.Metrics)
		if err != nil {
			for _, fn := range installed {
				_ = fn(ctx)
			}
			return fmt.Errorf("telemetry: %w", err)
		}
		installed = append(installed, mp.Shutdown)
	}
	c.shutdown = installed
	c.running = true
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return nil
	}

	var errs []error
	for i := len(c.shutdown) - 1; i >= 0; i-- {
		if err := c.shutdown[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.shutdown = nil
	c.running = false
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("telemetry shutdown: %w", err)
	}
	return nil
}

func (c *Component) Health(context.Context) component.Health {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.running {
		h.Status, h.Message = component.StatusUnhealthy, "not started"
	}
	return h
}

func (c *Component) Describe() component.Description {
	var signals, endpoint string
	switch t, m := c.cfg.Tracing, c.cfg.Metrics; {
	case t != nil && m != nil:
		signals, endpoint = "traces+metrics", t.Endpoint
	case t != nil:
		signals, endpoint = "traces", t.Endpoint
	case m != nil:
		signals, endpoint = "metrics", m.Endpoint
	default:
		return component.Description{Name: "Telemetry", Type: "telemetry", Details: "no-op"}
	}
	return component.Description{Name: "Telemetry", Type: "telemetry", Details: signals + " -> " + endpoint}
}
