package component

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kbukum/typedhttp/logger"
)

// DefaultStopTimeout bounds each component's Stop call.
const DefaultStopTimeout = 10 * time.Second

type slot struct {
	c       Component
	started bool
}

// Registry starts components in registration order and stops them in
// reverse, so dependencies must be registered first.
type Registry struct {
	mu          sync.RWMutex
	slots       []*slot
	stopTimeout time.Duration
	log         *logger.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithStopTimeout changes the per-component Stop deadline.
func WithStopTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) { r.stopTimeout = d }
}

// WithRegistryLogger replaces the "registry" component logger.
func WithRegistryLogger(l *logger.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{stopTimeout: DefaultStopTimeout}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.WithComponent("registry")
	}
	return r
}

func (r *Registry) find(name string) *slot {
	i := slices.IndexFunc(r.slots, func(s *slot) bool { return s.c.Name() == name })
	if i < 0 {
		return nil
	}
	return r.slots[i]
}

// Register appends c. Names must be unique.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(c.Name()) != nil {
		return fmt.Errorf("component %s already registered", c.Name())
	}
	r.slots = append(r.slots, &slot{c: c})
	return nil
}

// StartAll starts every component not yet running. It stops at the first
// failure and leaves the earlier components running for StopAll.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if s.started {
			continue
		}
		fields := logger.Fields(logger.FieldComponent, s.c.Name())
		if err := s.c.Start(ctx); err != nil {
			r.log.Error("component start failed", logger.MergeWithError(fields, err))
			return fmt.Errorf("failed to start %s: %w", s.c.Name(), err)
		}
		s.started = true

		if d, ok := s.c.(Describable); ok {
			desc := d.Describe()
			if desc.Name != "" {
				fields[logger.FieldComponent] = desc.Name
			}
			fields["type"], fields["details"] = desc.Type, desc.Details
		}
		r.log.Info("component started", fields)
	}
	return nil
}

// StopAll stops running components in reverse order. Every one gets its
// attempt; the failures are joined.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, s := range slices.Backward(r.slots) {
		if !s.started {
			continue
		}
		s.started = false
		if err := r.stop(ctx, s.c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) stop(ctx context.Context, c Component) error {
	ctx, cancel := context.WithTimeout(ctx, r.stopTimeout)
	defer cancel()

	fields := logger.Fields(logger.FieldComponent, c.Name())
	if err := c.Stop(ctx); err != nil {
		r.log.Error("component stop failed", logger.MergeWithError(fields, err))
		return fmt.Errorf("failed to stop %s: %w", c.Name(), err)
	}
	r.log.Info("component stopped", fields)
	return nil
}

// HealthAll asks every registered component for its health, in
// registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hs := make([]Health, len(r.slots))
	for i, s := range r.slots {
		hs[i] = s.c.Health(ctx)
	}
	return hs
}

// Get returns the component registered as name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s := r.find(name); s != nil {
		return s.c
	}
	return nil
}

// All returns the components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cs := make([]Component, len(r.slots))
	for i, s := range r.slots {
		cs[i] = s.c
	}
	return cs
}
