package testutil

import (
	"context"
	"fmt"

	"github.com/kbukum/typedhttp/component"
)

// Manager runs several test components through a component.Registry so they
// start in registration order and stop in reverse.
type Manager struct {
	ctx      context.Context
	registry *component.Registry
}

// NewManager creates a manager whose lifecycle calls use ctx.
func NewManager(ctx context.Context) *Manager {
	return &Manager{ctx: ctx, registry: component.NewRegistry()}
}

// Add registers c. Names must be unique.
func (m *Manager) Add(c TestComponent) error {
	return m.registry.Register(c)
}

// Components returns the registered components in registration order.
func (m *Manager) Components() []TestComponent {
	all := m.registry.All()
	out := make([]TestComponent, 0, len(all))
	for _, c := range all {
		out = append(out, c.(TestComponent))
	}
	return out
}

// Get returns the component registered as name, or nil.
func (m *Manager) Get(name string) TestComponent {
	c := m.registry.Get(name)
	if c == nil {
		return nil
	}
	return c.(TestComponent)
}

// StartAll starts every component, stopping at the first failure.
func (m *Manager) StartAll() error {
	return m.registry.StartAll(m.ctx)
}

// StopAll stops started components in reverse order and joins failures.
func (m *Manager) StopAll() error {
	return m.registry.StopAll(m.ctx)
}

// Health reports the health of every component.
func (m *Manager) Health() []component.Health {
	return m.registry.HealthAll(m.ctx)
}

// ResetAll resets every component, stopping at the first failure.
func (m *Manager) ResetAll() error {
	for _, c := range m.Components() {
		if err := c.Reset(m.ctx); err != nil {
			return fmt.Errorf("failed to reset component %s: %w", c.Name(), err)
		}
	}
	return nil
}

// Cleanup stops everything. It fits t.Cleanup and defer.
func (m *Manager) Cleanup() error {
	return m.StopAll()
}
