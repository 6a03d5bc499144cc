package component

import "context"

// HealthStatus is the coarse state a component reports.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Health is a component's self-reported state.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Healthy reports whether the status is StatusHealthy.
func (h Health) Healthy() bool { return h.Status == StatusHealthy }

// String renders "name=status" with the message in parentheses when set.
func (h Health) String() string {
	s := h.Name + "=" + string(h.Status)
	if h.Message != "" {
		s += "(" + h.Message + ")"
	}
	return s
}

// Component is a piece of client infrastructure with a start/stop
// lifecycle: the HTTP adapter, the telemetry providers, a fake API.
type Component interface {
	// Name must be unique within a Registry.
	Name() string
	Start(ctx context.Context) error
	// Stop releases resources. It is only called after a successful Start.
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is what a Describable component logs when started.
type Description struct {
	// Name overrides Component.Name in the log line when set.
	Name string
	// Type is a short category such as "http-adapter" or "telemetry".
	Type string
	// Details is a one-line summary, such as a base URL.
	Details string
}

// Describable components add a Description to their start log line.
type Describable interface {
	Describe() Description
}
