package config

import (
	"fmt"

	"github.com/kbukum/typedhttp/httpclient"
	"github.com/kbukum/typedhttp/observability"
)

// ClientConfig is the configuration of a typed HTTP client application.
//
//	name: billing-worker
//	environment: production
//	logging:
//	  level: info
//	http:
//	  base_url: https://billing.example.com
//	  timeout: 10s
//	  retry:
//	    max_attempts: 3
//	telemetry:
//	  tracing:
//	    endpoint: otel-collector:4318
type ClientConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	HTTP      httpclient.Config    `yaml:"http" mapstructure:"http"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills service, adapter and telemetry defaults. The adapter
// and telemetry providers take the service identity when they have none.
func (c *ClientConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()

	if c.HTTP.Name == "" {
		c.HTTP.Name = c.Name
	}
	c.HTTP.ApplyDefaults()

	if t := c.Telemetry.Tracing; t != nil {
		t.Inherit(c.Name, c.Version, c.Environment)
		c.HTTP.Tracing = true
	}
	if m := c.Telemetry.Metrics; m != nil {
		m.Inherit(c.Name, c.Version, c.Environment)
	}
}

// Validate checks the service and adapter sections.
func (c *ClientConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("config.http: %w", err)
	}
	if t := c.Telemetry.Tracing; t != nil && (t.SampleRate < 0 || t.SampleRate > 1) {
		return fmt.Errorf("config.telemetry.tracing.sample_rate must be within [0, 1] (got: %v)", t.SampleRate)
	}
	return nil
}

// Load reads the configuration of serviceName, applies defaults and
// validates it.
func Load(serviceName string, opts ...LoaderOption) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
