package observability

import (
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// InstrumentationName names the tracer and meter used by this module.
const InstrumentationName = "github.com/kbukum/typedhttp"

// Exporter identifies the reporting service and the OTLP/HTTP collector
// that receives its telemetry.
type Exporter struct {
	ServiceName    string `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (development, staging, production).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the collector host:port, e.g. "localhost:4318".
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
}

func localExporter(serviceName string) Exporter {
	return Exporter{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
	}
}

// Inherit fills the blank identity fields from the owning service.
func (e *Exporter) Inherit(name, version, environment string) {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&e.ServiceName, name)
	fill(&e.ServiceVersion, version)
	fill(&e.Environment, environment)
}

// resource describes the service. The attributes are schemaless so they
// merge with the SDK default resource whatever its schema version.
func (e Exporter) resource() (*resource.Resource, error) {
	return resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(e.ServiceName),
		semconv.ServiceVersion(e.ServiceVersion),
		semconv.DeploymentEnvironment(e.Environment),
	))
}
