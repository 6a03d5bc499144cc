package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/typedhttp/logger"
)

// MeterConfig configures metric export.
type MeterConfig struct {
	Exporter `yaml:",inline" mapstructure:",squash"`

	// Interval between exports. Zero keeps the SDK default.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultMeterConfig exports to a local collector every 15 seconds.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{Exporter: localExporter(serviceName), Interval: 15 * time.Second}
}

// InitMeter installs a periodic OTLP meter provider globally. The caller
// owns the provider's shutdown.
func InitMeter(ctx context.Context, cfg *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}
	res, err := cfg.resource()
	if err != nil {
		return nil, fmt.Errorf("metric resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.WithComponent("telemetry").Info("metrics enabled", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// RequestMetrics records outbound exchanges and decode outcomes.
type RequestMetrics struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
	retries  metric.Int64Counter
	rejected metric.Int64Counter
}

// NewRequestMetrics registers the request instruments on meter.
func NewRequestMetrics(meter metric.Meter) (*RequestMetrics, error) {
	var errs []error
	check := func(name string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("instrument %s: %w", name, err))
		}
	}

	m := &RequestMetrics{}
	var err error
	m.total, err = meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Outbound requests by client, method and status"))
	check("http.client.request.total", err)
	m.duration, err = meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Outbound request latency"), metric.WithUnit("s"))
	check("http.client.request.duration", err)
	m.inFlight, err = meter.Int64UpDownCounter("http.client.active_requests",
		metric.WithDescription("Outbound requests awaiting a response"))
	check("http.client.active_requests", err)
	m.retries, err = meter.Int64Counter("http.client.retry.total",
		metric.WithDescription("Outbound requests sent again after a retryable failure"))
	check("http.client.retry.total", err)
	m.rejected, err = meter.Int64Counter("typedhttp.decode.failures",
		metric.WithDescription("Response bodies rejected by a decoder"))
	check("typedhttp.decode.failures", err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

func clientAttrs(client string, extra ...attribute.KeyValue) metric.MeasurementOption {
	return metric.WithAttributes(append([]attribute.KeyValue{attribute.String("client", client)}, extra...)...)
}

// RecordRequestStart marks an exchange in flight.
func (m *RequestMetrics) RecordRequestStart(ctx context.Context, client string) {
	m.inFlight.Add(ctx, 1, clientAttrs(client))
}

// RecordRequestEnd closes an exchange opened by RecordRequestStart. status
// is the HTTP status code, or an error class when no response arrived.
func (m *RequestMetrics) RecordRequestEnd(ctx context.Context, client, method, status string, elapsed time.Duration) {
	m.inFlight.Add(ctx, -1, clientAttrs(client))
	m.total.Add(ctx, 1, clientAttrs(client, attribute.String("method", method), attribute.String("status", status)))
	m.duration.Record(ctx, elapsed.Seconds(), clientAttrs(client, attribute.String("method", method)))
}

// RecordRetry counts a resend.
func (m *RequestMetrics) RecordRetry(ctx context.Context, client, method string) {
	m.retries.Add(ctx, 1, clientAttrs(client, attribute.String("method", method)))
}

// RecordDecodeFailure counts a body rejected by decoder.
func (m *RequestMetrics) RecordDecodeFailure(ctx context.Context, decoder string) {
	m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("decoder", decoder)))
}
