package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/typedhttp/logger"
)

// Span names.
const (
	SpanHTTPRequest = "http.client.request"
	SpanDecode      = "typedhttp.decode"
)

// Attribute keys.
const (
	AttrClientName = "http.client.name"
	AttrRequestID  = "request.id"
	AttrDecoder    = "typedhttp.decoder"
	AttrAttempt    = "http.request.resend_count"
	AttrErrorKind  = "error.kind"
)

// TracerConfig configures trace export.
type TracerConfig struct {
	Exporter `yaml:",inline" mapstructure:",squash"`

	// SampleRate is the fraction of root traces kept, within [0, 1].
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// DefaultTracerConfig exports every trace to a local collector.
func DefaultTracerConfig(serviceName string) TracerConfig {
	return TracerConfig{Exporter: localExporter(serviceName), SampleRate: 1}
}

// InitTracer installs a batching OTLP tracer provider and the W3C
// propagators globally. The caller owns the provider's shutdown.
func InitTracer(ctx context.Context, cfg *TracerConfig) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("trace exporter: %w", err)
	}
	res, err := cfg.resource()
	if err != nil {
		return nil, fmt.Errorf("trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(cfg.SampleRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.WithComponent("telemetry").Info("tracing enabled", logger.Fields(
		"endpoint", cfg.Endpoint,
		"sample_rate", cfg.SampleRate,
	))
	return tp, nil
}

func samplerFor(rate float64) sdktrace.Sampler {
	if rate >= 1 {
		return sdktrace.AlwaysSample()
	}
	if rate <= 0 {
		return sdktrace.NeverSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
}

// StartSpan starts a span on the module tracer of the global provider.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(InstrumentationName).Start(ctx, name, opts...)
}

// StartClientSpan starts the span of one outbound exchange. A non-nil
// headers map receives the propagated trace context.
func StartClientSpan(ctx context.Context, clientName, method, url string, headers map[string]string) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, SpanHTTPRequest,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(AttrClientName, clientName),
			semconv.HTTPRequestMethodKey.String(method),
			semconv.URLFull(url),
		),
	)
	if headers != nil {
		otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))
	}
	return ctx, span
}

// EndClientSpan records the outcome and ends span. statusCode is 0 when no
// response arrived.
func EndClientSpan(span trace.Span, statusCode int, err error) {
	if statusCode != 0 {
		span.SetAttributes(semconv.HTTPResponseStatusCode(statusCode))
	}
	markError(span, err)
	span.End()
}

// SetSpanAttribute annotates the span in ctx. Values other than strings,
// integers, floats, booleans and string slices are dropped.
func SetSpanAttribute(ctx context.Context, key string, value any) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if kv, ok := keyValue(key, value); ok {
		span.SetAttributes(kv)
	}
}

func keyValue(key string, value any) (attribute.KeyValue, bool) {
	k := attribute.Key(key)
	switch v := value.(type) {
	case string:
		return k.String(v), true
	case bool:
		return k.Bool(v), true
	case int:
		return k.Int(v), true
	case int64:
		return k.Int64(v), true
	case float64:
		return k.Float64(v), true
	case []string:
		return k.StringSlice(v), true
	}
	return attribute.KeyValue{}, false
}

// SetSpanError marks the span in ctx as failed.
func SetSpanError(ctx context.Context, err error) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		markError(span, err)
	}
}

func markError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
