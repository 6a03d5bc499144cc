// Package observability provides the OpenTelemetry tracing and metrics used
// to instrument outbound requests.
//
// Providers:
//
//	tp, err := observability.InitTracer(ctx, &tracerCfg)
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, &meterCfg)
//	defer mp.Shutdown(ctx)
//
// Instrumentation:
//
//	ctx, span := observability.StartClientSpan(ctx, "users-api", "GET", url, headers)
//	resp, err := send(ctx)
//	observability.EndClientSpan(span, resp.StatusCode, err)
//
//	metrics, err := observability.NewRequestMetrics(observability.Meter(observability.InstrumentationName))
//	metrics.RecordRequestEnd(ctx, "users-api", "GET", "200", time.Since(start))
//
// Without InitTracer or InitMeter the global no-op providers are used, so
// instrumentation costs nothing until a provider is installed.
package observability
