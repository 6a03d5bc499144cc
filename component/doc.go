// Package component defines the lifecycle interface shared by the HTTP
// adapter, the telemetry providers and the fake API server used in tests.
//
// A Registry starts components in registration order and stops them in
// reverse, so register dependencies first:
//
//	reg := component.NewRegistry()
//	_ = reg.Register(observability.NewComponent(obsCfg))
//	_ = reg.Register(httpclient.NewComponent(httpCfg))
//	if err := reg.StartAll(ctx); err != nil { ... }
//	defer reg.StopAll(ctx)
package component
