package httpclient

import (
	"net/http"

	"github.com/kbukum/typedhttp/logger"
	"github.com/kbukum/typedhttp/observability"
)

// Option customizes an Adapter after it is built from Config.
type Option func(*Adapter)

// WithTransport replaces the transport built from Config. TLS and HTTP2
// settings are not applied to a replaced transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(a *Adapter) {
		a.httpClient.Transport = rt
	}
}

// WithLogger sets the adapter logger. Defaults to the global logger tagged
// with the adapter name.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) {
		a.log = l
	}
}

// WithMetrics records request metrics on m instead of the instruments
// created from the global meter when tracing is enabled.
func WithMetrics(m *observability.RequestMetrics) Option {
	return func(a *Adapter) {
		a.metrics = m
	}
}
