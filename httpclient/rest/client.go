package rest

import (
	"github.com/kbukum/typedhttp/codec"
	"github.com/kbukum/typedhttp/httpclient"
	"github.com/kbukum/typedhttp/logger"
	"github.com/kbukum/typedhttp/observability"
)

// Client issues typed requests through an httpclient.Adapter.
type Client struct {
	adapter     *httpclient.Adapter
	errorReader ErrorReader
	reporter    codec.Reporter
	log         *logger.Logger
	metrics     *observability.RequestMetrics
}

// Option configures a Client.
type Option func(*Client)

// WithErrorReader replaces DefaultErrorReader.
func WithErrorReader(r ErrorReader) Option {
	return func(c *Client) {
		if r != nil {
			c.errorReader = r
		}
	}
}

// WithReporter replaces the reporter used to render decode failures in
// logs. Defaults to codec.PathReporter.
func WithReporter(r codec.Reporter) Option {
	return func(c *Client) {
		if r != nil {
			c.reporter = r
		}
	}
}

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a Client over adapter. An Accept: application/json default
// header is added to the adapter unless one is already configured.
func New(adapter *httpclient.Adapter, opts ...Option) *Client {
	if !adapter.Headers().Has(httpclient.HeaderAccept) {
		adapter.Headers().Set(httpclient.HeaderAccept, httpclient.ContentTypeJSON)
	}

	c := &Client{
		adapter:     adapter,
		errorReader: DefaultErrorReader,
		reporter:    codec.PathReporter,
		log:         logger.WithComponent("rest"),
	}
	if adapter.Config().Tracing {
		// Instrument creation only fails for invalid names, which are fixed.
		c.metrics, _ = observability.NewRequestMetrics(observability.Meter(observability.InstrumentationName))
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Adapter returns the underlying adapter.
func (c *Client) Adapter() *httpclient.Adapter {
	return c.adapter
}

// SetupSessionIDHeader sets the X-SessionID header sent with every request.
// An empty id removes it.
func (c *Client) SetupSessionIDHeader(id string) {
	c.adapter.SetSessionID(id)
}

// RequestOption adjusts a single request.
type RequestOption func(*httpclient.Request)

// WithHeader sets a request header, overriding adapter defaults.
func WithHeader(key, value string) RequestOption {
	return func(r *httpclient.Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithQuery sets a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(r *httpclient.Request) {
		if r.Query == nil {
			r.Query = make(map[string]string)
		}
		r.Query[key] = value
	}
}

// WithAuth overrides the adapter authentication for the request.
func WithAuth(auth httpclient.Authenticator) RequestOption {
	return func(r *httpclient.Request) {
		r.Auth = auth
	}
}
