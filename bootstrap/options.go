package bootstrap

import (
	"time"

	"github.com/kbukum/typedhttp/httpclient"
	"github.com/kbukum/typedhttp/httpclient/rest"
	"github.com/kbukum/typedhttp/logger"
)

// DefaultGracefulTimeout bounds Shutdown unless WithGracefulTimeout says
// otherwise.
const DefaultGracefulTimeout = 15 * time.Second

// Option customises New.
type Option func(*settings)

type settings struct {
	log      *logger.Logger
	grace    time.Duration
	httpOpts []httpclient.Option
	restOpts []rest.Option
}

func newSettings(opts []Option) settings {
	s := settings{grace: DefaultGracefulTimeout}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLogger replaces the logger built from the logging section. The global
// logger is left untouched.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithGracefulTimeout bounds Shutdown and each component's Stop.
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *settings) { s.grace = d }
}

// WithHTTPOptions are applied to the adapter after the built-in ones.
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(s *settings) { s.httpOpts = append(s.httpOpts, opts...) }
}

// WithRESTOptions are applied to the client after the built-in ones.
func WithRESTOptions(opts ...rest.Option) Option {
	return func(s *settings) { s.restOpts = append(s.restOpts, opts...) }
}
