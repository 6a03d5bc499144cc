package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http2"

	"github.com/kbukum/typedhttp/logger"
	"github.com/kbukum/typedhttp/observability"
	"github.com/kbukum/typedhttp/resilience"
)

// Adapter is a configurable HTTP adapter with built-in auth, TLS, default
// headers and resilience. All requests of the typed layer go through it.
type Adapter struct {
	httpClient *http.Client
	config     Config
	headers    *HeaderSet
	cb         *resilience.CircuitBreaker
	rl         *resilience.RateLimiter
	metrics    *observability.RequestMetrics
	log        *logger.Logger
}

// New validates cfg and builds an adapter on a transport of its own.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}

	a := &Adapter{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config:  cfg,
		headers: NewHeaderSet(cfg.Headers),
		log:     logger.WithComponent(cfg.Name),
	}

	if cfg.Retry != nil {
		retry := *cfg.Retry
		if retry.RetryIf == nil {
			retry.RetryIf = IsRetryable
		}
		a.config.Retry = &retry
	}
	if cfg.CircuitBreaker != nil {
		cbCfg := *cfg.CircuitBreaker
		if cbCfg.IsFailure == nil {
			cbCfg.IsFailure = IsRetryable
		}
		a.cb = resilience.NewCircuitBreaker(cbCfg)
	}
	if cfg.RateLimiter != nil {
		a.rl = resilience.NewRateLimiter(*cfg.RateLimiter)
	}
	if cfg.Tracing {
		m, err := observability.NewRequestMetrics(observability.Meter(observability.InstrumentationName))
		if err != nil {
			return nil, fmt.Errorf("httpclient: %w", err)
		}
		a.metrics = m
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// newTransport builds the transport for cfg. A fresh transport is used
// rather than a clone of http.DefaultTransport so HTTP/2 can be configured
// on it explicitly.
func newTransport(cfg Config) (*http.Transport, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}

	// ConfigureTransport appends "h2" to the TLS NextProtos, so it runs after
	// the TLS config is in place.
	if cfg.HTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, fmt.Errorf("httpclient: configure http2: %w", err)
		}
	}
	return transport, nil
}

// Do executes an HTTP request and returns the complete response. Failures
// are always *Error values; a non-2xx status yields an *Error carrying the
// status code and body.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, classifyTransportError(err)
	}
	if a.config.Retry == nil {
		return a.doOnce(ctx, req)
	}

	// Streams cannot be replayed, so buffer them once for every attempt.
	if r, ok := req.Body.(io.Reader); ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("read body: %v", err))
		}
		req.Body = data
	}

	retry := *a.config.Retry
	userOnRetry := retry.OnRetry
	retry.OnRetry = func(attempt int, err error, next time.Duration) {
		a.log.Warn("retrying request", logger.MergeWithError(logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, req.Path,
			logger.FieldAttempt, attempt,
			logger.FieldBackoff, next.String(),
		), err))
		if a.metrics != nil {
			a.metrics.RecordRetry(ctx, a.config.Name, req.Method)
		}
		if userOnRetry != nil {
			userOnRetry(attempt, err, next)
		}
	}

	resp, err := resilience.Retry(ctx, retry, func() (*Response, error) {
		return a.doOnce(ctx, req)
	})
	if err != nil {
		return nil, classifyTransportError(err)
	}
	return resp, nil
}

// doOnce executes a single HTTP request behind the rate limiter and the
// circuit breaker.
func (a *Adapter) doOnce(ctx context.Context, req Request) (*Response, error) {
	if a.rl != nil {
		if err := a.rl.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, classifyTransportError(ctxErr)
			}
			return nil, &Error{Code: ErrCodeRateLimit, Message: err.Error(), Err: err}
		}
	}

	if a.cb == nil {
		return a.send(ctx, req)
	}

	var resp *Response
	err := a.cb.Execute(func() error {
		var execErr error
		resp, execErr = a.send(ctx, req)
		return execErr
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return nil, NewCircuitOpenError(err)
	}
	return resp, err
}

// send performs one exchange and reads the whole response body.
func (a *Adapter) send(ctx context.Context, req Request) (resp *Response, err error) {
	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if a.config.Tracing {
		carrier := map[string]string{}
		spanCtx, span := observability.StartClientSpan(ctx, a.config.Name, httpReq.Method, httpReq.URL.String(), carrier)
		for k, v := range carrier {
			httpReq.Header.Set(k, v)
		}
		if id := httpReq.Header.Get(HeaderRequestID); id != "" {
			observability.SetSpanAttribute(spanCtx, observability.AttrRequestID, id)
		}
		httpReq = httpReq.WithContext(spanCtx)
		defer func() {
			status := 0
			if resp != nil {
				status = resp.StatusCode
			}
			observability.EndClientSpan(span, status, err)
		}()
	}

	if a.metrics != nil {
		start := time.Now()
		a.metrics.RecordRequestStart(ctx, a.config.Name)
		defer func() {
			a.metrics.RecordRequestEnd(ctx, a.config.Name, req.Method, metricStatus(resp, err), time.Since(start))
		}()
	}

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, classifyTransportError(fmt.Errorf("read response body: %w", err))
	}

	out := &Response{StatusCode: httpResp.StatusCode, Headers: firstValues(httpResp.Header), Body: body}

	a.log.Debug("request completed", logger.Fields(
		logger.FieldMethod, httpReq.Method,
		logger.FieldURL, httpReq.URL.String(),
		logger.FieldStatus, httpResp.StatusCode,
	))

	if statusErr := ClassifyStatusCode(httpResp.StatusCode, body); statusErr != nil {
		return out, statusErr
	}
	return out, nil
}

// buildRequest resolves the URL and layers default headers, request headers
// and credentials onto a new *http.Request.
func (a *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, a.ResolveURL(req.Path), body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	if len(req.Query) > 0 {
		query := httpReq.URL.Query()
		for name, value := range req.Query {
			query.Set(name, value)
		}
		httpReq.URL.RawQuery = query.Encode()
	}

	// Defaults first so request headers override them.
	a.headers.applyTo(httpReq.Header)
	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	if body != nil && httpReq.Header.Get(HeaderContentType) == "" && contentType != "" {
		httpReq.Header.Set(HeaderContentType, contentType)
	}
	if a.config.RequestID && httpReq.Header.Get(HeaderRequestID) == "" {
		httpReq.Header.Set(HeaderRequestID, uuid.NewString())
	}

	auth := a.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	if auth != nil {
		if err := auth.Authenticate(httpReq); err != nil {
			return nil, NewValidationError(fmt.Sprintf("authenticate: %v", err))
		}
	}

	return httpReq, nil
}

// ResolveURL joins path onto the base URL. Absolute URLs are returned as is.
func (a *Adapter) ResolveURL(path string) string {
	if a.config.BaseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path == "" {
		return a.config.BaseURL
	}
	return strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// encodeBody picks the wire form of body. Values that are not streams,
// bytes, strings or multipart forms are sent as JSON.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case *MultipartBody:
		return v.Encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), ContentTypeText, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), ContentTypeJSON, nil
	}
}

// firstValues keeps the first value of every header.
func firstValues(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name := range h {
		out[name] = h.Get(name)
	}
	return out
}

// metricStatus labels a finished request: the status code when a response
// arrived, otherwise the error class.
func metricStatus(resp *Response, err error) string {
	if resp != nil {
		return strconv.Itoa(resp.StatusCode)
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code.String()
	}
	return "error"
}

// Headers returns the adapter's default headers. Changes apply to every
// request sent afterwards.
func (a *Adapter) Headers() *HeaderSet {
	return a.headers
}

// SetSessionID sets the X-SessionID default header. An empty id removes it.
func (a *Adapter) SetSessionID(id string) {
	if id == "" {
		a.headers.Del(HeaderSessionID)
		return
	}
	a.headers.Set(HeaderSessionID, id)
}

// SessionID returns the current X-SessionID default header.
func (a *Adapter) SessionID() (string, bool) {
	return a.headers.Get(HeaderSessionID)
}

// Name is the configured adapter name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// IsAvailable reports whether the adapter accepts requests. It is false
// while the circuit breaker is open.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	if a.cb != nil {
		return a.cb.State() != resilience.StateOpen
	}
	return true
}

// Unwrap exposes the *http.Client behind the adapter.
func (a *Adapter) Unwrap() *http.Client {
	return a.httpClient
}

// Close releases idle connections held by the adapter.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// Config returns the adapter's configuration after defaults were applied.
func (a *Adapter) Config() Config {
	return a.config
}
