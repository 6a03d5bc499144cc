package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/typedhttp/logger"
	"github.com/kbukum/typedhttp/resilience"
	"github.com/kbukum/typedhttp/testutil/tlstest"
)

func newTestAdapter(t *testing.T, cfg Config) *Adapter {
	t.Helper()
	a, err := New(cfg, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func fastRetry(attempts int) *resilience.RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = attempts
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 5 * time.Millisecond
	cfg.Jitter = 0
	return cfg
}

func TestAdapter_Do_HeadersAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/users" {
			t.Errorf("path = %q, want /v1/users", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %q, want 2", got)
		}
		if got := r.Header.Get("Accept"); got != ContentTypeJSON {
			t.Errorf("Accept = %q, want default header", got)
		}
		if got := r.Header.Get("X-Tenant"); got != "override" {
			t.Errorf("X-Tenant = %q, want request header to win", got)
		}
		w.Header().Set(HeaderContentType, "application/json; charset=utf-8")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, Config{
		BaseURL: srv.URL + "/v1/",
		Headers: map[string]string{"Accept": ContentTypeJSON, "X-Tenant": "default"},
	})

	resp, err := a.Do(context.Background(), Request{
		Method:  http.MethodGet,
		Path:    "/users",
		Query:   map[string]string{"page": "2"},
		Headers: map[string]string{"X-Tenant": "override"},
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if !resp.IsSuccess() || resp.IsError() {
		t.Errorf("unexpected status %d", resp.StatusCode)
	}
	if resp.ContentType() != ContentTypeJSON {
		t.Errorf("ContentType() = %q", resp.ContentType())
	}
}

func TestAdapter_Do_BodyEncoding(t *testing.T) {
	tests := []struct {
		name        string
		body        any
		contentType string
		want        string
	}{
		{"json", map[string]int{"a": 1}, ContentTypeJSON, `{"a":1}`},
		{"string", "hello", ContentTypeText, "hello"},
		{"bytes", []byte{0x01, 0x02}, "", "\x01\x02"},
		{"reader", strings.NewReader("stream"), "", "stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get(HeaderContentType); got != tt.contentType {
					t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
				}
				body, _ := io.ReadAll(r.Body)
				if string(body) != tt.want {
					t.Errorf("body = %q, want %q", body, tt.want)
				}
			}))
			defer srv.Close()

			a := newTestAdapter(t, Config{BaseURL: srv.URL})
			if _, err := a.Do(context.Background(), Request{Method: http.MethodPost, Path: "/", Body: tt.body}); err != nil {
				t.Fatalf("Do() error: %v", err)
			}
		})
	}
}

func TestAdapter_Do_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"missing"}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, Config{BaseURL: srv.URL})
	resp, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/users/1"})
	if !IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected the 404 response alongside the error, got %+v", resp)
	}

	var e *Error
	errors.As(err, &e)
	if string(e.Body) != `{"error":"missing"}` {
		t.Errorf("error body = %q", e.Body)
	}
}

func TestAdapter_SessionID(t *testing.T) {
	var seen atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Header.Get(HeaderSessionID))
	}))
	defer srv.Close()

	a := newTestAdapter(t, Config{BaseURL: srv.URL})
	ctx := context.Background()

	a.SetSessionID("sess-42")
	if id, ok := a.SessionID(); !ok || id != "sess-42" {
		t.Fatalf("SessionID() = %q %v", id, ok)
	}
	a.Do(ctx, Request{Method: http.MethodGet})
	if seen.Load() != "sess-42" {
		t.Errorf("server saw session %v", seen.Load())
	}

	a.SetSessionID("")
	if _, ok := a.SessionID(); ok {
		t.Fatal("expected session cleared")
	}
	a.Do(ctx, Request{Method: http.MethodGet})
	if seen.Load() != "" {
		t.Errorf("server still saw session %v", seen.Load())
	}
}

func TestAdapter_RequestID(t *testing.T) {
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get(HeaderRequestID))
	}))
	defer srv.Close()

	a := newTestAdapter(t, Config{BaseURL: srv.URL, RequestID: true})
	ctx := context.Background()
	a.Do(ctx, Request{Method: http.MethodGet})
	a.Do(ctx, Request{Method: http.MethodGet, Headers: map[string]string{HeaderRequestID: "caller-id"}})

	if _, err := uuid.Parse(ids[0]); err != nil {
		t.Errorf("expected a generated uuid, got %q", ids[0])
	}
	if ids[1] != "caller-id" {
		t.Errorf("caller request id should be kept, got %q", ids[1])
	}
}

func TestAdapter_AuthOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.Header.Get(HeaderAuth)))
	}))
	defer srv.Close()

	a := newTestAdapter(t, Config{BaseURL: srv.URL, Auth: BearerAuth("default")})
	ctx := context.Background()

	resp, _ := a.Do(ctx, Request{Method: http.MethodGet})
	if resp.Text() != "Bearer default" {
		t.Errorf("got %q", resp.Text())
	}
	resp, _ = a.Do(ctx, Request{Method: http.MethodGet, Auth: BearerAuth("per-request")})
	if resp.Text() != "Bearer per-request" {
		t.Errorf("got %q", resp.Text())
	}
}

func TestAdapter_RetryThenSucceed(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != "payload" {
			t.Errorf("attempt %d got body %q", calls.Load()+1, body)
		}
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	var retries atomic.Int32
	retry := fastRetry(3)
	retry.OnRetry = func(int, error, time.Duration) { retries.Add(1) }

	a := newTestAdapter(t, Config{BaseURL: srv.URL, Retry: retry})
	resp, err := a.Do(context.Background(), Request{
		Method: http.MethodPost,
		Body:   strings.NewReader("payload"),
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if resp.Text() != "ok" {
		t.Errorf("body = %q", resp.Text())
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if retries.Load() != 2 {
		t.Errorf("OnRetry calls = %d, want 2", retries.Load())
	}
}

func TestAdapter_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	a := newTestAdapter(t, Config{BaseURL: srv.URL, Retry: fastRetry(5)})
	_, err := a.Do(context.Background(), Request{Method: http.MethodGet})

	var e *Error
	if !errors.As(err, &e) || e.Code != ErrCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestAdapter_Canceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	a := newTestAdapter(t, Config{BaseURL: srv.URL, Retry: fastRetry(3)})

	pre, cancelPre := context.WithCancel(context.Background())
	cancelPre()
	if _, err := a.Do(pre, Request{Method: http.MethodGet}); !IsCanceled(err) {
		t.Errorf("pre-cancelled: expected canceled error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	_, err := a.Do(ctx, Request{Method: http.MethodGet})
	if !IsCanceled(err) {
		t.Fatalf("in-flight: expected canceled error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("canceled error should match context.Canceled")
	}
}

func TestAdapter_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	a := newTestAdapter(t, Config{BaseURL: srv.URL, Timeout: 30 * time.Millisecond})
	_, err := a.Do(context.Background(), Request{Method: http.MethodGet})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestAdapter_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	a := newTestAdapter(t, Config{BaseURL: url})
	_, err := a.Do(context.Background(), Request{Method: http.MethodGet})
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestAdapter_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	a := newTestAdapter(t, Config{
		BaseURL:     srv.URL,
		RateLimiter: &resilience.RateLimiterConfig{Rate: 0.5, Burst: 1},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if _, err := a.Do(ctx, Request{Method: http.MethodGet}); err != nil {
		t.Fatalf("first request: %v", err)
	}
	_, err := a.Do(ctx, Request{Method: http.MethodGet})
	if !IsRateLimit(err) && !IsTimeout(err) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestAdapter_CircuitOpen(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cb := DefaultCircuitBreakerConfig("users-api")
	cb.MaxFailures = 2
	a := newTestAdapter(t, Config{BaseURL: srv.URL, CircuitBreaker: cb})
	ctx := context.Background()

	a.Do(ctx, Request{Method: http.MethodGet})
	a.Do(ctx, Request{Method: http.MethodGet})
	_, err := a.Do(ctx, Request{Method: http.MethodGet})

	var e *Error
	if !errors.As(err, &e) || e.Code != ErrCodeCircuitOpen {
		t.Fatalf("expected circuit open error, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	if a.IsAvailable(ctx) {
		t.Error("adapter should be unavailable while the circuit is open")
	}
}

func TestAdapter_Tracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
		_ = tp.Shutdown(context.Background())
	}()

	var traceparent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent.Store(r.Header.Get("traceparent"))
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := newTestAdapter(t, Config{Name: "users-api", BaseURL: srv.URL, Tracing: true, RequestID: true})
	a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/users"})

	if tpv, _ := traceparent.Load().(string); tpv == "" {
		t.Error("expected traceparent to be propagated")
	}
	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Error("a 500 should mark the span as failed")
	}
}

func TestAdapter_HTTP2OverTLS(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{"proto": r.ProtoMajor})
	}))
	srv.EnableHTTP2 = true
	srv.TLS = certs.ServerConfig()
	srv.StartTLS()
	defer srv.Close()

	a := newTestAdapter(t, Config{
		BaseURL: srv.URL,
		TLS:     &TLSConfig{CAFile: certs.CAFile},
		HTTP2:   true,
	})
	resp, err := a.Do(context.Background(), Request{Method: http.MethodGet})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if resp.Text() != "{\"proto\":2}\n" {
		t.Errorf("expected an HTTP/2 exchange, got %q", resp.Text())
	}
}

func TestAdapter_ResolveURL(t *testing.T) {
	a := newTestAdapter(t, Config{BaseURL: "http://api.example.com/v1/"})
	tests := map[string]string{
		"/users":                  "http://api.example.com/v1/users",
		"users":                   "http://api.example.com/v1/users",
		"":                        "http://api.example.com/v1/",
		"https://other.example/x": "https://other.example/x",
	}
	for in, want := range tests {
		if got := a.ResolveURL(in); got != want {
			t.Errorf("ResolveURL(%q) = %q, want %q", in, got, want)
		}
	}
}
