// Package httpclient is the transport adapter under the typed request layer.
// It owns everything about moving bytes: base URL resolution, default and
// session headers, authentication, TLS and HTTP/2, retries, rate limiting,
// the circuit breaker and request tracing. Failures come back as *Error with
// a transport classification (timeout, connection, canceled, status class).
//
// # Basic Usage
//
//	adapter, err := httpclient.New(httpclient.Config{
//	    Name:    "users-api",
//	    BaseURL: "https://api.example.com",
//	    Timeout: 10 * time.Second,
//	    Auth:    httpclient.BearerAuth("my-token"),
//	})
//
//	resp, err := adapter.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/users/123",
//	})
//
// # With Resilience
//
//	adapter, err := httpclient.New(httpclient.Config{
//	    BaseURL:        "https://api.example.com",
//	    Retry:          httpclient.DefaultRetryConfig(),
//	    CircuitBreaker: httpclient.DefaultCircuitBreakerConfig("users-api"),
//	    RequestID:      true,
//	    Tracing:        true,
//	})
//
// The rest subpackage turns adapter calls into typed, decoded results.
package httpclient
