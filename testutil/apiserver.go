package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/typedhttp/component"
)

// Route is a canned response served by APIServer.
type Route struct {
	// Status is the response status. Defaults to 200.
	Status int
	// JSON is encoded as the response body when Raw is nil. A nil JSON with
	// a nil Raw sends an empty body.
	JSON any
	// Raw is sent as is with ContentType.
	Raw []byte
	// ContentType applies to Raw. Defaults to application/octet-stream.
	ContentType string
	// Handler takes over the response entirely when set.
	Handler gin.HandlerFunc
}

// RecordedRequest is a request received by APIServer.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// APIServer is a gin-backed fake JSON API for tests. Routes can be changed
// at any time; Reset clears routes and the request log.
type APIServer struct {
	name string

	mu       sync.RWMutex
	routes   map[string]Route
	requests []RecordedRequest

	srv *httptest.Server
}

var _ TestComponent = (*APIServer)(nil)

// NewAPIServer creates an unstarted fake API named name.
func NewAPIServer(name string) *APIServer {
	return &APIServer{name: name, routes: make(map[string]Route)}
}

// StartAPIServer creates and starts a fake API that stops when t ends.
func StartAPIServer(t testing.TB, name string) *APIServer {
	t.Helper()
	s := NewAPIServer(name)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("failed to start %s: %v", name, err)
	}
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	return s
}

func routeKey(method, path string) string {
	return method + " " + path
}

// Handle serves route for method and path.
func (s *APIServer) Handle(method, path string, route Route) {
	s.mu.Lock()
	s.routes[routeKey(method, path)] = route
	s.mu.Unlock()
}

// HandleJSON serves body encoded as JSON with status.
func (s *APIServer) HandleJSON(method, path string, status int, body any) {
	s.Handle(method, path, Route{Status: status, JSON: body})
}

// HandleRaw serves body as is with status and contentType.
func (s *APIServer) HandleRaw(method, path string, status int, contentType string, body []byte) {
	s.Handle(method, path, Route{Status: status, Raw: body, ContentType: contentType})
}

// URL returns the base URL. It is empty before Start.
func (s *APIServer) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.srv == nil {
		return ""
	}
	return s.srv.URL
}

// Requests returns a copy of the request log.
func (s *APIServer) Requests() []RecordedRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request.
func (s *APIServer) LastRequest() (RecordedRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *APIServer) dispatch(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	route, ok := s.routes[routeKey(c.Request.Method, c.Request.URL.Path)]
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no route for " + routeKey(c.Request.Method, c.Request.URL.Path)})
		return
	}
	if route.Handler != nil {
		route.Handler(c)
		return
	}

	status := route.Status
	if status == 0 {
		status = http.StatusOK
	}
	switch {
	case route.Raw != nil:
		ct := route.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.Data(status, ct, route.Raw)
	case route.JSON != nil:
		c.JSON(status, route.JSON)
	default:
		c.Status(status)
	}
}

// Name implements component.Component.
func (s *APIServer) Name() string { return s.name }

// Start implements component.Component.
func (s *APIServer) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return fmt.Errorf("%s already started", s.name)
	}

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Any("/*path", s.dispatch)

	s.srv = httptest.NewServer(engine)
	return nil
}

// Stop implements component.Component.
func (s *APIServer) Stop(_ context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()
	if srv != nil {
		srv.Close()
	}
	return nil
}

// Health implements component.Component.
func (s *APIServer) Health(_ context.Context) component.Health {
	if s.URL() == "" {
		return component.Health{Name: s.name, Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: s.name, Status: component.StatusHealthy}
}

// Reset clears routes and the request log.
func (s *APIServer) Reset(_ context.Context) error {
	s.mu.Lock()
	s.routes = make(map[string]Route)
	s.requests = nil
	s.mu.Unlock()
	return nil
}

type apiSnapshot struct {
	routes map[string]Route
}

// Snapshot captures the current routes.
func (s *APIServer) Snapshot(_ context.Context) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	routes := make(map[string]Route, len(s.routes))
	for k, v := range s.routes {
		routes[k] = v
	}
	return apiSnapshot{routes: routes}, nil
}

// Restore replaces the routes with a snapshot taken by Snapshot.
func (s *APIServer) Restore(_ context.Context, snapshot any) error {
	snap, ok := snapshot.(apiSnapshot)
	if !ok {
		return fmt.Errorf("%s: unexpected snapshot type %T", s.name, snapshot)
	}
	s.mu.Lock()
	s.routes = snap.routes
	s.mu.Unlock()
	return nil
}
