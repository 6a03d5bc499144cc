package httpclient

import (
	"net/http"
	"sync"
)

// HeaderSet is a concurrency-safe set of default headers. Keys are stored in
// canonical MIME form, so "x-sessionid" and "X-Sessionid" name the same entry.
type HeaderSet struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewHeaderSet creates a header set seeded with initial.
func NewHeaderSet(initial map[string]string) *HeaderSet {
	h := &HeaderSet{values: make(map[string]string, len(initial))}
	for k, v := range initial {
		h.values[http.CanonicalHeaderKey(k)] = v
	}
	return h
}

// Set stores value under key, replacing any previous value.
func (h *HeaderSet) Set(key, value string) {
	h.mu.Lock()
	h.values[http.CanonicalHeaderKey(key)] = value
	h.mu.Unlock()
}

// Del removes key. Removing a missing key is a no-op.
func (h *HeaderSet) Del(key string) {
	h.mu.Lock()
	delete(h.values, http.CanonicalHeaderKey(key))
	h.mu.Unlock()
}

// Get returns the value stored under key.
func (h *HeaderSet) Get(key string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.values[http.CanonicalHeaderKey(key)]
	return v, ok
}

// Has reports whether key is present.
func (h *HeaderSet) Has(key string) bool {
	_, ok := h.Get(key)
	return ok
}

// Len returns the number of headers.
func (h *HeaderSet) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.values)
}

// Snapshot returns a copy of the current headers.
func (h *HeaderSet) Snapshot() map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]string, len(h.values))
	for k, v := range h.values {
		out[k] = v
	}
	return out
}

// applyTo copies the headers onto hdr.
func (h *HeaderSet) applyTo(hdr http.Header) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for k, v := range h.values {
		hdr.Set(k, v)
	}
}
