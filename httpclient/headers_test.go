package httpclient

import (
	"net/http"
	"sync"
	"testing"
)

func TestHeaderSet_Basic(t *testing.T) {
	h := NewHeaderSet(map[string]string{"accept": "application/json"})

	if v, ok := h.Get("Accept"); !ok || v != "application/json" {
		t.Errorf("expected canonical lookup, got %q %v", v, ok)
	}

	h.Set("x-sessionid", "abc")
	if !h.Has(HeaderSessionID) {
		t.Error("expected session header")
	}
	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}

	h.Del("X-SESSIONID")
	if h.Has(HeaderSessionID) {
		t.Error("expected session header removed")
	}
	h.Del("missing")
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}

func TestHeaderSet_SnapshotIsCopy(t *testing.T) {
	h := NewHeaderSet(nil)
	h.Set("A", "1")
	snap := h.Snapshot()
	snap["A"] = "changed"
	snap["B"] = "2"
	if v, _ := h.Get("A"); v != "1" {
		t.Errorf("snapshot mutation leaked into set: %q", v)
	}
	if h.Has("B") {
		t.Error("snapshot mutation leaked into set")
	}
}

func TestHeaderSet_ApplyTo(t *testing.T) {
	h := NewHeaderSet(map[string]string{"X-One": "1", "X-Two": "2"})
	hdr := http.Header{}
	h.applyTo(hdr)
	if hdr.Get("X-One") != "1" || hdr.Get("X-Two") != "2" {
		t.Errorf("unexpected header %v", hdr)
	}
}

func TestHeaderSet_Concurrent(t *testing.T) {
	h := NewHeaderSet(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.Set(HeaderSessionID, "s")
			h.Del(HeaderSessionID)
		}()
		go func() {
			defer wg.Done()
			_ = h.Snapshot()
			_ = h.Has(HeaderSessionID)
		}()
	}
	wg.Wait()
}
