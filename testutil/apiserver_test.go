package testutil_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/typedhttp/component"
	"github.com/kbukum/typedhttp/testutil"
)

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestAPIServer_HandleJSON(t *testing.T) {
	api := testutil.StartAPIServer(t, "users-api")
	api.HandleJSON(http.MethodGet, "/users/1", http.StatusOK, map[string]any{"id": "1"})

	resp, body := get(t, api.URL()+"/users/1?expand=true")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body != `{"id":"1"}` {
		t.Errorf("unexpected body %q", body)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		t.Errorf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}

	last, ok := api.LastRequest()
	if !ok {
		t.Fatal("expected a recorded request")
	}
	if last.Method != http.MethodGet || last.Path != "/users/1" || last.Query != "expand=true" {
		t.Errorf("unexpected recorded request %+v", last)
	}
}

func TestAPIServer_HandleRaw(t *testing.T) {
	api := testutil.StartAPIServer(t, "raw")
	api.HandleRaw(http.MethodGet, "/plain", http.StatusAccepted, "text/plain", []byte("hello"))

	resp, body := get(t, api.URL()+"/plain")
	if resp.StatusCode != http.StatusAccepted || body != "hello" {
		t.Errorf("unexpected response %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get("Content-Type") != "text/plain" {
		t.Errorf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
}

func TestAPIServer_StatusOnlyAndHandler(t *testing.T) {
	api := testutil.StartAPIServer(t, "status")
	api.Handle(http.MethodDelete, "/users/1", testutil.Route{Status: http.StatusNoContent})
	api.Handle(http.MethodPost, "/echo", testutil.Route{Handler: func(c *gin.Context) {
		c.String(http.StatusCreated, c.GetHeader("X-Echo"))
	}})

	req, _ := http.NewRequest(http.MethodDelete, api.URL()+"/users/1", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodPost, api.URL()+"/echo", strings.NewReader("payload"))
	req.Header.Set("X-Echo", "pong")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated || string(body) != "pong" {
		t.Errorf("unexpected response %d %q", resp.StatusCode, body)
	}

	reqs := api.Requests()
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}
	if string(reqs[1].Body) != "payload" {
		t.Errorf("expected recorded body, got %q", reqs[1].Body)
	}
}

func TestAPIServer_UnknownRoute(t *testing.T) {
	api := testutil.StartAPIServer(t, "empty")
	resp, body := get(t, api.URL()+"/missing")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "GET /missing") {
		t.Errorf("expected route in error body, got %q", body)
	}
}

func TestAPIServer_Lifecycle(t *testing.T) {
	ctx := context.Background()
	api := testutil.NewAPIServer("lifecycle")

	if api.URL() != "" {
		t.Error("expected empty URL before Start")
	}
	if h := api.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before Start, got %s", h.Status)
	}

	if err := api.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := api.Start(ctx); err == nil {
		t.Error("expected error on second Start")
	}
	if h := api.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", h.Status)
	}

	if err := api.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if api.URL() != "" {
		t.Error("expected empty URL after Stop")
	}
}

func TestAPIServer_ResetSnapshotRestore(t *testing.T) {
	api := testutil.StartAPIServer(t, "state")
	h := testutil.T(t)

	api.HandleJSON(http.MethodGet, "/a", http.StatusOK, "a")
	snap := h.Snapshot(api)

	api.HandleJSON(http.MethodGet, "/b", http.StatusOK, "b")
	h.Restore(api, snap)
	if resp, _ := get(t, api.URL()+"/b"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected /b removed by Restore, got %d", resp.StatusCode)
	}
	if resp, _ := get(t, api.URL()+"/a"); resp.StatusCode != http.StatusOK {
		t.Errorf("expected /a kept by Restore, got %d", resp.StatusCode)
	}

	h.Reset(api)
	if len(api.Requests()) != 0 {
		t.Error("expected Reset to clear requests")
	}
	if resp, _ := get(t, api.URL()+"/a"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected Reset to clear routes, got %d", resp.StatusCode)
	}

	if err := api.Restore(context.Background(), "bogus"); err == nil {
		t.Error("expected error for foreign snapshot")
	}
}

func TestTHelper_Scoped(t *testing.T) {
	api := testutil.StartAPIServer(t, "scoped")
	api.HandleJSON(http.MethodGet, "/base", http.StatusOK, "base")

	t.Run("override", func(t *testing.T) {
		testutil.T(t).Scoped(api)
		api.HandleJSON(http.MethodGet, "/base", http.StatusTeapot, "override")
		if resp, _ := get(t, api.URL()+"/base"); resp.StatusCode != http.StatusTeapot {
			t.Errorf("expected override, got %d", resp.StatusCode)
		}
	})

	if resp, _ := get(t, api.URL()+"/base"); resp.StatusCode != http.StatusOK {
		t.Errorf("expected base route restored, got %d", resp.StatusCode)
	}
}
