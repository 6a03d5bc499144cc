package testutil

import (
	"context"
	"testing"
)

// CleanupFunc stops a component started by Setup.
type CleanupFunc func() error

// Setup starts c and returns a function that stops it.
func Setup(ctx context.Context, c TestComponent) (CleanupFunc, error) {
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	return func() error { return c.Stop(ctx) }, nil
}

// THelper binds TestComponent operations to a testing.TB, failing the test
// on error.
type THelper struct {
	tb  testing.TB
	ctx context.Context
}

// T wraps tb. Components started through the helper stop when tb ends.
//
//	func TestUsers(t *testing.T) {
//	    api := testutil.NewAPIServer("users-api")
//	    testutil.T(t).Setup(api)
//	}
func T(tb testing.TB) *THelper {
	return &THelper{tb: tb, ctx: context.Background()}
}

// WithContext sets the context passed to component methods.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup starts c and registers its Stop with tb.Cleanup.
func (h *THelper) Setup(c TestComponent) {
	h.tb.Helper()
	if err := c.Start(h.ctx); err != nil {
		h.tb.Fatalf("failed to start component %s: %v", c.Name(), err)
	}
	h.tb.Cleanup(func() {
		if err := c.Stop(h.ctx); err != nil {
			h.tb.Errorf("failed to stop component %s: %v", c.Name(), err)
		}
	})
}

// Reset resets c.
func (h *THelper) Reset(c TestComponent) {
	h.tb.Helper()
	if err := c.Reset(h.ctx); err != nil {
		h.tb.Fatalf("failed to reset component %s: %v", c.Name(), err)
	}
}

// Snapshot captures c's state.
func (h *THelper) Snapshot(c TestComponent) any {
	h.tb.Helper()
	snapshot, err := c.Snapshot(h.ctx)
	if err != nil {
		h.tb.Fatalf("failed to snapshot component %s: %v", c.Name(), err)
	}
	return snapshot
}

// Restore reinstates snapshot on c.
func (h *THelper) Restore(c TestComponent, snapshot any) {
	h.tb.Helper()
	if err := c.Restore(h.ctx, snapshot); err != nil {
		h.tb.Fatalf("failed to restore component %s: %v", c.Name(), err)
	}
}

// Scoped snapshots c and restores it when tb ends, so route changes made in
// a subtest do not leak into its siblings.
func (h *THelper) Scoped(c TestComponent) {
	h.tb.Helper()
	snapshot := h.Snapshot(c)
	h.tb.Cleanup(func() {
		if err := c.Restore(h.ctx, snapshot); err != nil {
			h.tb.Errorf("failed to restore component %s: %v", c.Name(), err)
		}
	})
}
