package testutil

import (
	"context"

	"github.com/kbukum/typedhttp/component"
)

// TestComponent is a component.Component whose state can be reset and
// rolled back between test cases.
type TestComponent interface {
	component.Component

	// Reset returns the component to its freshly started state.
	Reset(ctx context.Context) error

	// Snapshot captures state that Restore can later reinstate.
	Snapshot(ctx context.Context) (any, error)

	// Restore reinstates a value returned by Snapshot.
	Restore(ctx context.Context, snapshot any) error
}
