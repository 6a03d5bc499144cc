package bootstrap

import (
	"context"
	"errors"
	"fmt"
)

// Hook is a lifecycle callback.
type Hook func(ctx context.Context) error

// OnStart adds hooks run once the components are up and the client exists.
// The first failing hook aborts Start.
func (a *App) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnStop adds hooks run before the components stop. Every hook runs even
// when an earlier one fails.
func (a *App) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

func runUntilError(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("start hook #%d: %w", i, err)
		}
	}
	return nil
}

func runAll(ctx context.Context, hooks []Hook) error {
	var errs []error
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop hook #%d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
