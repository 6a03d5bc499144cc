package task

import (
	"context"
)

// CompleteHandler returns a function that starts a task and routes its
// outcome to exactly one of the callbacks. The returned channel is closed
// after the callback returns.
func CompleteHandler[T any](ctx context.Context, onSuccess func(T), onFailure func(error)) func(Task[T]) <-chan struct{} {
	return func(t Task[T]) <-chan struct{} {
		return OnComplete(ctx, t, onSuccess, onFailure)
	}
}

// OnComplete starts t and calls onSuccess or onFailure with its outcome.
// Nil callbacks are skipped.
func OnComplete[T any](ctx context.Context, t Task[T], onSuccess func(T), onFailure func(error)) <-chan struct{} {
	f := ToFuture(ctx, t)
	done := make(chan struct{})

	go func() {
		defer close(done)

		v, err := f.Await()
		if err != nil {
			if onFailure != nil {
				onFailure(err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(v)
		}
	}()

	return done
}

// Finally returns a task that runs t and then fn, on success and failure
// alike. The outcome of t is returned unchanged. A nil fn is skipped.
func Finally[T any](t Task[T], fn func()) Task[T] {
	if fn == nil {
		return t
	}
	return func(ctx context.Context) (T, error) {
		defer fn()
		return t(ctx)
	}
}

// FinallyHandler is the curried form of Finally.
func FinallyHandler[T any](fn func()) func(Task[T]) Task[T] {
	return func(t Task[T]) Task[T] {
		return Finally(t, fn)
	}
}
