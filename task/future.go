package task

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/typedhttp/errors"
)

// ErrTimeout is returned by AwaitWithTimeout when the task has not finished.
var ErrTimeout = errors.Internal("task: timed out waiting for completion", nil)

// Future is the eventual outcome of a task started with ToFuture.
type Future[T any] struct {
	result T
	err    error
	once   sync.Once
	done   chan struct{}
}

// ToFuture starts t on its own goroutine and returns immediately. A context
// that is already done completes the future without running t: Cancelled for
// a cancellation, API(TIMEOUT) for an expired deadline.
func ToFuture[T any](ctx context.Context, t Task[T]) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.complete(*new(T), contextError(err))
			return
		}

		res, err := t(ctx)
		f.complete(res, err)
	}()

	return f
}

func contextError(err error) errors.AppError {
	if err == context.DeadlineExceeded {
		return errors.API(errors.ErrCodeTimeout)
	}
	return errors.Cancelled()
}

func (f *Future[T]) complete(res T, err error) {
	f.once.Do(func() {
		f.result = res
		f.err = err
	})
}

// Await blocks until the task finishes and returns its outcome.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits at most timeout for the task. It returns ErrTimeout
// if the task is still running; the task itself keeps running.
func (f *Future[T]) AwaitWithTimeout(timeout time.Duration) (T, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero T
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the task has finished, without blocking.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done is closed once the task has finished.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}
