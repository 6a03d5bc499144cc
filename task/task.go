package task

import (
	"context"
)

// Task is a deferred computation. Errors returned by tasks built in this
// module are errors.AppError values.
type Task[T any] func(ctx context.Context) (T, error)

// Executor builds a task from a parameter.
type Executor[P, T any] func(param P) Task[T]

// Loader builds a task without parameters.
type Loader[T any] func() Task[T]

// Run executes t with ctx and returns its outcome.
func Run[T any](ctx context.Context, t Task[T]) (T, error) {
	return t(ctx)
}

// Of returns a task that always succeeds with v.
func Of[T any](v T) Task[T] {
	return func(context.Context) (T, error) {
		return v, nil
	}
}

// Fail returns a task that always fails with err.
func Fail[T any](err error) Task[T] {
	return func(context.Context) (T, error) {
		var zero T
		return zero, err
	}
}

// Map transforms the success value of t.
func Map[A, B any](t Task[A], f func(A) B) Task[B] {
	return func(ctx context.Context) (B, error) {
		a, err := t(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a), nil
	}
}

// MapError transforms the failure of t. Successes pass through.
func MapError[T any](t Task[T], f func(error) error) Task[T] {
	return func(ctx context.Context) (T, error) {
		v, err := t(ctx)
		if err != nil {
			return v, f(err)
		}
		return v, nil
	}
}

// Chain runs t, then the task f builds from its value. f is never called
// when t fails.
func Chain[A, B any](t Task[A], f func(A) Task[B]) Task[B] {
	return func(ctx context.Context) (B, error) {
		a, err := t(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a)(ctx)
	}
}
