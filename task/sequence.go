package task

import (
	"context"
)

// Tuple2 holds the results of Sequence in input order.
type Tuple2[A, B any] struct {
	First  A
	Second B
}

// Tuple3 holds the results of Sequence3 in input order.
type Tuple3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Sequence runs a and b concurrently and waits for both. If either fails it
// returns the error of the earliest failing input in argument order, even when
// a later input failed first in time.
func Sequence[A, B any](a Task[A], b Task[B]) Task[Tuple2[A, B]] {
	return func(ctx context.Context) (Tuple2[A, B], error) {
		fa := ToFuture(ctx, a)
		fb := ToFuture(ctx, b)

		va, errA := fa.Await()
		vb, errB := fb.Await()
		if err := firstError(errA, errB); err != nil {
			return Tuple2[A, B]{}, err
		}
		return Tuple2[A, B]{First: va, Second: vb}, nil
	}
}

// Sequence3 is Sequence for three tasks.
func Sequence3[A, B, C any](a Task[A], b Task[B], c Task[C]) Task[Tuple3[A, B, C]] {
	return func(ctx context.Context) (Tuple3[A, B, C], error) {
		fa := ToFuture(ctx, a)
		fb := ToFuture(ctx, b)
		fc := ToFuture(ctx, c)

		va, errA := fa.Await()
		vb, errB := fb.Await()
		vc, errC := fc.Await()
		if err := firstError(errA, errB, errC); err != nil {
			return Tuple3[A, B, C]{}, err
		}
		return Tuple3[A, B, C]{First: va, Second: vb, Third: vc}, nil
	}
}

// SequenceAll runs every task concurrently and returns their values in input
// order, or the error of the earliest failing input.
func SequenceAll[T any](tasks ...Task[T]) Task[[]T] {
	return func(ctx context.Context) ([]T, error) {
		futures := make([]*Future[T], len(tasks))
		for i, t := range tasks {
			futures[i] = ToFuture(ctx, t)
		}

		results := make([]T, len(futures))
		errs := make([]error, len(futures))
		for i, f := range futures {
			results[i], errs[i] = f.Await()
		}
		if err := firstError(errs...); err != nil {
			return nil, err
		}
		return results, nil
	}
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
