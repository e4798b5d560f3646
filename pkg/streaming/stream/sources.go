package stream

import (
	"context"
	"time"

	cferrors "github.com/vnykmshr/chunkflow/pkg/common/errors"
)

// Empty returns a stream that completes immediately without emitting.
func Empty[T any]() Stream[T] {
	return New(func(context.Context, func(T) bool) error {
		return nil
	})
}

// Never returns a stream that never emits and never terminates.
func Never[T any]() Stream[T] {
	return New(func(ctx context.Context, _ func(T) bool) error {
		<-ctx.Done()
		return ctx.Err()
	})
}

// Fail returns a stream that fails immediately with err.
func Fail[T any](err error) Stream[T] {
	return New(func(context.Context, func(T) bool) error {
		return err
	})
}

// Just returns a stream emitting values in order, then completing.
func Just[T any](values ...T) Stream[T] {
	return FromSlice(values)
}

// FromSlice returns a stream emitting the elements of slice in order, then
// completing. The slice is read at subscription time.
func FromSlice[T any](slice []T) Stream[T] {
	return New(func(_ context.Context, emit func(T) bool) error {
		for _, v := range slice {
			if !emit(v) {
				return nil
			}
		}
		return nil
	})
}

// FromChannel returns a stream emitting every value received from ch. The
// stream completes when ch is closed. Only one subscription should consume a
// given channel at a time.
func FromChannel[T any](ch <-chan T) Stream[T] {
	return New(func(ctx context.Context, emit func(T) bool) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case v, ok := <-ch:
				if !ok {
					return nil
				}
				if !emit(v) {
					return nil
				}
			}
		}
	})
}

// deferStream builds a fresh stream per subscription.
type deferStream[T any] struct {
	factory func() Stream[T]
}

// Defer returns a stream that calls factory on every Subscribe and subscribes
// to the stream it returns. A panicking factory or a nil result fails the
// subscription.
func Defer[T any](factory func() Stream[T]) Stream[T] {
	return &deferStream[T]{factory: factory}
}

func (d *deferStream[T]) Subscribe(ctx context.Context, observer Observer[T]) Subscription {
	s, err := d.build()
	if err != nil {
		return Fail[T](err).Subscribe(ctx, observer)
	}
	return s.Subscribe(ctx, observer)
}

func (d *deferStream[T]) build() (s Stream[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = cferrors.NewOperationError("stream", "defer", cferrors.PanicError(r))
		}
	}()
	s = d.factory()
	if s == nil {
		return nil, cferrors.NewOperationError("stream", "defer", ErrNilStream)
	}
	return s, nil
}

// Timer returns a stream that emits the current time once after d elapses,
// then completes.
func Timer(d time.Duration) Stream[time.Time] {
	return New(func(ctx context.Context, emit func(time.Time) bool) error {
		t := time.NewTimer(d)
		defer t.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			emit(now)
			return nil
		}
	})
}

// Interval returns a stream emitting 0, 1, 2, ... every period. It never
// completes on its own. Interval panics if period is not positive.
func Interval(period time.Duration) Stream[int64] {
	if period <= 0 {
		panic("stream: Interval period must be positive")
	}
	return New(func(ctx context.Context, emit func(int64) bool) error {
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for n := int64(0); ; n++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if !emit(n) {
					return nil
				}
			}
		}
	})
}
