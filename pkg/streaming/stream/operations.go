package stream

import (
	"context"
)

// mapStream applies a mapper to every value of its source.
type mapStream[T, R any] struct {
	source Stream[T]
	mapper func(T) R
}

// Map returns an operator transforming every value with mapper. Mapping runs
// on the source's delivery goroutine.
func Map[T, R any](mapper func(T) R) Operator[T, R] {
	return func(source Stream[T]) Stream[R] {
		return &mapStream[T, R]{source: source, mapper: mapper}
	}
}

func (m *mapStream[T, R]) Subscribe(ctx context.Context, observer Observer[R]) Subscription {
	if observer == nil {
		observer = ObserverFuncs[R]{}
	}
	return m.source.Subscribe(ctx, ObserverFuncs[T]{
		Next:     func(v T) { observer.OnNext(m.mapper(v)) },
		Error:    observer.OnError,
		Complete: observer.OnComplete,
	})
}

// filterStream drops values rejected by a predicate.
type filterStream[T any] struct {
	source    Stream[T]
	predicate func(T) bool
}

// Filter returns an operator keeping only the values matching predicate.
func Filter[T any](predicate func(T) bool) Operator[T, T] {
	return func(source Stream[T]) Stream[T] {
		return &filterStream[T]{source: source, predicate: predicate}
	}
}

func (f *filterStream[T]) Subscribe(ctx context.Context, observer Observer[T]) Subscription {
	if observer == nil {
		observer = ObserverFuncs[T]{}
	}
	return f.source.Subscribe(ctx, ObserverFuncs[T]{
		Next: func(v T) {
			if f.predicate(v) {
				observer.OnNext(v)
			}
		},
		Error:    observer.OnError,
		Complete: observer.OnComplete,
	})
}

// Take returns an operator that emits the first n values, then cancels the
// source and completes.
func Take[T any](n int) Operator[T, T] {
	return func(source Stream[T]) Stream[T] {
		return New(func(ctx context.Context, emit func(T) bool) error {
			if n <= 0 {
				return nil
			}
			count := 0
			return forward(ctx, source, func(v T) bool {
				count++
				return emit(v) && count < n
			})
		})
	}
}

// Concat returns a stream emitting all values of each stream in turn. The
// next stream is subscribed only after the previous one completed; the first
// failure ends the concatenation.
func Concat[T any](streams ...Stream[T]) Stream[T] {
	return New(func(ctx context.Context, emit func(T) bool) error {
		for _, s := range streams {
			if err := forward(ctx, s, emit); err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		return nil
	})
}

// finalizeStream runs a callback once a subscription has fully terminated.
type finalizeStream[T any] struct {
	source Stream[T]
	action func()
}

// Finalize returns an operator that calls action exactly once per
// subscription, after the subscription completed, failed or was cancelled
// and its goroutines have exited. The returned subscription's Done channel
// closes after action returns.
func Finalize[T any](action func()) Operator[T, T] {
	return func(source Stream[T]) Stream[T] {
		return &finalizeStream[T]{source: source, action: action}
	}
}

func (f *finalizeStream[T]) Subscribe(ctx context.Context, observer Observer[T]) Subscription {
	inner := f.source.Subscribe(ctx, observer)
	sub := &subscription{cancel: inner.Cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		<-inner.Done()
		f.action()
	}()

	return sub
}

// forward subscribes to source and passes its values to next until next
// returns false, the source terminates, or ctx is done. It returns the
// source's failure, ctx.Err() on cancellation, or nil. When forward returns
// the inner subscription has fully shut down.
func forward[T any](ctx context.Context, source Stream[T], next func(T) bool) error {
	if source == nil {
		return ErrNilStream
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Written at most once, by the inner delivery goroutine.
	result := make(chan error, 1)
	stopped := false

	sub := source.Subscribe(ctx, Notify(func(n Notification[T]) {
		if stopped {
			return
		}
		switch n.Kind {
		case KindNext:
			if !next(n.Value) {
				stopped = true
				result <- nil
			}
		case KindError:
			stopped = true
			result <- n.Err
		case KindComplete:
			stopped = true
			result <- nil
		}
	}))

	var err error
	select {
	case err = <-result:
	case <-ctx.Done():
		err = ctx.Err()
	}

	cancel()
	<-sub.Done()
	return err
}
