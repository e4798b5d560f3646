package stream

import "context"

// ForEach subscribes to s and calls action for every value until the stream
// terminates or ctx is done. It returns the stream's failure, ctx.Err(), or
// nil on completion. Action runs on the stream's delivery goroutine.
func ForEach[T any](ctx context.Context, s Stream[T], action func(T)) error {
	return forward(ctx, s, func(v T) bool {
		action(v)
		return true
	})
}

// Collect subscribes to s and gathers every value. Values received before a
// failure or cancellation are returned alongside the error.
func Collect[T any](ctx context.Context, s Stream[T]) ([]T, error) {
	var out []T
	err := ForEach(ctx, s, func(v T) {
		out = append(out, v)
	})
	return out, err
}

// Drain subscribes to s, discards every value and waits for termination.
func Drain[T any](ctx context.Context, s Stream[T]) error {
	return ForEach(ctx, s, func(T) {})
}

// Count subscribes to s and returns the number of values it emitted.
func Count[T any](ctx context.Context, s Stream[T]) (int64, error) {
	var n int64
	err := ForEach(ctx, s, func(T) {
		n++
	})
	return n, err
}
