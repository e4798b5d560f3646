package benchmark

import (
	"context"
	"testing"

	"github.com/vnykmshr/chunkflow/pkg/streaming/backpressure"
	"github.com/vnykmshr/chunkflow/pkg/streaming/stream"
)

// BenchmarkChunkedImmediateHandler measures per-value overhead when the
// handler result completes at once.
func BenchmarkChunkedImmediateHandler(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		data := makeInts(size)
		op := backpressure.Chunked(func(chunk []int) stream.Stream[int] {
			return stream.Just(len(chunk))
		})

		b.Run(sizeLabel(size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = stream.Drain(context.Background(), op(stream.FromSlice(data)))
			}
		})
	}
}

// BenchmarkChunkedSlowHandler measures throughput when the handler is
// gated, so most values are buffered into large chunks.
func BenchmarkChunkedSlowHandler(b *testing.B) {
	sizes := []int{100, 1000, 10000}

	for _, size := range sizes {
		data := makeInts(size)

		b.Run(sizeLabel(size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				gate := make(chan struct{})
				op := backpressure.Chunked(func(chunk []int) stream.Stream[int] {
					return stream.New(func(ctx context.Context, emit func(int) bool) error {
						select {
						case <-gate:
						case <-ctx.Done():
							return ctx.Err()
						}
						emit(len(chunk))
						return nil
					})
				})
				source := stream.Pipe(stream.FromSlice(data), stream.Finalize[int](func() { close(gate) }))
				_, _ = stream.Count(context.Background(), op(source))
			}
		})
	}
}

func makeInts(size int) []int {
	data := make([]int, size)
	for i := range data {
		data[i] = i
	}
	return data
}

// sizeLabel returns a readable label for benchmark sizes
func sizeLabel(size int) string {
	switch {
	case size >= 10000:
		return "10k"
	case size >= 1000:
		return "1k"
	case size >= 100:
		return "100"
	default:
		return "10"
	}
}
