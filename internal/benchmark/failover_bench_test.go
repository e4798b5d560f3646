package benchmark

import (
	"context"
	"testing"

	"github.com/vnykmshr/chunkflow/pkg/streaming/failover"
	"github.com/vnykmshr/chunkflow/pkg/streaming/stream"
)

// BenchmarkChainDepth measures forwarding through chains of growing length
// where only the last stream emits.
func BenchmarkChainDepth(b *testing.B) {
	depths := []int{2, 4, 8, 16}
	data := makeInts(1000)

	for _, depth := range depths {
		streams := make([]stream.Stream[int], depth)
		for i := 0; i < depth-1; i++ {
			streams[i] = stream.Empty[int]()
		}
		streams[depth-1] = stream.FromSlice(data)
		chain := failover.Chain(streams...)

		b.Run(depthLabel(depth), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = stream.Drain(context.Background(), chain)
			}
		})
	}
}

// BenchmarkThenForwarding measures per-value cost of a single switch-over pair.
func BenchmarkThenForwarding(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		s := failover.Then(stream.Just(-1), stream.FromSlice(makeInts(size)))

		b.Run(sizeLabel(size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = stream.Drain(context.Background(), s)
			}
		})
	}
}

func depthLabel(depth int) string {
	switch depth {
	case 2:
		return "depth2"
	case 4:
		return "depth4"
	case 8:
		return "depth8"
	default:
		return "depth16"
	}
}
