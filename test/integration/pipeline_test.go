package integration

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"

	"github.com/vnykmshr/chunkflow/internal/testutil"
	cferrors "github.com/vnykmshr/chunkflow/pkg/common/errors"
	"github.com/vnykmshr/chunkflow/pkg/metrics"
	"github.com/vnykmshr/chunkflow/pkg/streaming/backpressure"
	"github.com/vnykmshr/chunkflow/pkg/streaming/failover"
	"github.com/vnykmshr/chunkflow/pkg/streaming/sink"
	"github.com/vnykmshr/chunkflow/pkg/streaming/source"
	"github.com/vnykmshr/chunkflow/pkg/streaming/stream"
	"github.com/vnykmshr/chunkflow/pkg/streaming/stream/streamtest"
)

type collected[T any] struct {
	values []T
	err    error
}

// collectAsync runs stream.Collect on its own goroutine.
func collectAsync[T any](ctx context.Context, s stream.Stream[T]) <-chan collected[T] {
	out := make(chan collected[T], 1)
	go func() {
		values, err := stream.Collect(ctx, s)
		out <- collected[T]{values: values, err: err}
	}()
	return out
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// TestRedisPubSubToRedisList runs the complete pipeline:
// Redis pub/sub -> chunked backpressure -> RPUSH per chunk.
func TestRedisPubSubToRedisList(t *testing.T) {
	mr, client := setupRedis(t)
	reg := metrics.NewRegistry(prometheus.NewRegistry())

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	const total = 50
	events, err := source.FromRedisWithConfig(source.RedisConfig{
		Client:   client,
		Channels: []string{"events"},
		Name:     "events",
		Metrics:  reg,
	})
	testutil.AssertNoError(t, err)

	payloads := stream.Pipe(stream.Pipe(events, stream.Take[source.Message](total)),
		stream.Map(func(m source.Message) string { return m.Payload }))

	config := backpressure.DefaultConfig()
	config.Name = "archive"
	config.Metrics = reg
	archived := backpressure.ChunkedWithConfig(sink.RedisList(client, "archive"), config)(payloads)

	result := collectAsync(ctx, archived)

	testutil.AssertEventually(t, func() bool {
		counts, err := client.PubSubNumSub(ctx, "events").Result()
		return err == nil && counts["events"] == 1
	})

	want := make([]string, total)
	for i := range want {
		want[i] = fmt.Sprintf("event-%02d", i)
		testutil.AssertNoError(t, client.Publish(ctx, "events", want[i]).Err())
	}

	res := testutil.Receive(t, result)
	testutil.AssertNoError(t, res.err)

	if len(res.values) == 0 || res.values[len(res.values)-1] != total {
		t.Fatalf("list lengths %v should end at %d", res.values, total)
	}
	for i := 1; i < len(res.values); i++ {
		if res.values[i] <= res.values[i-1] {
			t.Errorf("list lengths not increasing: %v", res.values)
			break
		}
	}

	list, err := mr.List("archive")
	testutil.AssertNoError(t, err)
	if diff := cmp.Diff(want, list); diff != "" {
		t.Errorf("archive mismatch (-want +got):\n%s", diff)
	}

	if got := promtestutil.ToFloat64(reg.SourceItems.WithLabelValues("redis", "events")); got != total {
		t.Errorf("source items = %v, want %d", got, total)
	}
	if got := promtestutil.ToFloat64(reg.ChunksDispatched.WithLabelValues("archive")); int(got) != len(res.values) {
		t.Errorf("chunks dispatched = %v, want %d", got, len(res.values))
	}
}

// TestFailoverIntoChunkedWriter switches from a stale feed to a live one and
// writes everything that made it through in chunks.
func TestFailoverIntoChunkedWriter(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	stale := streamtest.NewManualStream[string](t)
	live := streamtest.NewManualStream[string](t)

	var buf bytes.Buffer
	pipeline := backpressure.Chunked(sink.Lines(&buf))(failover.Then[string](stale, live))

	result := collectAsync(ctx, pipeline)

	stale.Next("stale-1")
	live.Next("live-1")
	live.Next("live-2")
	live.Complete()

	res := testutil.Receive(t, result)
	testutil.AssertNoError(t, res.err)

	testutil.AssertEqual(t, buf.String(), "stale-1\nlive-1\nlive-2\n")
	testutil.AssertEventually(t, func() bool { return stale.Active() == 0 && live.Active() == 0 })
}

// TestSinkFailureEndsPipeline checks that a failing batch write fails the
// whole pipeline and releases the source.
func TestSinkFailureEndsPipeline(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	values := streamtest.NewManualStream[string](t)
	result := collectAsync(ctx, backpressure.Chunked(sink.RedisList(client, "archive"))(values))

	values.Next("lost")

	res := testutil.Receive(t, result)
	if !backpressure.IsHandlerFailure(res.err) {
		t.Fatalf("error %v should be a handler failure", res.err)
	}
	if !cferrors.IsOperation(res.err, "sink", "redis_rpush") {
		t.Errorf("error %v should carry the sink.redis_rpush failure", res.err)
	}
	testutil.AssertEventually(t, func() bool { return values.Active() == 0 })
}
