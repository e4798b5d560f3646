package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/redis/go-redis/v9"

	cferrors "github.com/vnykmshr/chunkflow/pkg/common/errors"
	"github.com/vnykmshr/chunkflow/pkg/common/validation"
	"github.com/vnykmshr/chunkflow/pkg/streaming/backpressure"
	"github.com/vnykmshr/chunkflow/pkg/streaming/stream"
)

const moduleName = "sink"

// RedisList returns a handler appending each chunk to the Redis list at key
// with a single RPUSH. The result stream emits the list length after the
// push. It panics if client is nil or key is empty.
func RedisList(client redis.UniversalClient, key string) backpressure.Handler[string, int64] {
	if err := validation.ValidateNotNil(moduleName, "client", client); err != nil {
		panic(err)
	}
	if err := validation.ValidateNotEmpty(moduleName, "key", key); err != nil {
		panic(err)
	}

	return func(chunk []string) stream.Stream[int64] {
		values := make([]interface{}, len(chunk))
		for i, v := range chunk {
			values[i] = v
		}
		return stream.New(func(ctx context.Context, emit func(int64) bool) error {
			n, err := client.RPush(ctx, key, values...).Result()
			if err != nil {
				return cferrors.NewOperationError(moduleName, "redis_rpush", err).WithContext(key)
			}
			emit(n)
			return nil
		})
	}
}

// Lines returns a handler writing each value of a chunk as one line to w.
// A chunk is assembled in its own buffer and handed to w in a single Write,
// so a cancelled or failed chunk never leaves partial output behind for the
// next one. The result stream emits the number of bytes written.
func Lines(w io.Writer) backpressure.Handler[string, int] {
	if err := validation.ValidateNotNil(moduleName, "writer", w); err != nil {
		panic(err)
	}

	var mu sync.Mutex

	return func(chunk []string) stream.Stream[int] {
		return stream.New(func(ctx context.Context, emit func(int) bool) error {
			var buf bytes.Buffer
			for _, line := range chunk {
				if err := ctx.Err(); err != nil {
					return err
				}
				buf.WriteString(line)
				buf.WriteByte('\n')
			}

			mu.Lock()
			defer mu.Unlock()

			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := w.Write(buf.Bytes())
			if err != nil {
				return cferrors.NewOperationError(moduleName, "write", err).
					WithContext(fmt.Sprintf("%d of %d bytes", n, buf.Len()))
			}
			emit(n)
			return nil
		})
	}
}
