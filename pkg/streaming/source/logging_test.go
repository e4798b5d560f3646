package source

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/chunkflow/internal/logging"
	"github.com/vnykmshr/chunkflow/internal/testutil"
)

// lockedBuffer lets the test read log output while a source goroutine writes it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// entry returns the first log entry carrying msg.
func (b *lockedBuffer) entry(t *testing.T, msg string) map[string]interface{} {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSpace(b.String()), "\n") {
		var fields map[string]interface{}
		if err := json.Unmarshal([]byte(line), &fields); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		if fields["message"] == msg {
			return fields
		}
	}
	t.Fatalf("no log entry %q in:\n%s", msg, b.String())
	return nil
}

func debugLogger(out *lockedBuffer) *zerolog.Logger {
	logger := zerolog.New(out).Level(zerolog.DebugLevel)
	return &logger
}

func TestCronSourceLogFields(t *testing.T) {
	var out lockedBuffer
	s, err := FromCronWithConfig(CronConfig{
		Expression: "@every 1h",
		Name:       "hourly",
		Logger:     debugLogger(&out),
	})
	testutil.AssertNoError(t, err)

	sub := s.Subscribe(context.Background(), nil)
	testutil.AssertEventually(t, func() bool {
		return strings.Contains(out.String(), "waiting for next activation")
	})
	sub.Cancel()
	<-sub.Done()

	fields := out.entry(t, "waiting for next activation")
	testutil.AssertEqual(t, fields[logging.FieldSourceType], interface{}("cron"))
	testutil.AssertEqual(t, fields[logging.FieldSchedule], interface{}("@every 1h"))
	testutil.AssertEqual(t, fields[logging.FieldName], interface{}("hourly"))
}

func TestRedisSourceLogFields(t *testing.T) {
	_, client := setupMiniRedis(t)

	var out lockedBuffer
	s, err := FromRedisWithConfig(RedisConfig{
		Client:   client,
		Channels: []string{"orders"},
		Logger:   debugLogger(&out),
	})
	testutil.AssertNoError(t, err)

	sub := s.Subscribe(context.Background(), nil)
	testutil.AssertEventually(t, func() bool {
		return strings.Contains(out.String(), "redis subscription confirmed")
	})
	sub.Cancel()
	<-sub.Done()

	fields := out.entry(t, "redis subscription confirmed")
	testutil.AssertEqual(t, fields[logging.FieldSourceType], interface{}("redis"))
	if _, ok := fields[logging.FieldSchedule]; ok {
		t.Error("redis entries should not carry a schedule")
	}
}
