package stream_test

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// Every subscription must have released its producer goroutine by the time a
// test returns.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
