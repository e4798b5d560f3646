package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSentinelMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrClosed", ErrClosed, "resource is closed"},
		{"ErrTimeout", ErrTimeout, "operation timed out"},
		{"ErrInvalidConfiguration", ErrInvalidConfiguration, "invalid configuration"},
		{"ErrPanic", ErrPanic, "recovered panic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "without hint",
			err:  NewValidationError("backpressure", "handler", nil, "cannot be nil"),
			want: "backpressure: invalid handler=<nil> (cannot be nil)",
		},
		{
			name: "with hint",
			err: NewValidationError("failover", "mailbox_size", -4, "cannot be negative").
				WithHint("use 0 for the default size"),
			want: "failover: invalid mailbox_size=-4 (cannot be negative) - use 0 for the default size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, ErrInvalidConfiguration) {
				t.Error("ValidationError should wrap ErrInvalidConfiguration")
			}
		})
	}

	err := NewValidationError("source", "expr", "", "cannot be empty")
	if err.WithHint("x") != err {
		t.Error("WithHint should return the same instance")
	}
}

func TestOperationError(t *testing.T) {
	cause := errors.New("connection reset")

	err := NewOperationError("backpressure", "source", cause)
	if got, want := err.Error(), "backpressure.source failed: connection reset"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("OperationError should wrap its cause")
	}

	err.WithContext("3 items buffered")
	if got, want := err.Error(), "backpressure.source failed: connection reset (3 items buffered)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestPanicError(t *testing.T) {
	err := PanicError("boom")
	if !errors.Is(err, ErrPanic) {
		t.Fatal("PanicError should wrap ErrPanic")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("message %q should mention the panic value", err.Error())
	}

	inner := errors.New("inner failure")
	err = PanicError(inner)
	if !errors.Is(err, ErrPanic) || !errors.Is(err, inner) {
		t.Errorf("PanicError(error) should wrap both ErrPanic and the value: %v", err)
	}
}

func TestIsValidationError(t *testing.T) {
	verr := NewValidationError("stream", "size", 0, "must be positive")

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"validation", verr, true},
		{"wrapped validation", fmt.Errorf("setup: %w", verr), true},
		{"operation", NewOperationError("failover", "relay", ErrTimeout), false},
		{"closed", ErrClosed, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidationError(tt.err); got != tt.want {
				t.Errorf("IsValidationError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsOperation(t *testing.T) {
	cause := errors.New("disk full")
	nested := NewOperationError("failover", "relay", NewOperationError("backpressure", "handler", cause))

	if !IsOperation(nested, "failover", "relay") {
		t.Error("outer operation should match")
	}
	if !IsOperation(nested, "backpressure", "handler") {
		t.Error("nested operation should match")
	}
	if IsOperation(nested, "backpressure", "source") {
		t.Error("unrelated operation should not match")
	}
	if IsOperation(cause, "backpressure", "handler") {
		t.Error("plain error should not match")
	}
}
