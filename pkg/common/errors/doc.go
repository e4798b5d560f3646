// Package errors defines the sentinel errors and structured error types shared
// by every chunkflow package.
//
// Two structured types cover most failures:
//
//   - ValidationError reports a rejected configuration value and always
//     matches ErrInvalidConfiguration with errors.Is.
//   - OperationError wraps the cause of a failed runtime operation, such as a
//     stream source failing underneath a combinator. The cause stays reachable
//     through errors.Is and errors.As.
//
// Panics raised by user supplied code (handlers, producers) are converted with
// PanicError and match ErrPanic.
package errors
