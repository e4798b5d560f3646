// Package validation provides common validation utilities for configuration
// parameters across the chunkflow library.
//
// Every function returns a *errors.ValidationError so constructors such as
// backpressure.ChunkedSafe can surface uniform, hint-carrying messages.
package validation
