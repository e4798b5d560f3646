// Package logging builds the zerolog loggers used across chunkflow.
//
// Library code never touches the global zerolog logger. Combinators receive
// an optional *zerolog.Logger through their Config and derive a component
// logger from it with Component; a nil base disables logging.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Canonical field names.
const (
	FieldComponent  = "component"
	FieldName       = "name"
	FieldService    = "service"
	FieldChunkSize  = "chunk_size"
	FieldGeneration = "generation"
	FieldBuffered   = "buffered"
	FieldSlot       = "slot"
	FieldSourceType = "source_type"
	FieldChannel    = "channel"
	FieldSchedule   = "schedule"
	FieldNextRun    = "next_run"
)

// Config configures a root logger created with New.
type Config struct {
	Level   string    // optional level ("debug", "info", ...), falls back to LOG_LEVEL
	Output  io.Writer // defaults to os.Stderr
	Service string    // attached to every entry when set
	Console bool      // human-readable output instead of JSON
}

// New creates a root logger from cfg. Unknown levels fall back to info.
func New(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	raw := cfg.Level
	if raw == "" {
		raw = os.Getenv("LOG_LEVEL")
	}
	if raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	var writer io.Writer = os.Stderr
	if cfg.Output != nil {
		writer = cfg.Output
	}
	if cfg.Console {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(writer).Level(level).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str(FieldService, cfg.Service)
	}
	return ctx.Logger()
}

// Component returns a child of base annotated with the component and instance
// name. A nil base yields a disabled logger.
func Component(base *zerolog.Logger, component, name string) zerolog.Logger {
	if base == nil {
		return zerolog.Nop()
	}
	ctx := base.With().Str(FieldComponent, component)
	if name != "" {
		ctx = ctx.Str(FieldName, name)
	}
	return ctx.Logger()
}
