package backpressure

import (
	"github.com/rs/zerolog"

	"github.com/vnykmshr/chunkflow/internal/relay"
	"github.com/vnykmshr/chunkflow/pkg/common/validation"
	"github.com/vnykmshr/chunkflow/pkg/metrics"
)

// Config holds configuration for a chunked backpressure operator.
type Config struct {
	// Name identifies the operator in logs and metric labels.
	// Defaults to "chunked".
	Name string

	// MailboxSize bounds the queue of pending source and result notifications
	// per subscription. Zero selects the default of 64.
	MailboxSize int

	// Logger receives debug and warning events. Nil disables logging.
	Logger *zerolog.Logger

	// Metrics records chunk and handler metrics. Nil disables metrics.
	Metrics *metrics.Registry
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Name:        "chunked",
		MailboxSize: relay.DefaultSize,
	}
}

// validate checks config and fills in defaults.
func (c *Config) validate() error {
	if err := validation.ValidateNonNegative(operatorName, "mailbox_size", c.MailboxSize); err != nil {
		return err
	}
	if c.Name == "" {
		c.Name = DefaultConfig().Name
	}
	return nil
}
