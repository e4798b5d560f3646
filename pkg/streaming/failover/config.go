package failover

import (
	"github.com/rs/zerolog"

	"github.com/vnykmshr/chunkflow/internal/relay"
	"github.com/vnykmshr/chunkflow/pkg/common/validation"
	"github.com/vnykmshr/chunkflow/pkg/metrics"
)

const operatorName = "failover"

// Config holds configuration for a failover chain.
type Config struct {
	// Name identifies the chain in logs and metric labels.
	// Defaults to "failover".
	Name string

	// MailboxSize bounds the queue of pending notifications per pair.
	// Zero selects the default of 64.
	MailboxSize int

	// Logger receives switch-over and failure events. Nil disables logging.
	Logger *zerolog.Logger

	// Metrics records switch-overs and failures. Nil disables metrics.
	Metrics *metrics.Registry
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Name:        operatorName,
		MailboxSize: relay.DefaultSize,
	}
}

func (c *Config) validate() error {
	if err := validation.ValidateNonNegative(operatorName, "mailbox_size", c.MailboxSize); err != nil {
		return err
	}
	if c.Name == "" {
		c.Name = DefaultConfig().Name
	}
	return nil
}
