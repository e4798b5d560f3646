package source

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/vnykmshr/chunkflow/internal/logging"
	cferrors "github.com/vnykmshr/chunkflow/pkg/common/errors"
	"github.com/vnykmshr/chunkflow/pkg/common/validation"
	"github.com/vnykmshr/chunkflow/pkg/metrics"
	"github.com/vnykmshr/chunkflow/pkg/streaming/stream"
)

const typeCron = "cron"

// cronParser accepts an optional seconds field and descriptors like @hourly.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// CronConfig holds configuration for a cron source.
type CronConfig struct {
	// Expression is a cron expression with an optional leading seconds
	// field, or a descriptor such as "@every 5m". Required.
	Expression string

	// Location the schedule is evaluated in. Defaults to time.Local.
	Location *time.Location

	// Name identifies the source in logs and metric labels. Defaults to "cron".
	Name string

	// Logger receives schedule events. Nil disables logging.
	Logger *zerolog.Logger

	// Metrics counts fired ticks. Nil disables metrics.
	Metrics *metrics.Registry
}

// FromCron returns a stream emitting the scheduled time each time expr
// fires. It never completes on its own. It panics if expr is invalid.
func FromCron(expr string) stream.Stream[time.Time] {
	s, err := FromCronWithConfig(CronConfig{Expression: expr})
	if err != nil {
		panic(err)
	}
	return s
}

// FromCronWithConfig returns a cron stream, validating config.
func FromCronWithConfig(config CronConfig) (stream.Stream[time.Time], error) {
	if err := validation.ValidateNotEmpty(moduleName, "expression", config.Expression); err != nil {
		return nil, err
	}
	schedule, err := cronParser.Parse(config.Expression)
	if err != nil {
		return nil, cferrors.NewValidationError(moduleName, "expression", config.Expression, err.Error()).
			WithHint("use five or six fields, or a descriptor such as @hourly")
	}
	if config.Name == "" {
		config.Name = typeCron
	}
	return scheduleStream(schedule, config), nil
}

// FromSchedule returns a stream emitting each activation time of schedule.
// The stream completes if the schedule reports no further activation.
func FromSchedule(schedule cron.Schedule) stream.Stream[time.Time] {
	if schedule == nil {
		panic(validation.ValidateNotNil(moduleName, "schedule", nil))
	}
	return scheduleStream(schedule, CronConfig{Name: typeCron})
}

func scheduleStream(schedule cron.Schedule, config CronConfig) stream.Stream[time.Time] {
	loc := config.Location
	if loc == nil {
		loc = time.Local
	}

	return stream.New(func(ctx context.Context, emit func(time.Time) bool) error {
		logCtx := logging.Component(config.Logger, moduleName, config.Name).
			With().Str(logging.FieldSourceType, typeCron)
		if config.Expression != "" {
			logCtx = logCtx.Str(logging.FieldSchedule, config.Expression)
		}
		log := logCtx.Logger()

		last := time.Now().In(loc)
		for {
			next := schedule.Next(last)
			if next.IsZero() {
				log.Debug().Msg("schedule exhausted")
				return nil
			}
			log.Debug().Time(logging.FieldNextRun, next).Msg("waiting for next activation")

			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}

			config.Metrics.SourceEmitted(typeCron, config.Name)
			if !emit(next) {
				return nil
			}
			last = next
		}
	})
}
