package source

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vnykmshr/chunkflow/internal/logging"
	cferrors "github.com/vnykmshr/chunkflow/pkg/common/errors"
	"github.com/vnykmshr/chunkflow/pkg/common/validation"
	"github.com/vnykmshr/chunkflow/pkg/metrics"
	"github.com/vnykmshr/chunkflow/pkg/streaming/stream"
)

const (
	moduleName = "source"
	typeRedis  = "redis"
)

// Message is one payload received from Redis pub/sub.
type Message struct {
	// Channel the message was published to.
	Channel string

	// Pattern that matched Channel, empty for plain channel subscriptions.
	Pattern string

	// Payload is the published value.
	Payload string
}

// RedisConfig holds configuration for a Redis pub/sub source.
type RedisConfig struct {
	// Client is the Redis client used to subscribe. Required.
	Client redis.UniversalClient

	// Channels to SUBSCRIBE to.
	Channels []string

	// Patterns to PSUBSCRIBE to.
	Patterns []string

	// Name identifies the source in logs and metric labels. Defaults to "redis".
	Name string

	// Logger receives subscription events. Nil disables logging.
	Logger *zerolog.Logger

	// Metrics counts received messages. Nil disables metrics.
	Metrics *metrics.Registry
}

// FromRedisPubSub returns a stream of the messages published to channels.
// Every subscription opens its own pub/sub connection, which is closed when
// the subscription ends. It panics if client is nil or no channel is given.
func FromRedisPubSub(client redis.UniversalClient, channels ...string) stream.Stream[Message] {
	s, err := FromRedisWithConfig(RedisConfig{Client: client, Channels: channels})
	if err != nil {
		panic(err)
	}
	return s
}

// FromRedisWithConfig returns a Redis pub/sub stream, validating config.
//
// The stream fails with an OperationError if the subscription cannot be
// confirmed, and completes if the pub/sub connection is closed.
func FromRedisWithConfig(config RedisConfig) (stream.Stream[Message], error) {
	if err := validation.ValidateNotNil(moduleName, "client", config.Client); err != nil {
		return nil, err
	}
	if len(config.Channels) == 0 && len(config.Patterns) == 0 {
		return nil, cferrors.NewValidationError(moduleName, "channels", 0, "no channel or pattern given").
			WithHint("set Channels, Patterns or both")
	}
	for _, ch := range append(append([]string(nil), config.Channels...), config.Patterns...) {
		if err := validation.ValidateNotEmpty(moduleName, "channel", ch); err != nil {
			return nil, err
		}
	}
	if config.Name == "" {
		config.Name = typeRedis
	}

	return stream.New(func(ctx context.Context, emit func(Message) bool) error {
		return runRedis(ctx, config, emit)
	}), nil
}

func runRedis(ctx context.Context, config RedisConfig, emit func(Message) bool) error {
	log := logging.Component(config.Logger, moduleName, config.Name).
		With().Str(logging.FieldSourceType, typeRedis).Logger()

	ps := config.Client.Subscribe(ctx)
	defer ps.Close()

	if len(config.Channels) > 0 {
		if err := ps.Subscribe(ctx, config.Channels...); err != nil {
			return subscribeFailure(ctx, err)
		}
	}
	if len(config.Patterns) > 0 {
		if err := ps.PSubscribe(ctx, config.Patterns...); err != nil {
			return subscribeFailure(ctx, err)
		}
	}

	// The first reply confirms the connection works.
	if _, err := ps.Receive(ctx); err != nil {
		return subscribeFailure(ctx, err)
	}
	log.Debug().Strs(logging.FieldChannel, config.Channels).Msg("redis subscription confirmed")

	msgs := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				log.Debug().Msg("redis pub/sub channel closed")
				return nil
			}
			config.Metrics.SourceEmitted(typeRedis, config.Name)
			if !emit(Message{Channel: msg.Channel, Pattern: msg.Pattern, Payload: msg.Payload}) {
				return nil
			}
		}
	}
}

func subscribeFailure(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return cferrors.NewOperationError(moduleName, "redis_subscribe", err)
}
