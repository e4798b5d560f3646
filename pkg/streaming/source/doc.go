// Package source provides streams backed by external event sources.
//
// FromRedisPubSub turns Redis pub/sub channels into a stream of Message
// values using go-redis. Each subscription owns a dedicated pub/sub
// connection that is closed when the subscription is cancelled:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	orders := source.FromRedisPubSub(client, "orders")
//
// FromCron emits the scheduled time each time a cron expression fires,
// using the robfig/cron parser with an optional seconds field:
//
//	ticks := source.FromCron("*/15 * * * * *") // every 15 seconds
//
// Both have ...WithConfig variants that validate their input and accept a
// name, a zerolog logger and a metrics registry counting emitted values.
package source
