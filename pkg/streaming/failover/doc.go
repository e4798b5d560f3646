/*
Package failover provides the "this-then-that" switch-over combinator.

Then(first, next) forwards first until next produces its first value. At that
moment first's subscription is cancelled and only next is forwarded from then
on, starting with the value that triggered the switch. If first completes
before next emits, its contribution simply ends and next takes over whenever
it starts emitting. The combined stream completes once both sides are done;
a side that was switched away from counts as done.

Chain folds Then over any number of streams from the left:

	feed := failover.Chain(cached, primary, fallback)
	// same as Then(Then(cached, primary), fallback)

Each later stream takes over as soon as it emits, so a chain is typically
ordered from the quickest but least authoritative source to the slowest but
most authoritative one. The fold is associative, and an empty chain completes
immediately.

Errors from a source that is still being forwarded fail the combined stream
unchanged. Sources that were switched away from are cancelled, so their
later failures are never observed.

Use ChainSafe for validated construction, and ChainWithConfig to add a name,
a zerolog logger and Prometheus metrics (switch-overs, live subscriptions,
failures).
*/
package failover
