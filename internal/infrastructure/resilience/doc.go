/*
Package resilience provides the circuit breaker that guards calls to the web service.

# Overview

When the shop is down or unreachable, every further call would wait for its
own timeout. The breaker fails fast instead, then probes the service again
after a cool-down.

Rejections by the service (4xx answers) are not outages. Settings.IsSuccessful
lets the transport report them as successful calls so a burst of "not found"
answers never opens the breaker. Calls that end because the caller's
context was cancelled are not counted either way.

# Usage

	breaker := resilience.New("webservice", resilience.Settings{
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	err := breaker.Execute(ctx, func(ctx context.Context) error {
		return call(ctx)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
