// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

/*
Package upstream protects the fact store from request bursts and fails fast
while it is unhealthy.

GuardedFacts decorates any analytics.FactQueryPort:

	facts := upstream.New(database.NewFactStore(db), &cfg.Upstream)
	engine := analytics.NewEngine(facts, settings)

Each query first takes a token from an optional rate.Limiter, then runs
through a sony/gobreaker circuit breaker. The breaker opens once at least
BreakerMinRequests queries were seen in the interval and the failure ratio
reaches BreakerFailureRatio. While open, queries return ErrUnavailable
without reaching the store; after BreakerTimeout a limited number of probes
decide whether to close again.

Context cancellation is not counted as a store failure, since one failing
query in a request cancels its siblings.

Breaker state, transitions and request outcomes are exported as Prometheus
metrics under the "fact-store" label.
*/
package upstream
