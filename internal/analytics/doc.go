// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

/*
Package analytics implements the temporal aggregation engine behind the
operator dashboard.

The engine resolves reporting periods into half-open windows, reads facts
through a FactQueryPort, and shapes them into trend series, activity metrics,
risk distributions and headline cards.

# Components

  - PeriodResolver: (period, year?, month?) to a half-open PeriodRange, plus
    the previous period of the same kind for change values
  - BuildDailyTrend / BuildMonthlyTrend: sparse rows to ordered trend points
  - Engine.DailyActivity / Engine.MonthlyActivity: DAU, WAU, MAU, new users,
    withdrawn users and retention per bucket
  - Engine.Distribute: latest-session-per-user risk attribution
  - Engine.DashboardStats: the headline cards for one current/previous pair

# Periods

	weekly   [1st of month, 8th of month), never past the month's last day
	monthly  [1st of month, 1st of next month)
	yearly   [Jan 1, Jan 1 of next year)

Every "in range" predicate is >= start AND < end.

# Trend zero-fill

Daily trends contain every day of the range, with zero counts for days
without rows. Monthly trends contain only months that have rows; an empty
month is absent, not zero. Callers rely on this difference.

# Concurrency

Independent fact queries within one request run concurrently through an
errgroup bounded by Settings.MaxConcurrentQueries. The first failure cancels
the rest and fails the request; there are no partial results. Nothing is
cached between requests.

# Errors

Caller errors wrap ErrInvalidPeriod or ErrInvalidMonth and carry the
offending value. Any fact query failure, including malformed rows, wraps
ErrUpstreamQuery. The engine does not retry.
*/
package analytics
