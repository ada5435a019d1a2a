// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

/*
Package database provides the DuckDB fact store behind the dashboard engine.

The store holds the three fact tables the engine reads:

	users                     user_id, created_at, deleted_at
	diaries                   diary_id, user_id, written_date, deleted_at
	risk_detection_sessions   id, user_id, risk_level, created_at

FactStore implements analytics.FactQueryPort. Every range predicate is
half-open (>= start AND < end) and soft-deleted users and diaries are
excluded, except where a query counts deletions.

Diary dates are calendar dates and are compared as DATE values. User and
session timestamps are compared as instants and, where a query buckets them
by day or month, bucketed in the time zone of the requested range.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	facts := database.NewFactStore(db)
	engine := analytics.NewEngine(facts, settings)

Every fact query is bounded by the query timeout (SetQueryTimeout) when the
caller's context has no deadline, and its duration and failures are recorded
in the diarystats_fact_query_* metrics.
*/
package database
