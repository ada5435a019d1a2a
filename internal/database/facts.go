// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/diarystats/internal/analytics"
)

// dateLayout is the literal format bound into CAST(? AS DATE).
const dateLayout = "2006-01-02"

// FactStore answers the analytics engine's fact queries from DuckDB.
//
// Diary predicates compare written_date as calendar dates. User and session
// predicates compare instants; timestamps are stored in UTC and bucketed into
// days or months in the location of the requested range.
type FactStore struct {
	db *DB
}

var _ analytics.FactQueryPort = (*FactStore)(nil)

// NewFactStore returns a FactStore over db.
func NewFactStore(db *DB) *FactStore {
	return &FactStore{db: db}
}

// CountDiariesByDay returns one row per written date in r.
func (s *FactStore) CountDiariesByDay(ctx context.Context, r analytics.DateRange) ([]analytics.DayCount, error) {
	const query = `
		SELECT written_date, COUNT(diary_id)
		FROM diaries
		WHERE deleted_at IS NULL
		  AND written_date >= CAST(? AS DATE) AND written_date < CAST(? AS DATE)
		GROUP BY written_date
		ORDER BY written_date`

	return s.queryDayCounts(ctx, "count_diaries_by_day", "diaries", query, r.Start.Location(),
		r.Start.Format(dateLayout), r.End.Format(dateLayout))
}

// CountDiariesByMonth returns one row per month in r that has diaries.
func (s *FactStore) CountDiariesByMonth(ctx context.Context, r analytics.DateRange) ([]analytics.MonthCount, error) {
	const query = `
		SELECT year(written_date) AS y, month(written_date) AS m, COUNT(diary_id)
		FROM diaries
		WHERE deleted_at IS NULL
		  AND written_date >= CAST(? AS DATE) AND written_date < CAST(? AS DATE)
		GROUP BY y, m
		ORDER BY y, m`

	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.db.conn.QueryContext(ctx, query, r.Start.Format(dateLayout), r.End.Format(dateLayout))
	if err != nil {
		s.db.observeQuery("count_diaries_by_month", "diaries", start, err)
		return nil, fmt.Errorf("failed to count diaries by month: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var out []analytics.MonthCount
	for rows.Next() {
		var year, month int
		var count int64
		if err := rows.Scan(&year, &month, &count); err != nil {
			s.db.observeQuery("count_diaries_by_month", "diaries", start, err)
			return nil, fmt.Errorf("failed to scan monthly diary count: %w", err)
		}
		out = append(out, analytics.MonthCount{Year: year, Month: time.Month(month), Count: count})
	}
	err = rows.Err()
	s.db.observeQuery("count_diaries_by_month", "diaries", start, err)
	if err != nil {
		return nil, fmt.Errorf("error iterating monthly diary counts: %w", err)
	}
	return out, nil
}

// CountTotalDiaries counts every diary that is not deleted.
func (s *FactStore) CountTotalDiaries(ctx context.Context) (int64, error) {
	return s.queryCount(ctx, "count_total_diaries", "diaries",
		`SELECT COUNT(diary_id) FROM diaries WHERE deleted_at IS NULL`)
}

// CountDiariesInRange counts diaries written in r.
func (s *FactStore) CountDiariesInRange(ctx context.Context, r analytics.DateRange) (int64, error) {
	return s.queryCount(ctx, "count_diaries_in_range", "diaries", `
		SELECT COUNT(diary_id)
		FROM diaries
		WHERE deleted_at IS NULL
		  AND written_date >= CAST(? AS DATE) AND written_date < CAST(? AS DATE)`,
		r.Start.Format(dateLayout), r.End.Format(dateLayout))
}

// DistinctActiveUserIDs returns the ids of users who wrote in r, ascending.
func (s *FactStore) DistinctActiveUserIDs(ctx context.Context, r analytics.DateRange) ([]int64, error) {
	const query = `
		SELECT DISTINCT user_id
		FROM diaries
		WHERE deleted_at IS NULL
		  AND written_date >= CAST(? AS DATE) AND written_date < CAST(? AS DATE)
		ORDER BY user_id`

	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.db.conn.QueryContext(ctx, query, r.Start.Format(dateLayout), r.End.Format(dateLayout))
	if err != nil {
		s.db.observeQuery("distinct_active_user_ids", "diaries", start, err)
		return nil, fmt.Errorf("failed to query active users: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			s.db.observeQuery("distinct_active_user_ids", "diaries", start, err)
			return nil, fmt.Errorf("failed to scan active user: %w", err)
		}
		ids = append(ids, id)
	}
	err = rows.Err()
	s.db.observeQuery("distinct_active_user_ids", "diaries", start, err)
	if err != nil {
		return nil, fmt.Errorf("error iterating active users: %w", err)
	}
	return ids, nil
}

// DistinctActiveUserCount counts the users who wrote in r.
func (s *FactStore) DistinctActiveUserCount(ctx context.Context, r analytics.DateRange) (int64, error) {
	return s.queryCount(ctx, "distinct_active_user_count", "diaries", `
		SELECT COUNT(DISTINCT user_id)
		FROM diaries
		WHERE deleted_at IS NULL
		  AND written_date >= CAST(? AS DATE) AND written_date < CAST(? AS DATE)`,
		r.Start.Format(dateLayout), r.End.Format(dateLayout))
}

// CountActiveUsersByDay returns the distinct writer count per written date in r.
func (s *FactStore) CountActiveUsersByDay(ctx context.Context, r analytics.DateRange) ([]analytics.DayCount, error) {
	const query = `
		SELECT written_date, COUNT(DISTINCT user_id)
		FROM diaries
		WHERE deleted_at IS NULL
		  AND written_date >= CAST(? AS DATE) AND written_date < CAST(? AS DATE)
		GROUP BY written_date
		ORDER BY written_date`

	return s.queryDayCounts(ctx, "count_active_users_by_day", "diaries", query, r.Start.Location(),
		r.Start.Format(dateLayout), r.End.Format(dateLayout))
}

// CountNewUsersByDay buckets sign-ups in r by local day. Users deleted since
// still count toward the day they signed up.
func (s *FactStore) CountNewUsersByDay(ctx context.Context, r analytics.PeriodRange) ([]analytics.DayCount, error) {
	stamps, err := s.queryTimestamps(ctx, "count_new_users_by_day",
		`SELECT created_at FROM users WHERE created_at >= ? AND created_at < ?`, r)
	if err != nil {
		return nil, err
	}
	return bucketByDay(stamps, r.Start.Location()), nil
}

// CountNewUsersByMonth buckets sign-ups in r by local month.
func (s *FactStore) CountNewUsersByMonth(ctx context.Context, r analytics.PeriodRange) ([]analytics.MonthCount, error) {
	stamps, err := s.queryTimestamps(ctx, "count_new_users_by_month",
		`SELECT created_at FROM users WHERE created_at >= ? AND created_at < ?`, r)
	if err != nil {
		return nil, err
	}
	return bucketByMonth(stamps, r.Start.Location()), nil
}

// CountWithdrawnUsersByDay buckets deletions in r by local day.
func (s *FactStore) CountWithdrawnUsersByDay(ctx context.Context, r analytics.PeriodRange) ([]analytics.DayCount, error) {
	stamps, err := s.queryTimestamps(ctx, "count_withdrawn_users_by_day",
		`SELECT deleted_at FROM users WHERE deleted_at >= ? AND deleted_at < ?`, r)
	if err != nil {
		return nil, err
	}
	return bucketByDay(stamps, r.Start.Location()), nil
}

// CountWithdrawnUsersByMonth buckets deletions in r by local month.
func (s *FactStore) CountWithdrawnUsersByMonth(ctx context.Context, r analytics.PeriodRange) ([]analytics.MonthCount, error) {
	stamps, err := s.queryTimestamps(ctx, "count_withdrawn_users_by_month",
		`SELECT deleted_at FROM users WHERE deleted_at >= ? AND deleted_at < ?`, r)
	if err != nil {
		return nil, err
	}
	return bucketByMonth(stamps, r.Start.Location()), nil
}

// CountUsersInRange counts sign-ups in r, including users deleted since.
func (s *FactStore) CountUsersInRange(ctx context.Context, r analytics.PeriodRange) (int64, error) {
	return s.queryCount(ctx, "count_users_in_range", "users",
		`SELECT COUNT(user_id) FROM users WHERE created_at >= ? AND created_at < ?`,
		r.Start.UTC(), r.End.UTC())
}

// CountTotalActiveUsers counts users that are not deleted.
func (s *FactStore) CountTotalActiveUsers(ctx context.Context) (int64, error) {
	return s.queryCount(ctx, "count_total_active_users", "users",
		`SELECT COUNT(user_id) FROM users WHERE deleted_at IS NULL`)
}

// MostRecentRiskSessionPerUser returns each user's highest-id session in r,
// ordered by user id.
func (s *FactStore) MostRecentRiskSessionPerUser(ctx context.Context, r analytics.PeriodRange) ([]analytics.UserRiskLevel, error) {
	const query = `
		SELECT s.user_id, s.risk_level
		FROM risk_detection_sessions s
		WHERE s.id IN (
			SELECT MAX(id)
			FROM risk_detection_sessions
			WHERE created_at >= ? AND created_at < ?
			GROUP BY user_id
		)
		ORDER BY s.user_id`

	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.db.conn.QueryContext(ctx, query, r.Start.UTC(), r.End.UTC())
	if err != nil {
		s.db.observeQuery("most_recent_risk_session_per_user", "risk_detection_sessions", start, err)
		return nil, fmt.Errorf("failed to query latest risk sessions: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var out []analytics.UserRiskLevel
	for rows.Next() {
		var row analytics.UserRiskLevel
		var level string
		if err := rows.Scan(&row.UserID, &level); err != nil {
			s.db.observeQuery("most_recent_risk_session_per_user", "risk_detection_sessions", start, err)
			return nil, fmt.Errorf("failed to scan risk session: %w", err)
		}
		// Validated by the engine; unknown levels surface as upstream errors there.
		row.Level = analytics.RiskLevel(level)
		out = append(out, row)
	}
	err = rows.Err()
	s.db.observeQuery("most_recent_risk_session_per_user", "risk_detection_sessions", start, err)
	if err != nil {
		return nil, fmt.Errorf("error iterating risk sessions: %w", err)
	}
	return out, nil
}

// CountDistinctUsersWithAnySession counts users with at least one session in r.
func (s *FactStore) CountDistinctUsersWithAnySession(ctx context.Context, r analytics.PeriodRange) (int64, error) {
	return s.queryCount(ctx, "count_distinct_users_with_any_session", "risk_detection_sessions", `
		SELECT COUNT(DISTINCT user_id)
		FROM risk_detection_sessions
		WHERE created_at >= ? AND created_at < ?`,
		r.Start.UTC(), r.End.UTC())
}

// queryCount runs a single-value COUNT query.
func (s *FactStore) queryCount(ctx context.Context, name, table, query string, args ...interface{}) (int64, error) {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var n sql.NullInt64
	err := s.db.conn.QueryRowContext(ctx, query, args...).Scan(&n)
	s.db.observeQuery(name, table, start, err)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n.Int64, nil
}

// queryDayCounts runs a (DATE, count) query and rebases the dates into loc.
func (s *FactStore) queryDayCounts(ctx context.Context, name, table, query string, loc *time.Location, args ...interface{}) ([]analytics.DayCount, error) {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		s.db.observeQuery(name, table, start, err)
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer closeWithLog(rows, "rows")

	var out []analytics.DayCount
	for rows.Next() {
		var date time.Time
		var count int64
		if err := rows.Scan(&date, &count); err != nil {
			s.db.observeQuery(name, table, start, err)
			return nil, fmt.Errorf("%s: failed to scan row: %w", name, err)
		}
		// DATE values scan as UTC midnight; keep the calendar day, not the instant.
		y, m, d := date.Date()
		out = append(out, analytics.DayCount{Date: time.Date(y, m, d, 0, 0, 0, 0, loc), Count: count})
	}
	err = rows.Err()
	s.db.observeQuery(name, table, start, err)
	if err != nil {
		return nil, fmt.Errorf("%s: error iterating rows: %w", name, err)
	}
	return out, nil
}

// queryTimestamps returns the single timestamp column of query over r.
func (s *FactStore) queryTimestamps(ctx context.Context, name, query string, r analytics.PeriodRange) ([]time.Time, error) {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.db.conn.QueryContext(ctx, query, r.Start.UTC(), r.End.UTC())
	if err != nil {
		s.db.observeQuery(name, "users", start, err)
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer closeWithLog(rows, "rows")

	var out []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			s.db.observeQuery(name, "users", start, err)
			return nil, fmt.Errorf("%s: failed to scan timestamp: %w", name, err)
		}
		out = append(out, ts)
	}
	err = rows.Err()
	s.db.observeQuery(name, "users", start, err)
	if err != nil {
		return nil, fmt.Errorf("%s: error iterating rows: %w", name, err)
	}
	return out, nil
}

// bucketByDay counts stamps per local calendar day, ascending.
func bucketByDay(stamps []time.Time, loc *time.Location) []analytics.DayCount {
	counts := make(map[time.Time]int64)
	for _, ts := range stamps {
		y, m, d := ts.In(loc).Date()
		counts[time.Date(y, m, d, 0, 0, 0, 0, loc)]++
	}

	out := make([]analytics.DayCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, analytics.DayCount{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// bucketByMonth counts stamps per local calendar month, ascending.
func bucketByMonth(stamps []time.Time, loc *time.Location) []analytics.MonthCount {
	type key struct {
		year  int
		month time.Month
	}
	counts := make(map[key]int64)
	for _, ts := range stamps {
		local := ts.In(loc)
		counts[key{local.Year(), local.Month()}]++
	}

	out := make([]analytics.MonthCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, analytics.MonthCount{Year: k.year, Month: k.month, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}
