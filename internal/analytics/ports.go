// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package analytics

import (
	"context"
	"time"
)

// FactQueryPort supplies the read-only facts the calculators aggregate.
//
// DateRange arguments are evaluated against diary written dates; PeriodRange
// arguments against user and risk-session timestamps. Every range is
// half-open and soft-deleted rows are excluded unless a method says otherwise.
// Implementations must be safe for concurrent use.
type FactQueryPort interface {
	// CountDiariesByDay returns one row per day that has at least one diary.
	CountDiariesByDay(ctx context.Context, r DateRange) ([]DayCount, error)
	// CountDiariesByMonth returns one row per month that has at least one diary.
	CountDiariesByMonth(ctx context.Context, r DateRange) ([]MonthCount, error)
	CountTotalDiaries(ctx context.Context) (int64, error)
	CountDiariesInRange(ctx context.Context, r DateRange) (int64, error)

	// DistinctActiveUserIDs returns the users who wrote a diary in r.
	DistinctActiveUserIDs(ctx context.Context, r DateRange) ([]int64, error)
	DistinctActiveUserCount(ctx context.Context, r DateRange) (int64, error)
	// CountActiveUsersByDay returns the distinct writer count for each day
	// that has at least one diary.
	CountActiveUsersByDay(ctx context.Context, r DateRange) ([]DayCount, error)

	CountNewUsersByDay(ctx context.Context, r PeriodRange) ([]DayCount, error)
	CountNewUsersByMonth(ctx context.Context, r PeriodRange) ([]MonthCount, error)
	// CountWithdrawnUsersByDay buckets users by their deletion timestamp.
	CountWithdrawnUsersByDay(ctx context.Context, r PeriodRange) ([]DayCount, error)
	CountWithdrawnUsersByMonth(ctx context.Context, r PeriodRange) ([]MonthCount, error)
	// CountUsersInRange counts users created in r.
	CountUsersInRange(ctx context.Context, r PeriodRange) (int64, error)
	// CountTotalActiveUsers counts all users that are not deleted.
	CountTotalActiveUsers(ctx context.Context) (int64, error)

	// MostRecentRiskSessionPerUser returns, for each user with a session in r,
	// the level of that user's latest session in r (highest id wins).
	MostRecentRiskSessionPerUser(ctx context.Context, r PeriodRange) ([]UserRiskLevel, error)
	CountDistinctUsersWithAnySession(ctx context.Context, r PeriodRange) (int64, error)
}

// DayCount is a count bucketed by calendar day.
type DayCount struct {
	Date  time.Time
	Count int64
}

// MonthCount is a count bucketed by calendar month.
type MonthCount struct {
	Year  int
	Month time.Month
	Count int64
}

// UserRiskLevel attributes a user to the level of their latest session.
type UserRiskLevel struct {
	UserID int64
	Level  RiskLevel
}

// RiskLevel is the categorical classification assigned to a risk session.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
	RiskNone   RiskLevel = "NONE"
)

// RiskLevels lists every level in display order.
var RiskLevels = []RiskLevel{RiskHigh, RiskMedium, RiskLow, RiskNone}

// Valid reports whether l is one of the known levels.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskHigh, RiskMedium, RiskLow, RiskNone:
		return true
	}
	return false
}
