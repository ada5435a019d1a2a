// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/diarystats/internal/models"
)

// Defaults for the dashboard stats choices.
const (
	DefaultStatsPeriod    = PeriodMonthly
	DefaultActiveUserType = "dau"
	DefaultNewUserPeriod  = "daily"
)

// AverageDailyDiaries returns the integer average diaries per day.
//
// For yearly periods the monthly counts are summed and divided by the number
// of calendar days in r. Otherwise the daily counts are summed and divided by
// the number of rows, i.e. only days that have at least one diary. Both
// return 0 when there are no rows.
func AverageDailyDiaries(p Period, daily []DayCount, monthly []MonthCount, r DateRange) int64 {
	if p == PeriodYearly {
		if len(monthly) == 0 {
			return 0
		}
		var total int64
		for _, row := range monthly {
			total += row.Count
		}
		days := int64(r.Days())
		if days <= 0 {
			return 0
		}
		return total / days
	}

	if len(daily) == 0 {
		return 0
	}
	return sumRows(daily) / int64(len(daily))
}

// DashboardStats returns the headline cards. The period selects the
// current/previous window pair for totals, averages and risk counts; active
// and new user cards are always measured as of today and only tagged with the
// caller's choices. Empty arguments take DefaultStatsPeriod,
// DefaultActiveUserType and DefaultNewUserPeriod.
func (e *Engine) DashboardStats(ctx context.Context, period, activeUserType, newUserPeriod string) (resp *models.DashboardStatsResponse, err error) {
	defer e.observe(ctx, "dashboard_stats", time.Now(), &err)

	p := DefaultStatsPeriod
	if strings.TrimSpace(period) != "" {
		if p, err = ParsePeriod(period); err != nil {
			return nil, err
		}
	}
	activeUserType = choiceOrDefault(activeUserType, DefaultActiveUserType)
	newUserPeriod = choiceOrDefault(newUserPeriod, DefaultNewUserPeriod)

	cur, err := e.resolver.ResolveCurrent(p)
	if err != nil {
		return nil, err
	}
	prev, err := e.resolver.Previous(p, cur.Range.Start)
	if err != nil {
		return nil, err
	}
	e.logResolution(ctx, "dashboard_stats", cur)

	today := e.resolver.Today()
	weekly := e.settings.WeeklyWindowDays
	monthly := e.settings.MonthlyWindowDays

	var (
		stats = models.DashboardStatsResponse{
			TotalUsers:          models.TotalUsersInfo{Period: string(p)},
			ActiveUsers:         models.ActiveUsersInfo{Type: activeUserType},
			NewUsers:            models.NewUsersInfo{Period: newUserPeriod},
			AverageDailyDiaries: models.AverageDailyDiariesInfo{Period: string(p)},
		}
		usersCurrent, usersPrevious     int64
		diariesCurrent, diariesPrevious int64
		dailyRows                       []DayCount
		monthlyRows                     []MonthCount
		riskRows                        []UserRiskLevel
	)

	g, gctx := e.group(ctx)
	count := func(op string, dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			if err != nil {
				return upstream(op, err)
			}
			*dst = n
			return nil
		})
	}

	// Total users and sign-up change.
	count("count_total_active_users", &stats.TotalUsers.Count, e.facts.CountTotalActiveUsers)
	count("count_users_in_range", &usersCurrent, func(ctx context.Context) (int64, error) {
		return e.facts.CountUsersInRange(ctx, cur.Range)
	})
	count("count_users_in_range", &usersPrevious, func(ctx context.Context) (int64, error) {
		return e.facts.CountUsersInRange(ctx, prev)
	})

	// Active users as of today.
	count("distinct_active_user_count", &stats.ActiveUsers.DAU, func(ctx context.Context) (int64, error) {
		return e.facts.DistinctActiveUserCount(ctx, singleDay(today))
	})
	count("distinct_active_user_count", &stats.ActiveUsers.WAU, func(ctx context.Context) (int64, error) {
		return e.facts.DistinctActiveUserCount(ctx, trailingWindow(today, weekly))
	})
	count("distinct_active_user_count", &stats.ActiveUsers.MAU, func(ctx context.Context) (int64, error) {
		return e.facts.DistinctActiveUserCount(ctx, trailingWindow(today, monthly))
	})

	// New users: today, trailing week, month to date.
	count("count_new_users_by_day", &stats.NewUsers.Daily, func(ctx context.Context) (int64, error) {
		rows, err := e.facts.CountNewUsersByDay(ctx, singleDay(today).Period())
		if err != nil {
			return 0, err
		}
		return countsByDay(rows)[dayLabel(today)], nil
	})
	count("count_new_users_by_day", &stats.NewUsers.Weekly, func(ctx context.Context) (int64, error) {
		rows, err := e.facts.CountNewUsersByDay(ctx, trailingWindow(today, weekly).Period())
		return sumRows(rows), err
	})
	count("count_new_users_by_day", &stats.NewUsers.Monthly, func(ctx context.Context) (int64, error) {
		monthStart := firstOfMonth(today.Year(), today.Month(), today.Location())
		rows, err := e.facts.CountNewUsersByDay(ctx, PeriodRange{Start: monthStart, End: addDays(today, 1)})
		return sumRows(rows), err
	})

	// Diaries: lifetime total and change on day boundaries.
	count("count_total_diaries", &stats.TotalDiaries.Count, e.facts.CountTotalDiaries)
	count("count_diaries_in_range", &diariesCurrent, func(ctx context.Context) (int64, error) {
		return e.facts.CountDiariesInRange(ctx, cur.Dates())
	})
	count("count_diaries_in_range", &diariesPrevious, func(ctx context.Context) (int64, error) {
		return e.facts.CountDiariesInRange(ctx, prev.Dates())
	})

	// Average daily diaries over the current period.
	if p == PeriodYearly {
		g.Go(func() error {
			var err error
			monthlyRows, err = e.facts.CountDiariesByMonth(gctx, cur.Dates())
			return upstream("count_diaries_by_month", err)
		})
	} else {
		g.Go(func() error {
			var err error
			dailyRows, err = e.facts.CountDiariesByDay(gctx, cur.Dates())
			return upstream("count_diaries_by_day", err)
		})
	}

	// Risk level users over the current period.
	g.Go(func() error {
		var err error
		riskRows, err = e.facts.MostRecentRiskSessionPerUser(gctx, cur.Range)
		return upstream("most_recent_risk_session_per_user", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	dist, err := TallyRiskLevels(riskRows)
	if err != nil {
		return nil, err
	}

	stats.TotalUsers.Change = usersCurrent - usersPrevious
	stats.TotalDiaries.Change = diariesCurrent - diariesPrevious
	stats.AverageDailyDiaries.Count = AverageDailyDiaries(p, dailyRows, monthlyRows, cur.Dates())
	stats.RiskLevelUsers = models.RiskLevelUsersInfo{
		High:   dist.Counts[RiskHigh],
		Medium: dist.Counts[RiskMedium],
		Low:    dist.Counts[RiskLow],
		None:   dist.Counts[RiskNone],
	}

	return &stats, nil
}

func choiceOrDefault(v, def string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return def
	}
	return v
}
