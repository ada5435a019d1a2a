// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/diarystats/internal/logging"
	"github.com/tomtom215/diarystats/internal/models"
)

// RiskDistribution attributes every user with a session in a range to the
// level of their latest session. Counts always has all four levels, and the
// counts sum to Total.
type RiskDistribution struct {
	Counts map[RiskLevel]int64
	Total  int64
}

// Percentage returns the share of level in the distribution, rounded to
// places decimals. It is 0 for every level when Total is 0.
func (d RiskDistribution) Percentage(level RiskLevel, places int32) float64 {
	return Percentage(d.Counts[level], d.Total, places)
}

// TallyRiskLevels counts one unit per row toward its level. A level outside
// the known four is malformed upstream data.
func TallyRiskLevels(rows []UserRiskLevel) (RiskDistribution, error) {
	counts := make(map[RiskLevel]int64, len(RiskLevels))
	for _, level := range RiskLevels {
		counts[level] = 0
	}
	for _, row := range rows {
		if !row.Level.Valid() {
			return RiskDistribution{}, upstream("most_recent_risk_session_per_user",
				fmt.Errorf("unknown risk level %q for user %d", row.Level, row.UserID))
		}
		counts[row.Level]++
	}
	return RiskDistribution{Counts: counts, Total: int64(len(rows))}, nil
}

// Distribute computes the risk distribution over r.
func (e *Engine) Distribute(ctx context.Context, r PeriodRange) (RiskDistribution, error) {
	g, gctx := e.group(ctx)

	var rows []UserRiskLevel
	var distinct int64
	g.Go(func() error {
		var err error
		rows, err = e.facts.MostRecentRiskSessionPerUser(gctx, r)
		return upstream("most_recent_risk_session_per_user", err)
	})
	g.Go(func() error {
		var err error
		distinct, err = e.facts.CountDistinctUsersWithAnySession(gctx, r)
		return upstream("count_distinct_users_with_any_session", err)
	})
	if err := g.Wait(); err != nil {
		return RiskDistribution{}, err
	}

	dist, err := TallyRiskLevels(rows)
	if err != nil {
		return RiskDistribution{}, err
	}
	if distinct != dist.Total {
		// The two reads are not taken from one snapshot; report what was attributed.
		logging.Ctx(ctx).Warn().
			Int64("attributed_users", dist.Total).
			Int64("distinct_users", distinct).
			Time("start", r.Start).
			Time("end", r.End).
			Msg("Risk session user count changed between reads")
	}
	return dist, nil
}

// RiskLevelDistribution returns the risk-level pie chart for the requested period.
func (e *Engine) RiskLevelDistribution(ctx context.Context, period string, year, month *int) (resp *models.RiskLevelDistributionResponse, err error) {
	defer e.observe(ctx, "risk_level_distribution", time.Now(), &err)

	res, err := e.resolver.Resolve(period, year, month)
	if err != nil {
		return nil, err
	}
	e.logResolution(ctx, "risk_level_distribution", res)

	dist, err := e.Distribute(ctx, res.Range)
	if err != nil {
		return nil, err
	}

	places := e.settings.PercentagePrecision
	item := func(level RiskLevel) models.RiskLevelDistributionItem {
		return models.RiskLevelDistributionItem{
			Count:      dist.Counts[level],
			Percentage: dist.Percentage(level, places),
		}
	}

	return &models.RiskLevelDistributionResponse{
		Period: period,
		Year:   res.Year,
		Month:  copyInt(month),
		Distribution: models.RiskLevelDistribution{
			High:   item(RiskHigh),
			Medium: item(RiskMedium),
			Low:    item(RiskLow),
			None:   item(RiskNone),
		},
		Total: dist.Total,
	}, nil
}
