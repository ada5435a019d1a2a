// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/tomtom215/diarystats/internal/logging"
)

// InsertUser records a user. deletedAt marks a withdrawn account.
func (db *DB) InsertUser(ctx context.Context, userID int64, createdAt time.Time, deletedAt *time.Time) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var deleted interface{}
	if deletedAt != nil {
		deleted = deletedAt.UTC()
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (user_id, created_at, deleted_at) VALUES (?, ?, ?)`,
		userID, createdAt.UTC(), deleted)
	if err != nil {
		return fmt.Errorf("failed to insert user %d: %w", userID, err)
	}
	return nil
}

// InsertDiary records a diary for the calendar day of writtenDate and returns its id.
func (db *DB) InsertDiary(ctx context.Context, userID int64, writtenDate time.Time) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO diaries (user_id, written_date) VALUES (?, CAST(? AS DATE)) RETURNING diary_id`,
		userID, writtenDate.Format(dateLayout)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert diary for user %d: %w", userID, err)
	}
	return id, nil
}

// DeleteDiary soft-deletes a diary.
func (db *DB) DeleteDiary(ctx context.Context, diaryID int64, at time.Time) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE diaries SET deleted_at = ? WHERE diary_id = ? AND deleted_at IS NULL`,
		at.UTC(), diaryID)
	if err != nil {
		return fmt.Errorf("failed to delete diary %d: %w", diaryID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("diary %d not found", diaryID)
	}
	return nil
}

// InsertRiskSession records a classified risk session and returns its id.
// Ids increase with insertion order.
func (db *DB) InsertRiskSession(ctx context.Context, userID int64, level string, createdAt time.Time) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO risk_detection_sessions (user_id, risk_level, created_at) VALUES (?, ?, ?) RETURNING id`,
		userID, level, createdAt.UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert risk session for user %d: %w", userID, err)
	}
	return id, nil
}

// SeedMockData fills an empty database with a deterministic year of users,
// diaries and risk sessions ending at now. It does nothing when users exist.
func (db *DB) SeedMockData(ctx context.Context, now time.Time) error {
	users, _, _, err := db.RecordCounts(ctx)
	if err != nil {
		return err
	}
	if users > 0 {
		logging.Info().Int64("users", users).Msg("Database already has users, skipping mock data")
		return nil
	}

	const (
		numUsers       = 120
		daysOfHistory  = 400
		withdrawnRatio = 0.08
		writeChance    = 0.35
		riskChance     = 0.05
	)
	levels := []string{"HIGH", "MEDIUM", "LOW", "NONE", "NONE", "NONE"}

	// Fixed seed so screenshots and demos are reproducible.
	rng := rand.New(rand.NewSource(20240301))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	logging.Info().Int("users", numUsers).Int("days", daysOfHistory).Msg("Seeding database with mock data...")

	var diaries, sessions int
	for id := int64(1); id <= numUsers; id++ {
		joined := today.AddDate(0, 0, -rng.Intn(daysOfHistory)).Add(time.Duration(rng.Intn(86400)) * time.Second)

		var deletedAt *time.Time
		if rng.Float64() < withdrawnRatio {
			span := int(today.Sub(joined).Hours()/24) + 1
			d := joined.AddDate(0, 0, rng.Intn(span))
			deletedAt = &d
		}
		if err := db.InsertUser(ctx, id, joined, deletedAt); err != nil {
			return err
		}

		last := today
		if deletedAt != nil {
			last = *deletedAt
		}
		for day := joined; !day.After(last); day = day.AddDate(0, 0, 1) {
			if rng.Float64() >= writeChance {
				continue
			}
			if _, err := db.InsertDiary(ctx, id, day); err != nil {
				return err
			}
			diaries++

			if rng.Float64() < riskChance {
				level := levels[rng.Intn(len(levels))]
				if _, err := db.InsertRiskSession(ctx, id, level, day.Add(time.Hour)); err != nil {
					return err
				}
				sessions++
			}
		}
	}

	logging.Info().
		Int("users", numUsers).
		Int("diaries", diaries).
		Int("risk_sessions", sessions).
		Msg("Mock data seeded")
	return nil
}
