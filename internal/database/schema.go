// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package database

import (
	"context"
	"fmt"
	"time"
)

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, q := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, q := range indexQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

var tableCreationQueries = []string{
	`CREATE SEQUENCE IF NOT EXISTS diary_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS risk_session_id_seq START 1`,

	`CREATE TABLE IF NOT EXISTS users (
		user_id BIGINT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		deleted_at TIMESTAMP
	)`,

	// written_date is the calendar day the diary is about, not an instant.
	`CREATE TABLE IF NOT EXISTS diaries (
		diary_id BIGINT PRIMARY KEY DEFAULT nextval('diary_id_seq'),
		user_id BIGINT NOT NULL,
		written_date DATE NOT NULL,
		deleted_at TIMESTAMP
	)`,

	// Ids are monotonic; the highest id per user is that user's latest session.
	`CREATE TABLE IF NOT EXISTS risk_detection_sessions (
		id BIGINT PRIMARY KEY DEFAULT nextval('risk_session_id_seq'),
		user_id BIGINT NOT NULL,
		risk_level VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
}

var indexQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_users_deleted_at ON users(deleted_at)`,
	`CREATE INDEX IF NOT EXISTS idx_diaries_written_date ON diaries(written_date)`,
	`CREATE INDEX IF NOT EXISTS idx_diaries_user_date ON diaries(user_id, written_date)`,
	`CREATE INDEX IF NOT EXISTS idx_risk_sessions_created_at ON risk_detection_sessions(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_risk_sessions_user ON risk_detection_sessions(user_id, id)`,
}
