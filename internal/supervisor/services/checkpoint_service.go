// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package services

import (
	"context"
	"time"

	"github.com/tomtom215/diarystats/internal/logging"
)

// Checkpointer flushes the fact store write-ahead log. Satisfied by
// *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService runs CHECKPOINT on the fact store at a fixed interval so
// the DuckDB WAL stays small between restarts. A failed checkpoint is logged
// and retried on the next tick; it never takes the service down.
type CheckpointService struct {
	db       Checkpointer
	interval time.Duration
	name     string
}

// NewCheckpointService creates the service. A non-positive interval makes
// Serve idle until shutdown.
func NewCheckpointService(db Checkpointer, interval time.Duration) *CheckpointService {
	return &CheckpointService{
		db:       db,
		interval: interval,
		name:     "fact-store-checkpoint",
	}
}

// Serve implements suture.Service.
func (s *CheckpointService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.db.Checkpoint(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logging.Warn().Err(err).Msg("Fact store checkpoint failed")
				continue
			}
			logging.Debug().Dur("duration", time.Since(start)).Msg("Fact store checkpoint complete")
		}
	}
}

// String names the service in supervisor events.
func (s *CheckpointService) String() string {
	return s.name
}
