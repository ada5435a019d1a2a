// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/diarystats/internal/analytics"
	"github.com/tomtom215/diarystats/internal/api"
	"github.com/tomtom215/diarystats/internal/config"
	"github.com/tomtom215/diarystats/internal/database"
	"github.com/tomtom215/diarystats/internal/logging"
	"github.com/tomtom215/diarystats/internal/middleware"
	"github.com/tomtom215/diarystats/internal/supervisor"
	"github.com/tomtom215/diarystats/internal/supervisor/services"
	"github.com/tomtom215/diarystats/internal/upstream"
)

// slowRequestThreshold marks dashboard requests worth a warning log.
const slowRequestThreshold = time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Diarystats")

	loc, err := cfg.Analytics.Location()
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid analytics timezone")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	db.SetQueryTimeout(cfg.Analytics.QueryTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.SeedMockData {
		logging.Info().Msg("Seeding mock diary data")
		if err := db.SeedMockData(ctx, time.Now().In(loc)); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed mock data")
		}
	}

	guarded := upstream.New(database.NewFactStore(db), &cfg.Upstream)

	engine := analytics.NewEngine(guarded, analytics.Settings{
		Location:             loc,
		WeeklyWindowDays:     cfg.Analytics.WeeklyWindowDays,
		MonthlyWindowDays:    cfg.Analytics.MonthlyWindowDays,
		PercentagePrecision:  cfg.Analytics.PercentagePrecision,
		MaxConcurrentQueries: cfg.Analytics.MaxConcurrentQueries,
	})

	perfMon := middleware.NewPerformanceMonitor(1000, slowRequestThreshold)
	handler := api.NewHandler(engine, db, guarded, cfg.Risk.Settings(), perfMon)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(
		logging.NewSlogLogger("supervisor"),
		supervisor.TreeConfigFrom(cfg.Supervisor),
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Dashboard API listening")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor stopped with error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor terminated unexpectedly")
		}
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		logging.Warn().Int("count", len(report)).Msg("Services did not stop cleanly")
	}

	logging.Info().Msg("Diarystats stopped")
}
