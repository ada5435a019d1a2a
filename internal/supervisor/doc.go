// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

/*
Package supervisor runs Diarystats under a suture v4 supervision tree.

The tree has two layers below the root:

  - data-layer: background fact store maintenance (periodic CHECKPOINT)
  - api-layer: the HTTP server

Services are restarted with exponential backoff when they return an error or
panic. Supervisor events are logged through sutureslog into the zerolog
backed slog.Logger from internal/logging.

Usage:

	logger := logging.NewSlogLogger("supervisor")
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.TreeConfigFrom(cfg.Supervisor))
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)

Service adapters live in the services subpackage.
*/
package supervisor
