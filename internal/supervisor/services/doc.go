// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

/*
Package services adapts Diarystats components to suture.Service.

Each adapter implements

	Serve(ctx context.Context) error

and fmt.Stringer, so supervisor events name the service.

  - HTTPServerService: runs *http.Server, shutting down gracefully on cancel
  - CheckpointService: periodic CHECKPOINT of the DuckDB fact store

Returning an error from Serve asks the supervisor for a restart; returning
ctx.Err() after cancellation is a clean stop.
*/
package services
