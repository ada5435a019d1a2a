// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

/*
Package logging provides the zerolog-based logger shared by every Diarystats
component.

# Setup

Init is called once from main with the logging section of the configuration.
Before that a JSON logger at info level writes to stderr, so packages may log
during init and tests without any setup.

	logging.Init(logging.Config{Level: "debug", Format: "console"})

# Request-scoped logging

The API router stores a request ID in the request context. Ctx returns the
global logger (or one stored with ContextWithLogger) enriched with that ID:

	logging.Ctx(ctx).Warn().Int64("distinct_users", n).Msg("Risk user count changed")

# slog bridge

suture reports supervisor events through log/slog. NewSlogLogger returns an
*slog.Logger whose records are written by zerolog so all output shares one
format.

Always terminate event chains with Msg or Send; an unterminated event is
silently dropped.
*/
package logging
