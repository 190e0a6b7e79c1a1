// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

// Package logging provides centralized zerolog-based structured logging.
//
// The package exposes a process-global logger configured once at startup,
// package-level level helpers (Info, Warn, Error, ...), request-scoped
// enrichment through Ctx, and an slog.Handler adapter so supervisor logging
// (sutureslog) shares the same output stream.
//
// All request handling code should log through Ctx(ctx) so request IDs
// assigned by the HTTP middleware appear on every line emitted while
// serving that request:
//
//	logging.Ctx(ctx).Info().
//	    Int("year_a", req.YearA).
//	    Int("year_b", req.YearB).
//	    Msg("Change analysis started")
//
// Output format and level come from the logging section of the application
// configuration (LOG_LEVEL, LOG_FORMAT, LOG_CALLER).
package logging
