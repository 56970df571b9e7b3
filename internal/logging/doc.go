// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

// Package logging provides zerolog-based structured logging for Finpick.
//
// A single global logger is configured at startup from LOG_LEVEL, LOG_FORMAT
// and LOG_CALLER:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("kind", "deposit").Int("saved", 12).Msg("Catalog sync finished")
//
// Request handlers log through Ctx, which adds the request_id and
// correlation_id carried by the context:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Upstream call failed")
//
// SlogHandler adapts the logger to log/slog for the supervisor tree, and
// AuditAuth records account events with user-supplied fields sanitized.
package logging
