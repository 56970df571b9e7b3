// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

/*
Package middleware provides the infrastructure middleware shared by every
route of the HTTP API.

Key Components:

  - RequestID: UUID-based request tracking, stored in the logging context
  - PrometheusMetrics: request count, latency and in-flight instrumentation

Both use chi's func(http.Handler) http.Handler shape:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

PrometheusMetrics labels requests by route pattern rather than raw path, so it
must run inside a chi router.
*/
package middleware
