// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

/*
Package api provides the HTTP REST API layer for Finpick.

Handlers are thin: they decode and validate the request, delegate to a
service package (ledger, questionnaire, recommend, exchange, sync, auth)
or the database, and write the result through ResponseWriter.

Response envelope:

	{
	  "status": "success" | "error",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 3},
	  "error": {"code": "NOT_FOUND", "message": "...", "details": {...}}
	}

Errors returned by services are mapped once, in classifyError, from package
sentinels to status codes:

  - validation failures, bad credentials, invalid answers: 400
  - unknown rows: 404
  - duplicates and a running sync: 409
  - upstream failures: 502, or 503 while a circuit breaker is open
  - deadlines: 504

Middleware stack (outermost first): request ID, real IP, panic recovery,
CORS, access log; under /api/v1 additionally rate limiting, security
headers, Prometheus metrics and gzip. Authenticated routes then pass
auth.Middleware and the Casbin authorization check.
*/
package api
