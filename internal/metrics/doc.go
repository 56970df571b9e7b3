// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

/*
Package metrics provides Prometheus metrics for the Finpick backend.

All collectors are registered on the default registry through promauto and
exposed by the HTTP server at /metrics.

# Available Metrics

API:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Catalog sync:
  - catalog_sync_duration_seconds{kind}
  - catalog_sync_records_total{kind, outcome}
  - catalog_sync_errors_total{kind, error_type}
  - catalog_sync_last_success_timestamp{kind}

Upstream clients and circuit breakers:
  - upstream_request_duration_seconds{upstream, result}
  - circuit_breaker_state{name}
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name, from_state, to_state}

Recommendations and LLM:
  - recommendation_duration_seconds
  - recommendation_result_size
  - llm_fallbacks_total{feature}

Other:
  - cache_hits_total{cache}, cache_misses_total{cache}
  - auth_attempts_total{action, result}
  - app_info{version, go_version}

# Usage

	start := time.Now()
	res, err := syncer.Sync(ctx, models.ProductKindDeposit, groups)
	metrics.RecordSyncRun("deposit", time.Since(start), res.Saved, res.Skipped, res.Failed, err)
*/
package metrics
