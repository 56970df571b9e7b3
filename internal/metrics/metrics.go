// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package metrics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Catalog Sync Metrics
	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_sync_duration_seconds",
			Help:    "Duration of catalog sync runs in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"kind"},
	)

	SyncRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_records_total",
			Help: "Catalog items handled by sync, by outcome",
		},
		[]string{"kind", "outcome"}, // outcome: saved, skipped, failed
	)

	SyncErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_errors_total",
			Help: "Total number of aborted catalog sync runs",
		},
		[]string{"kind", "error_type"},
	)

	SyncLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_sync_last_success_timestamp",
			Help: "Unix timestamp of the last successful sync per kind",
		},
		[]string{"kind"},
	)

	// Upstream Client Metrics
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of outbound vendor requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"upstream", "result"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Recommendation Metrics
	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time spent scoring and ranking the catalog",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendationsServed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_result_size",
			Help:    "Number of products returned per recommendation request",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 10},
		},
	)

	LLMFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_fallbacks_total",
			Help: "Times an LLM-backed feature fell back to its static answer",
		},
		[]string{"feature"}, // questions, explanation
	)

	// Account Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Login and signup attempts by result",
		},
		[]string{"action", "result"},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSyncRun records the outcome of one catalog sync run.
func RecordSyncRun(kind string, duration time.Duration, saved, skipped, failed int, err error) {
	SyncDuration.WithLabelValues(kind).Observe(duration.Seconds())
	SyncRecords.WithLabelValues(kind, "saved").Add(float64(saved))
	SyncRecords.WithLabelValues(kind, "skipped").Add(float64(skipped))
	SyncRecords.WithLabelValues(kind, "failed").Add(float64(failed))

	if err != nil {
		SyncErrors.WithLabelValues(kind, classifySyncError(err)).Inc()
		return
	}
	SyncLastSuccess.WithLabelValues(kind).Set(float64(time.Now().Unix()))
}

// classifySyncError buckets an error message into a low-cardinality label.
func classifySyncError(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "circuit breaker"):
		return "circuit_open"
	case strings.Contains(msg, "upstream"):
		return "upstream"
	case strings.Contains(msg, "database"), strings.Contains(msg, "transaction"):
		return "database"
	default:
		return "other"
	}
}

// RecordUpstreamRequest records one outbound vendor call.
func RecordUpstreamRequest(upstream string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	UpstreamRequestDuration.WithLabelValues(upstream, result).Observe(duration.Seconds())
}

// RecordCacheLookup counts a hit or a miss for the named cache.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
	} else {
		CacheMisses.WithLabelValues(cache).Inc()
	}
}

// RecordRecommendation records one assembler run.
func RecordRecommendation(duration time.Duration, results int) {
	RecommendationDuration.Observe(duration.Seconds())
	RecommendationsServed.Observe(float64(results))
}

// RecordLLMFallback counts a fallback for an LLM-backed feature.
func RecordLLMFallback(feature string) {
	LLMFallbacks.WithLabelValues(feature).Inc()
}

// RecordAuthAttempt counts a login or signup attempt.
func RecordAuthAttempt(action string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	AuthAttempts.WithLabelValues(action, result).Inc()
}
