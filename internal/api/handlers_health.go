// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/finpick/internal/models"
)

// HealthLive reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// Health reports database connectivity, version and uptime.
// It always answers 200; a failing database shows up as "degraded".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(h.healthStatus(r))
}

// HealthReady answers 503 until the database is reachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	status := h.healthStatus(r)
	if !status.DatabaseConnected {
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Database unavailable")
		return
	}
	rw.Success(status)
}

func (h *Handler) healthStatus(r *http.Request) models.HealthStatus {
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}
	return models.HealthStatus{
		Status:            status,
		Version:           h.version,
		DatabaseConnected: dbConnected,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
}
