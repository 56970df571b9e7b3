// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/finpick/internal/logging"
	"github.com/tomtom215/finpick/internal/models"
	"github.com/tomtom215/finpick/internal/validation"
)

// Error codes for API responses
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"
	ErrCodeValidationFailed   = validation.CodeValidationError
	ErrCodeUpstream           = "UPSTREAM_ERROR"
	ErrCodeSyncInProgress     = "SYNC_IN_PROGRESS"
	ErrCodeNoPreference       = "NO_PREFERENCE"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// ResponseWriter writes models.APIResponse envelopes for one request.
// Create it at the top of a handler so query_time_ms covers the handler.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter creates a new response writer.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{
		w:         w,
		r:         r,
		startTime: time.Now(),
	}
}

func (rw *ResponseWriter) metadata() models.Metadata {
	return models.Metadata{
		Timestamp:   time.Now(),
		QueryTimeMS: time.Since(rw.startTime).Milliseconds(),
	}
}

// Success writes a 200 response with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.write(http.StatusOK, data)
}

// Created writes a 201 Created response.
func (rw *ResponseWriter) Created(data interface{}) {
	rw.write(http.StatusCreated, data)
}

// Message writes a plain acknowledgement with the given status.
func (rw *ResponseWriter) Message(status int, message string) {
	rw.write(status, models.MessageResponse{Message: message})
}

func (rw *ResponseWriter) write(status int, data interface{}) {
	respondJSON(rw.w, status, &models.APIResponse{
		Status:   statusSuccess,
		Data:     data,
		Metadata: rw.metadata(),
	})
}

// NoContent writes a 204 No Content response.
func (rw *ResponseWriter) NoContent() {
	rw.w.WriteHeader(http.StatusNoContent)
}

// Error writes an error response with the given status code.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, &models.APIError{Code: code, Message: message})
}

// ErrorWithDetails writes a prepared API error.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, apiErr *models.APIError) {
	respondJSON(rw.w, statusCode, &models.APIResponse{
		Status:   statusError,
		Metadata: rw.metadata(),
		Error:    apiErr,
	})
}

// Fail maps a service error onto the HTTP error taxonomy and writes it.
// Server-side failures are logged with the request's correlation fields;
// their text never reaches the client.
func (rw *ResponseWriter) Fail(err error) {
	mapped := classifyError(err)
	if mapped.status >= http.StatusInternalServerError {
		logging.Ctx(rw.r.Context()).Error().Err(err).
			Str("method", rw.r.Method).
			Str("path", rw.r.URL.Path).
			Int("status", mapped.status).
			Msg("Request failed")
	} else {
		logging.Ctx(rw.r.Context()).Debug().Err(err).Int("status", mapped.status).Msg("Request rejected")
	}
	rw.ErrorWithDetails(mapped.status, mapped.apiError)
}

// BadRequest writes a 400 Bad Request error.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// Forbidden writes a 403 Forbidden error.
func (rw *ResponseWriter) Forbidden(message string) {
	rw.Error(http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound writes a 404 Not Found error.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// Unauthorized writes a 401 Unauthorized error.
func (rw *ResponseWriter) Unauthorized() {
	rw.Error(http.StatusUnauthorized, ErrCodeUnauthorized, msgUnauthorized)
}

// respondJSON encodes response with goccy/go-json.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes an error envelope outside a handler (rate limiter,
// not-found and method-not-allowed handlers).
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, &models.APIResponse{
		Status:   statusError,
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    &models.APIError{Code: code, Message: message},
	})
}
