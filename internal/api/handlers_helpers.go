// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/finpick/internal/auth"
	"github.com/tomtom215/finpick/internal/models"
	"github.com/tomtom215/finpick/internal/validation"
)

// maxBodyBytes bounds request bodies; the largest DTO is an article.
const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is empty")

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the 400 response itself and reports whether the handler may go on.
func decodeAndValidate(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := decodeJSON(r, dst); err != nil {
		rw.BadRequest(msgInvalidBody)
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, verr.ToAPIError())
		return false
	}
	return true
}

func decodeJSON(r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getBoolParam accepts "true"/"1" style values; anything unparsable is false.
func getBoolParam(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

// parseCommaSeparated parses a comma-separated string into a slice
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// pathKind parses the {kind} URL parameter.
func pathKind(r *http.Request) (models.ProductKind, bool) {
	return models.ParseProductKind(chi.URLParam(r, "kind"))
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// currentClaims returns the caller's claims. Routes that call it sit behind
// auth.Middleware.Authenticate, so a missing value is a wiring bug and is
// answered with 401 rather than a panic.
func currentClaims(rw *ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		rw.Unauthorized()
		return nil, false
	}
	return claims, true
}
