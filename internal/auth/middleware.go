// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/finpick/internal/logging"
	"github.com/tomtom215/finpick/internal/models"
)

type contextKey string

// ClaimsContextKey is the request context key holding *Claims.
const ClaimsContextKey contextKey = "claims"

var errMissingToken = errors.New("missing bearer token")

// Middleware authenticates requests with Bearer tokens.
type Middleware struct {
	jwtManager *JWTManager
	revoked    RevocationChecker
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(jwtManager *JWTManager, revoked RevocationChecker) *Middleware {
	return &Middleware{jwtManager: jwtManager, revoked: revoked}
}

// ContextWithClaims stores claims in ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// Authenticate rejects requests without a valid, unrevoked token with 401.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.claims(r)
		if err != nil {
			if !errors.Is(err, errMissingToken) {
				logging.AuditAuth(r.Context(), logging.AuthEventTokenRejected, "", r.RemoteAddr, err.Error())
			}
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// Optional attaches claims when a valid token is present and otherwise
// passes the request through anonymously.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, err := m.claims(r); err == nil {
			r = r.WithContext(ContextWithClaims(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) claims(r *http.Request) (*Claims, error) {
	token := extractBearer(r.Header.Get("Authorization"))
	if token == "" {
		return nil, errMissingToken
	}

	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := m.revoked.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Revocation check failed")
		return nil, err
	}
	if revoked {
		return nil, errors.New("token revoked")
	}
	return claims, nil
}

func extractBearer(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="finpick"`)
	w.WriteHeader(http.StatusUnauthorized)
	//nolint:errcheck // best-effort error body
	json.NewEncoder(w).Encode(&models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    &models.APIError{Code: "UNAUTHORIZED", Message: "인증이 필요합니다."},
	})
}
