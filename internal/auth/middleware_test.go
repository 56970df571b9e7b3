// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/finpick/internal/models"
)

func TestAuthenticate(t *testing.T) {
	m := newTestJWTManager(t)
	revoked := newTestRevocationStore(t)
	mw := NewMiddleware(m, revoked)

	token, _, _ := m.GenerateToken(&models.User{ID: 7, Username: "alice", Role: models.RoleUser})
	revokedToken, revokedClaims, _ := m.GenerateToken(&models.User{ID: 7, Username: "alice", Role: models.RoleUser})
	if err := revoked.Revoke(context.Background(), revokedClaims.ID, time.Hour); err != nil {
		t.Fatal(err)
	}

	var gotUser int64
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Error("claims missing from context")
			return
		}
		gotUser = claims.UserID
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + token, http.StatusNoContent},
		{"lowercase scheme", "bearer " + token, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"tampered", "Bearer " + token + "x", http.StatusUnauthorized},
		{"revoked", "Bearer " + revokedToken, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = 0
			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/profile", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusNoContent && gotUser != 7 {
				t.Errorf("user id = %d, want 7", gotUser)
			}
			if tt.want == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), `"UNAUTHORIZED"`) {
				t.Errorf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestOptional(t *testing.T) {
	m := newTestJWTManager(t)
	mw := NewMiddleware(m, newTestRevocationStore(t))
	token, _, _ := m.GenerateToken(&models.User{ID: 3, Role: models.RoleUser})

	var authed bool
	handler := mw.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, authed = ClaimsFromContext(r.Context())
	}))

	for _, tc := range []struct {
		header string
		want   bool
	}{
		{"", false},
		{"Bearer garbage", false},
		{"Bearer " + token, true},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || authed != tc.want {
			t.Errorf("header %q: status %d authed %v, want 200 %v", tc.header, rec.Code, authed, tc.want)
		}
	}
}
