// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/finpick/internal/auth"
	"github.com/tomtom215/finpick/internal/logging"
	"github.com/tomtom215/finpick/internal/models"
)

// Signup creates a user account and returns a token for it.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req models.SignupRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	resp, err := h.accounts.Signup(r.Context(), &req)
	if err != nil {
		rw.Fail(err)
		return
	}
	logging.AuditAuth(r.Context(), logging.AuthEventSignup, resp.User.Username, r.RemoteAddr, "")
	rw.Created(resp)
}

// Login exchanges credentials for a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req models.LoginRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	resp, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			logging.AuditAuth(r.Context(), logging.AuthEventLoginFailure, req.Username, r.RemoteAddr, "invalid credentials")
		}
		rw.Fail(err)
		return
	}
	logging.AuditAuth(r.Context(), logging.AuthEventLoginSuccess, resp.User.Username, r.RemoteAddr, "")
	rw.Success(resp)
}

// Logout revokes the presented token until it would have expired.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}
	if err := h.accounts.Logout(r.Context(), claims); err != nil {
		rw.Fail(err)
		return
	}
	logging.AuditAuth(r.Context(), logging.AuthEventLogout, claims.Username, r.RemoteAddr, "")
	rw.Message(http.StatusOK, "로그아웃되었습니다.")
}

// Profile returns the caller's account.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}
	user, err := h.accounts.Profile(r.Context(), claims.UserID)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(user)
}

// UpdateProfile changes nickname and/or email. Empty fields are kept.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}
	var req models.ProfileUpdateRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), claims.UserID, &req)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(user)
}
