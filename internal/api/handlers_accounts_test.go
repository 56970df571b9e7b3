// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/finpick/internal/models"
)

func TestSignupAndLogin(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	token, userID := env.signup("alice")
	if token == "" || userID == 0 {
		t.Fatalf("signup returned token %q id %d", token, userID)
	}

	rec := env.do(http.MethodPost, "/api/v1/accounts/login", "", models.LoginRequest{Username: "alice", Password: testPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp models.AuthResponse
	decodeData(t, rec, &resp)
	if resp.User.Username != "alice" || resp.User.Role != models.RoleUser {
		t.Errorf("user = %+v", resp.User)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
}

func TestSignup_Duplicate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.signup("alice")

	rec := env.do(http.MethodPost, "/api/v1/accounts/signup", "", models.SignupRequest{
		Username: "alice", Password1: testPassword, Password2: testPassword, Nickname: "other",
	})
	expectError(t, rec, http.StatusConflict, ErrCodeConflict)
}

func TestSignup_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/accounts/signup", "", models.SignupRequest{
		Username: "bob", Password1: testPassword, Password2: "different123", Nickname: "bob",
	})
	apiErr := expectError(t, rec, http.StatusBadRequest, ErrCodeValidationFailed)
	if _, ok := apiErr.Details["password2"]; !ok {
		t.Errorf("details = %v, want password2", apiErr.Details)
	}
}

func TestSignup_MalformedBody(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	for _, body := range []string{"{", `{"username":"x","unknown":1}`} {
		rec := env.do(http.MethodPost, "/api/v1/accounts/signup", "", body)
		apiErr := expectError(t, rec, http.StatusBadRequest, ErrCodeBadRequest)
		if apiErr.Message != msgInvalidBody {
			t.Errorf("message = %q", apiErr.Message)
		}
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.signup("alice")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "wrong-password"},
		{"unknown user", "nobody", testPassword},
	}
	for _, tt := range tests {
		rec := env.do(http.MethodPost, "/api/v1/accounts/login", "", models.LoginRequest{Username: tt.username, Password: tt.password})
		apiErr := expectError(t, rec, http.StatusBadRequest, ErrCodeBadRequest)
		if apiErr.Message != msgInvalidCredentials {
			t.Errorf("%s: message = %q, want %q", tt.name, apiErr.Message, msgInvalidCredentials)
		}
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token, userID := env.signup("carol")

	rec := env.do(http.MethodGet, "/api/v1/accounts/profile", token, nil)
	var user models.User
	decodeData(t, rec, &user)
	if user.ID != userID || user.Nickname != "carolnick" {
		t.Errorf("profile = %+v", user)
	}

	rec = env.do(http.MethodPut, "/api/v1/accounts/profile", token, models.ProfileUpdateRequest{Nickname: "캐롤", Email: "carol@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	decodeData(t, rec, &user)
	if user.Nickname != "캐롤" || user.Email != "carol@example.com" {
		t.Errorf("updated profile = %+v", user)
	}
}

func TestProfile_NicknameTaken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.signup("dave")
	token, _ := env.signup("erin")

	rec := env.do(http.MethodPut, "/api/v1/accounts/profile", token, models.ProfileUpdateRequest{Nickname: "davenick"})
	expectError(t, rec, http.StatusConflict, ErrCodeConflict)
}

func TestProfile_RequiresToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/accounts/profile", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	rec = env.do(http.MethodGet, "/api/v1/accounts/profile", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d, want 401", rec.Code)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token, _ := env.signup("frank")

	rec := env.do(http.MethodPost, "/api/v1/accounts/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodGet, "/api/v1/accounts/profile", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("revoked token status = %d, want 401", rec.Code)
	}
}
