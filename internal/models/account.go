// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package models

import "time"

// Roles understood by the authorizer.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account. PasswordHash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Nickname     string    `json:"nickname"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// SignupRequest is the body of POST /api/v1/accounts/signup.
type SignupRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150,alphanum"`
	Password1 string `json:"password1" validate:"required,min=8,max=128"`
	Password2 string `json:"password2" validate:"required,eqfield=Password1"`
	Nickname  string `json:"nickname" validate:"required,min=1,max=50"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
}

// LoginRequest is the body of POST /api/v1/accounts/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=128"`
}

// ProfileUpdateRequest is the body of PUT /api/v1/accounts/profile.
type ProfileUpdateRequest struct {
	Nickname string `json:"nickname" validate:"omitempty,min=1,max=50"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}
