// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/logging"
	"github.com/tomtom215/finpick/internal/metrics"
	"github.com/tomtom215/finpick/internal/models"
)

// ErrInvalidCredentials is returned for an unknown username or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the subset of the database used for accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, nickname, email string) (*models.User, error)
}

// Revoker records revoked token ids.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// Service implements account signup, login, logout and profile management.
type Service struct {
	store      UserStore
	jwt        *JWTManager
	revoker    Revoker
	bcryptCost int
	dummyHash  string
}

// NewService creates an account service.
func NewService(store UserStore, jwtManager *JWTManager, revoker Revoker, bcryptCost int) *Service {
	if bcryptCost <= 0 {
		bcryptCost = DefaultBcryptCost
	}
	s := &Service{store: store, jwt: jwtManager, revoker: revoker, bcryptCost: bcryptCost}
	// Compared against on unknown usernames so both failure paths cost the same.
	s.dummyHash, _ = HashPassword("finpick-dummy-password", bcryptCost) //nolint:errcheck // bcrypt only fails on oversized input
	return s
}

func (s *Service) issue(user *models.User) (*models.AuthResponse, error) {
	token, claims, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: *user}, nil
}

// Signup creates a user account and logs it in. Duplicate usernames or
// nicknames return database.ErrConflict.
func (s *Service) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	hash, err := HashPassword(req.Password1, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     req.Username,
		Nickname:     req.Nickname,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		metrics.RecordAuthAttempt("signup", false)
		return nil, err
	}
	metrics.RecordAuthAttempt("signup", true)
	return s.issue(user)
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		CheckPassword(s.dummyHash, password)
		metrics.RecordAuthAttempt("login", false)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		metrics.RecordAuthAttempt("login", false)
		return nil, ErrInvalidCredentials
	}
	metrics.RecordAuthAttempt("login", true)
	return s.issue(user)
}

// Logout revokes the token described by claims for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if err := s.revoker.Revoke(ctx, claims.ID, s.jwt.Remaining(claims)); err != nil {
		return err
	}
	metrics.RecordAuthAttempt("logout", true)
	return nil
}

// Profile returns the account of userID.
func (s *Service) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// UpdateProfile changes nickname and/or email. A taken nickname returns database.ErrConflict.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req *models.ProfileUpdateRequest) (*models.User, error) {
	return s.store.UpdateProfile(ctx, userID, req.Nickname, req.Email)
}

// SeedAdmin creates the admin account when it does not exist yet. An empty
// username or password disables seeding.
func (s *Service) SeedAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	existing, err := s.store.GetUserByUsername(ctx, username)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			logging.Ctx(ctx).Warn().Str("username", username).Msg("Admin seed username belongs to a non-admin account")
		}
		return nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return err
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &models.User{
		Username:     username,
		Nickname:     username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := s.store.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logging.Ctx(ctx).Info().Str("username", username).Msg("Seeded admin account")
	return nil
}
