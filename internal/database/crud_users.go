// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomtom215/finpick/internal/models"
)

const userColumns = `id, username, nickname, email, password_hash, role, created_at`

// CreateUser inserts an account. Duplicate usernames or nicknames yield ErrConflict.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if u.Role == "" {
		u.Role = models.RoleUser
	}
	err := db.conn.QueryRowContext(ctx, `INSERT INTO users (username, nickname, email, password_hash, role)
		VALUES (?, ?, ?, ?, ?) RETURNING id, created_at`,
		u.Username, u.Nickname, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return mapWriteError(fmt.Errorf("failed to create user %s: %w", u.Username, err))
	}
	return nil
}

// GetUserByUsername looks up an account by login name.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

// GetUserByID looks up an account by id.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return db.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (db *DB) queryUser(ctx context.Context, query string, args ...any) (*models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var u models.User
	err := db.conn.QueryRowContext(ctx, query, args...).
		Scan(&u.ID, &u.Username, &u.Nickname, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// UpdateProfile changes nickname and email. Empty values leave the field as is.
func (db *DB) UpdateProfile(ctx context.Context, id int64, nickname, email string) (*models.User, error) {
	current, err := db.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if nickname != "" && nickname != current.Nickname {
		if _, err := db.conn.ExecContext(ctx, `UPDATE users SET nickname = ? WHERE id = ?`, nickname, id); err != nil {
			return nil, mapWriteError(fmt.Errorf("failed to update nickname: %w", err))
		}
		current.Nickname = nickname
	}
	if email != "" && email != current.Email {
		if _, err := db.conn.ExecContext(ctx, `UPDATE users SET email = ? WHERE id = ?`, email, id); err != nil {
			return nil, fmt.Errorf("failed to update email: %w", err)
		}
		current.Email = email
	}
	return current, nil
}

// DeleteUser removes an account and everything it owns in one transaction:
// subscriptions, wishlist rows, questionnaire data, articles with their
// comments, and the user's own comments.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		stmts := []string{
			`DELETE FROM subscriptions WHERE user_id = ?`,
			`DELETE FROM wishlist WHERE user_id = ?`,
			`DELETE FROM dynamic_answers WHERE user_id = ?`,
			`DELETE FROM dynamic_questions WHERE preference_id IN (SELECT id FROM user_preferences WHERE user_id = ?)`,
			`DELETE FROM user_preferences WHERE user_id = ?`,
			`DELETE FROM comments WHERE article_id IN (SELECT id FROM articles WHERE user_id = ?)`,
			`DELETE FROM comments WHERE user_id = ?`,
			`DELETE FROM articles WHERE user_id = ?`,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("failed to cascade user delete: %w", err)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete user %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
