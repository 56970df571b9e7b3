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

const subscriptionColumns = `id, user_id, product_kind, fin_prdt_cd, option_id, is_active, created_at`

// FindSubscription looks up the row for (user, kind, code, option).
func (db *DB) FindSubscription(ctx context.Context, userID int64, kind models.ProductKind, code string, optionID int64) (*models.Subscription, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var s models.Subscription
	var k string
	err := db.conn.QueryRowContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE user_id = ? AND product_kind = ? AND fin_prdt_cd = ? AND option_id = ?`,
		userID, string(kind), code, optionID,
	).Scan(&s.ID, &s.UserID, &k, &s.FinPrdtCd, &s.OptionID, &s.IsActive, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subscription: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	s.Kind = models.ProductKind(k)
	return &s, nil
}

// InsertSubscription creates an active subscription.
// A concurrent insert of the same key yields ErrConflict.
func (db *DB) InsertSubscription(ctx context.Context, s *models.Subscription) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	s.IsActive = true
	err := db.conn.QueryRowContext(ctx, `INSERT INTO subscriptions (user_id, product_kind, fin_prdt_cd, option_id, is_active)
		VALUES (?, ?, ?, ?, true) RETURNING id, created_at`,
		s.UserID, string(s.Kind), s.FinPrdtCd, s.OptionID,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return mapWriteError(fmt.Errorf("failed to insert subscription: %w", err))
	}
	return nil
}

// SetSubscriptionActive flips a subscription row.
func (db *DB) SetSubscriptionActive(ctx context.Context, id int64, active bool) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `UPDATE subscriptions SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return mapWriteError(fmt.Errorf("failed to update subscription %d: %w", id, err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("subscription %d: %w", id, ErrNotFound)
	}
	return nil
}

// ActiveSubscription returns the first active row for a product. When
// optionID is non-zero only that option matches.
func (db *DB) ActiveSubscription(ctx context.Context, userID int64, kind models.ProductKind, code string, optionID int64) (*models.Subscription, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
		WHERE user_id = ? AND product_kind = ? AND fin_prdt_cd = ? AND is_active`
	args := []any{userID, string(kind), code}
	if optionID != 0 {
		query += ` AND option_id = ?`
		args = append(args, optionID)
	}
	query += ` ORDER BY id LIMIT 1`

	var s models.Subscription
	var k string
	err := db.conn.QueryRowContext(ctx, query, args...).
		Scan(&s.ID, &s.UserID, &k, &s.FinPrdtCd, &s.OptionID, &s.IsActive, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("active subscription: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subscription: %w", err)
	}
	s.Kind = models.ProductKind(k)
	return &s, nil
}

// DeactivateSubscriptions turns off the user's active rows for a product and
// returns how many rows changed. A non-zero optionID limits it to one option.
func (db *DB) DeactivateSubscriptions(ctx context.Context, userID int64, kind models.ProductKind, code string, optionID int64) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `UPDATE subscriptions SET is_active = false
		WHERE user_id = ? AND product_kind = ? AND fin_prdt_cd = ? AND is_active`
	args := []any{userID, string(kind), code}
	if optionID != 0 {
		query += ` AND option_id = ?`
		args = append(args, optionID)
	}

	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapWriteError(fmt.Errorf("failed to deactivate subscriptions: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

// ListActiveSubscriptions returns the user's active subscriptions joined with
// the product and the selected option's rates. An empty kind lists both kinds.
func (db *DB) ListActiveSubscriptions(ctx context.Context, userID int64, kind models.ProductKind) ([]models.SubscriptionDetail, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT s.id, s.user_id, s.product_kind, s.fin_prdt_cd, s.option_id, s.is_active, s.created_at,
			p.fin_prdt_nm, p.kor_co_nm,
			COALESCE(o.intr_rate_type_nm, ''), COALESCE(o.intr_rate, 0), COALESCE(o.intr_rate2, 0), COALESCE(o.save_trm, 0)
		FROM subscriptions s
		JOIN products p ON p.product_kind = s.product_kind AND p.fin_prdt_cd = s.fin_prdt_cd
		LEFT JOIN product_options o ON o.id = s.option_id
		WHERE s.user_id = ? AND s.is_active`
	args := []any{userID}
	if kind != "" {
		query += ` AND s.product_kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY s.created_at DESC, s.id DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	out := make([]models.SubscriptionDetail, 0)
	for rows.Next() {
		var d models.SubscriptionDetail
		var k string
		if err := rows.Scan(&d.ID, &d.UserID, &k, &d.FinPrdtCd, &d.OptionID, &d.IsActive, &d.CreatedAt,
			&d.FinPrdtNm, &d.KorCoNm, &d.IntrRateTypeNm, &d.IntrRate, &d.IntrRate2, &d.SaveTrm); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		d.Kind = models.ProductKind(k)
		out = append(out, d)
	}
	return out, rows.Err()
}

// AddWishlist inserts a wishlist row. An existing row yields ErrConflict.
func (db *DB) AddWishlist(ctx context.Context, userID int64, kind models.ProductKind, code string) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var id int64
	err := db.conn.QueryRowContext(ctx, `INSERT INTO wishlist (user_id, product_kind, fin_prdt_cd)
		VALUES (?, ?, ?) RETURNING id`, userID, string(kind), code).Scan(&id)
	if err != nil {
		return 0, mapWriteError(fmt.Errorf("failed to add wishlist item: %w", err))
	}
	return id, nil
}

// WishlistExists reports whether the user already wishlisted the product.
func (db *DB) WishlistExists(ctx context.Context, userID int64, kind models.ProductKind, code string) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM wishlist WHERE user_id = ? AND product_kind = ? AND fin_prdt_cd = ?`,
		userID, string(kind), code).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check wishlist: %w", err)
	}
	return n > 0, nil
}

// RemoveWishlist deletes a wishlist row.
func (db *DB) RemoveWishlist(ctx context.Context, userID int64, kind models.ProductKind, code string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM wishlist WHERE user_id = ? AND product_kind = ? AND fin_prdt_cd = ?`, userID, string(kind), code)
	if err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("wishlist item %s/%s: %w", kind, code, ErrNotFound)
	}
	return nil
}

// ListWishlist returns the user's wishlist with max base and preferential rates.
func (db *DB) ListWishlist(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT w.id, w.user_id, w.product_kind, w.fin_prdt_cd,
			p.fin_prdt_nm, p.kor_co_nm,
			COALESCE(MAX(o.intr_rate), 0), COALESCE(MAX(o.intr_rate2), 0), w.created_at
		FROM wishlist w
		JOIN products p ON p.product_kind = w.product_kind AND p.fin_prdt_cd = w.fin_prdt_cd
		LEFT JOIN product_options o ON o.product_kind = w.product_kind AND o.fin_prdt_cd = w.fin_prdt_cd
		WHERE w.user_id = ?
		GROUP BY w.id, w.user_id, w.product_kind, w.fin_prdt_cd, p.fin_prdt_nm, p.kor_co_nm, w.created_at
		ORDER BY w.created_at DESC, w.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	defer rows.Close()

	items := make([]models.WishlistItem, 0)
	for rows.Next() {
		var w models.WishlistItem
		var k string
		if err := rows.Scan(&w.ID, &w.UserID, &k, &w.FinPrdtCd, &w.FinPrdtNm, &w.KorCoNm,
			&w.IntrRate, &w.IntrRate2, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		w.Kind = models.ProductKind(k)
		items = append(items, w)
	}
	return items, rows.Err()
}
