// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/finpick/internal/models"
)

const rateDateLayout = "2006-01-02"

// SaveRate stores the base rate of a currency for a day. An existing row for
// the same (currency, day) is kept.
func (db *DB) SaveRate(ctx context.Context, currency string, day time.Time, rate decimal.Decimal) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `INSERT INTO exchange_rates (currency_code, rate_date, rate)
		VALUES (?, ?::DATE, ?::DECIMAL(20,4)) ON CONFLICT (currency_code, rate_date) DO NOTHING`,
		currency, day.Format(rateDateLayout), rate.StringFixed(4))
	if err != nil {
		return fmt.Errorf("failed to save %s rate for %s: %w", currency, day.Format(rateDateLayout), err)
	}
	return nil
}

// ListRates returns stored rates of a currency between from and to inclusive, oldest first.
func (db *DB) ListRates(ctx context.Context, currency string, from, to time.Time) ([]models.RatePoint, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT CAST(rate_date AS VARCHAR), CAST(rate AS VARCHAR)
		FROM exchange_rates
		WHERE currency_code = ? AND rate_date BETWEEN ?::DATE AND ?::DATE
		ORDER BY rate_date`,
		currency, from.Format(rateDateLayout), to.Format(rateDateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s rates: %w", currency, err)
	}
	defer rows.Close()

	points := make([]models.RatePoint, 0)
	for rows.Next() {
		var p models.RatePoint
		if err := rows.Scan(&p.Day, &p.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		d, err := time.Parse(rateDateLayout, p.Day)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate date %q: %w", p.Day, err)
		}
		p.Date = d
		p.CurrencyCode = currency
		points = append(points, p)
	}
	return points, rows.Err()
}
