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
	"strings"

	"github.com/tomtom215/finpick/internal/models"
)

// CatalogItem is one vendor product with its bank and matching options,
// written atomically by InsertCatalogItem.
type CatalogItem struct {
	Bank    models.Bank
	Product models.Product
	Options []models.ProductOption
}

const productColumns = `id, product_kind, fin_prdt_cd, fin_co_no, kor_co_nm, fin_prdt_nm, join_deny,
	COALESCE(join_member, ''), COALESCE(join_way, ''), COALESCE(spcl_cnd, ''), COALESCE(etc_note, ''), created_at`

const optionColumns = `id, product_kind, fin_prdt_cd, intr_rate_type_nm, intr_rate, intr_rate2, save_trm`

// EnsureBank inserts the bank if it is not known yet. Existing rows are left untouched.
func (db *DB) EnsureBank(ctx context.Context, bank models.Bank) (created bool, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, insertBankSQL, bank.FinCoNo, bank.KorCoNm, bank.HompURL, bank.CalTel)
	if err != nil {
		return false, mapWriteError(fmt.Errorf("failed to insert bank %s: %w", bank.FinCoNo, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, nil //nolint:nilerr // row count is informational only
	}
	return n > 0, nil
}

const insertBankSQL = `INSERT INTO banks (fin_co_no, kor_co_nm, homp_url, cal_tel)
	VALUES (?, ?, ?, ?) ON CONFLICT (fin_co_no) DO NOTHING`

// ListBanks returns every bank ordered by name.
func (db *DB) ListBanks(ctx context.Context) ([]models.Bank, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT fin_co_no, kor_co_nm, COALESCE(homp_url, ''), COALESCE(cal_tel, '') FROM banks ORDER BY kor_co_nm`)
	if err != nil {
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}
	defer rows.Close()

	banks := make([]models.Bank, 0)
	for rows.Next() {
		var b models.Bank
		if err := rows.Scan(&b.FinCoNo, &b.KorCoNm, &b.HompURL, &b.CalTel); err != nil {
			return nil, fmt.Errorf("failed to scan bank: %w", err)
		}
		banks = append(banks, b)
	}
	return banks, rows.Err()
}

// ProductExists reports whether (kind, code) is already in the catalog.
func (db *DB) ProductExists(ctx context.Context, kind models.ProductKind, code string) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE product_kind = ? AND fin_prdt_cd = ?`, string(kind), code).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check product %s/%s: %w", kind, code, err)
	}
	return n > 0, nil
}

// InsertCatalogItem writes bank, product and options in one transaction.
// It returns ErrConflict when the product already exists.
func (db *DB) InsertCatalogItem(ctx context.Context, item *CatalogItem) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	p := item.Product
	return db.withTx(ctx, func(tx *sql.Tx) error {
		b := item.Bank
		if _, err := tx.ExecContext(ctx, insertBankSQL, b.FinCoNo, b.KorCoNm, b.HompURL, b.CalTel); err != nil {
			return mapWriteError(fmt.Errorf("failed to insert bank %s: %w", b.FinCoNo, err))
		}

		_, err := tx.ExecContext(ctx, `INSERT INTO products (
				product_kind, fin_prdt_cd, fin_co_no, kor_co_nm, fin_prdt_nm,
				join_deny, join_member, join_way, spcl_cnd, etc_note
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(p.Kind), p.FinPrdtCd, p.FinCoNo, p.KorCoNm, p.FinPrdtNm,
			p.JoinDeny, p.JoinMember, p.JoinWay, p.SpclCnd, p.EtcNote)
		if err != nil {
			return mapWriteError(fmt.Errorf("failed to insert product %s/%s: %w", p.Kind, p.FinPrdtCd, err))
		}

		for _, o := range item.Options {
			_, err := tx.ExecContext(ctx, `INSERT INTO product_options (
					product_kind, fin_prdt_cd, intr_rate_type_nm, intr_rate, intr_rate2, save_trm
				) VALUES (?, ?, ?, ?, ?, ?)`,
				string(p.Kind), p.FinPrdtCd, o.IntrRateTypeNm, o.IntrRate, o.IntrRate2, o.SaveTrm)
			if err != nil {
				return fmt.Errorf("failed to insert option for %s/%s: %w", p.Kind, p.FinPrdtCd, err)
			}
		}
		return nil
	})
}

// productWhere builds the listing predicate. firstTier and savingBanks are
// whitespace-free bank names; names are compared with spaces removed.
func productWhere(f *models.ProductFilter, firstTier, savingBanks []string) (string, []any) {
	where := "product_kind = ?"
	args := []any{string(f.Kind)}

	var names []string
	switch {
	case f.FirstTierOnly:
		names = firstTier
	case f.SavingBankOnly:
		names = savingBanks
	case len(f.Banks) > 0:
		names = f.Banks
	}
	if names == nil && !f.FirstTierOnly && !f.SavingBankOnly {
		return where, args
	}
	if len(names) == 0 {
		return where + " AND false", args
	}

	where += " AND REPLACE(kor_co_nm, ' ', '') IN (" + placeholders(len(names)) + ")"
	for _, n := range names {
		args = append(args, NormalizeBankName(n))
	}
	return where, args
}

// NormalizeBankName strips all whitespace from a bank name.
func NormalizeBankName(name string) string {
	return strings.Join(strings.Fields(name), "")
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// ListProducts returns a page of products with their options, newest id first.
func (db *DB) ListProducts(ctx context.Context, f models.ProductFilter, firstTier, savingBanks []string) (*models.ProductPage, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 8
	}

	where, args := productWhere(&f, firstTier, savingBanks)

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	page := &models.ProductPage{
		Results:     make([]models.ProductWithOptions, 0),
		TotalPages:  (total + f.PageSize - 1) / f.PageSize,
		CurrentPage: f.Page,
		TotalCount:  total,
	}
	if total == 0 || f.Page > page.TotalPages {
		return page, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE ` + where + ` ORDER BY id DESC LIMIT ? OFFSET ?`
	pageArgs := append(append([]any{}, args...), f.PageSize, (f.Page-1)*f.PageSize)
	products, err := db.queryProducts(ctx, query, pageArgs...)
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(products))
	for i := range products {
		codes[i] = products[i].FinPrdtCd
	}
	byCode, err := db.optionsByCode(ctx, f.Kind, codes)
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		opts := byCode[p.FinPrdtCd]
		if opts == nil {
			opts = make([]models.ProductOption, 0)
		}
		page.Results = append(page.Results, models.ProductWithOptions{Product: p, Options: opts})
	}
	return page, nil
}

// GetProduct returns a single product row.
func (db *DB) GetProduct(ctx context.Context, kind models.ProductKind, code string) (*models.Product, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	products, err := db.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE product_kind = ? AND fin_prdt_cd = ?`, string(kind), code)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("product %s/%s: %w", kind, code, ErrNotFound)
	}
	return &products[0], nil
}

// GetProductWithOptions returns a product and its options.
// A product without options is reported as not found.
func (db *DB) GetProductWithOptions(ctx context.Context, kind models.ProductKind, code string) (*models.ProductWithOptions, error) {
	product, err := db.GetProduct(ctx, kind, code)
	if err != nil {
		return nil, err
	}

	byCode, err := db.optionsByCode(ctx, kind, []string{code})
	if err != nil {
		return nil, err
	}
	opts := byCode[code]
	if len(opts) == 0 {
		return nil, fmt.Errorf("options for %s/%s: %w", kind, code, ErrNotFound)
	}
	return &models.ProductWithOptions{Product: *product, Options: opts}, nil
}

// TopRateProduct returns the product owning the option with the highest
// preferential rate. Ties go to the earliest option.
func (db *DB) TopRateProduct(ctx context.Context, kind models.ProductKind) (*models.ProductWithOptions, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var code string
	err := db.conn.QueryRowContext(ctx,
		`SELECT fin_prdt_cd FROM product_options WHERE product_kind = ? ORDER BY intr_rate2 DESC, id ASC LIMIT 1`,
		string(kind)).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("top rate %s: %w", kind, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find top rate option: %w", err)
	}
	return db.GetProductWithOptions(ctx, kind, code)
}

// CatalogProducts returns every product of kind that has at least one option.
// An empty kind returns both kinds, deposits first.
func (db *DB) CatalogProducts(ctx context.Context, kind models.ProductKind) ([]models.ProductWithOptions, error) {
	kinds := models.ProductKinds
	if kind != "" {
		kinds = []models.ProductKind{kind}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	out := make([]models.ProductWithOptions, 0)
	for _, k := range kinds {
		products, err := db.queryProducts(ctx,
			`SELECT `+productColumns+` FROM products WHERE product_kind = ? ORDER BY id`, string(k))
		if err != nil {
			return nil, err
		}
		byCode, err := db.optionsByCode(ctx, k, nil)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			if opts := byCode[p.FinPrdtCd]; len(opts) > 0 {
				out = append(out, models.ProductWithOptions{Product: p, Options: opts})
			}
		}
	}
	return out, nil
}

// GetOption returns a single option by id.
func (db *DB) GetOption(ctx context.Context, id int64) (*models.ProductOption, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var o models.ProductOption
	var kind string
	err := db.conn.QueryRowContext(ctx, `SELECT `+optionColumns+` FROM product_options WHERE id = ?`, id).
		Scan(&o.ID, &kind, &o.FinPrdtCd, &o.IntrRateTypeNm, &o.IntrRate, &o.IntrRate2, &o.SaveTrm)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("option %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get option %d: %w", id, err)
	}
	o.Kind = models.ProductKind(kind)
	return &o, nil
}

// DeleteProduct removes a product, its options, and every subscription and
// wishlist row that references it, in one transaction.
func (db *DB) DeleteProduct(ctx context.Context, kind models.ProductKind, code string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"subscriptions", "wishlist", "product_options"} {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM `+table+` WHERE product_kind = ? AND fin_prdt_cd = ?`, string(kind), code); err != nil {
				return fmt.Errorf("failed to delete %s rows for %s/%s: %w", table, kind, code, err)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE product_kind = ? AND fin_prdt_cd = ?`, string(kind), code)
		if err != nil {
			return fmt.Errorf("failed to delete product %s/%s: %w", kind, code, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("product %s/%s: %w", kind, code, ErrNotFound)
		}
		return nil
	})
}

func (db *DB) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		var kind string
		if err := rows.Scan(&p.ID, &kind, &p.FinPrdtCd, &p.FinCoNo, &p.KorCoNm, &p.FinPrdtNm, &p.JoinDeny,
			&p.JoinMember, &p.JoinWay, &p.SpclCnd, &p.EtcNote, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Kind = models.ProductKind(kind)
		products = append(products, p)
	}
	return products, rows.Err()
}

// optionsByCode loads options of kind grouped by product code, in id order.
// A nil codes slice loads every option of the kind.
func (db *DB) optionsByCode(ctx context.Context, kind models.ProductKind, codes []string) (map[string][]models.ProductOption, error) {
	query := `SELECT ` + optionColumns + ` FROM product_options WHERE product_kind = ?`
	args := []any{string(kind)}
	if codes != nil {
		if len(codes) == 0 {
			return map[string][]models.ProductOption{}, nil
		}
		query += ` AND fin_prdt_cd IN (` + placeholders(len(codes)) + `)`
		for _, c := range codes {
			args = append(args, c)
		}
	}
	query += ` ORDER BY id`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.ProductOption)
	for rows.Next() {
		var o models.ProductOption
		var k string
		if err := rows.Scan(&o.ID, &k, &o.FinPrdtCd, &o.IntrRateTypeNm, &o.IntrRate, &o.IntrRate2, &o.SaveTrm); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		o.Kind = models.ProductKind(k)
		out[o.FinPrdtCd] = append(out[o.FinPrdtCd], o)
	}
	return out, rows.Err()
}
