// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext bounds schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// tableCreationQueries returns the schema. DuckDB does not support
// ON DELETE CASCADE, so relations are plain columns and cascades are
// explicit deletes inside a transaction.
func tableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_products START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_product_options START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_users START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_user_preferences START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_dynamic_questions START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_dynamic_answers START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_subscriptions START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_wishlist START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_articles START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_comments START 1;`,

		`CREATE TABLE IF NOT EXISTS banks (
			fin_co_no TEXT PRIMARY KEY,
			kor_co_nm TEXT NOT NULL,
			homp_url TEXT,
			cal_tel TEXT
		);`,

		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_products'),
			product_kind TEXT NOT NULL,
			fin_prdt_cd TEXT NOT NULL,
			fin_co_no TEXT NOT NULL,
			kor_co_nm TEXT NOT NULL,
			fin_prdt_nm TEXT NOT NULL,
			join_deny INTEGER NOT NULL DEFAULT 1,
			join_member TEXT,
			join_way TEXT,
			spcl_cnd TEXT,
			etc_note TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			UNIQUE (product_kind, fin_prdt_cd)
		);`,

		`CREATE TABLE IF NOT EXISTS product_options (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_product_options'),
			product_kind TEXT NOT NULL,
			fin_prdt_cd TEXT NOT NULL,
			intr_rate_type_nm TEXT NOT NULL DEFAULT '',
			intr_rate DOUBLE NOT NULL DEFAULT 0,
			intr_rate2 DOUBLE NOT NULL DEFAULT 0,
			save_trm INTEGER NOT NULL DEFAULT 0
		);`,

		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_users'),
			username TEXT NOT NULL UNIQUE,
			nickname TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		);`,

		`CREATE TABLE IF NOT EXISTS user_preferences (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_user_preferences'),
			user_id BIGINT NOT NULL,
			investment_purpose TEXT NOT NULL,
			investment_period INTEGER NOT NULL,
			investment_amount DECIMAL(15,2) NOT NULL,
			risk_tolerance DOUBLE NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		);`,

		`CREATE TABLE IF NOT EXISTS dynamic_questions (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_dynamic_questions'),
			preference_id BIGINT NOT NULL,
			question_text TEXT NOT NULL,
			question_type TEXT NOT NULL,
			options TEXT NOT NULL,
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		);`,

		`CREATE TABLE IF NOT EXISTS dynamic_answers (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_dynamic_answers'),
			user_id BIGINT NOT NULL,
			question_id BIGINT NOT NULL,
			preference_id BIGINT NOT NULL,
			selected_option TEXT NOT NULL,
			additional_info TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			UNIQUE (user_id, question_id)
		);`,

		`CREATE TABLE IF NOT EXISTS subscriptions (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_subscriptions'),
			user_id BIGINT NOT NULL,
			product_kind TEXT NOT NULL,
			fin_prdt_cd TEXT NOT NULL,
			option_id BIGINT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			UNIQUE (user_id, product_kind, fin_prdt_cd, option_id)
		);`,

		`CREATE TABLE IF NOT EXISTS wishlist (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_wishlist'),
			user_id BIGINT NOT NULL,
			product_kind TEXT NOT NULL,
			fin_prdt_cd TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			UNIQUE (user_id, product_kind, fin_prdt_cd)
		);`,

		`CREATE TABLE IF NOT EXISTS articles (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_articles'),
			user_id BIGINT NOT NULL,
			title VARCHAR(200) NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		);`,

		`CREATE TABLE IF NOT EXISTS comments (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_comments'),
			article_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		);`,

		`CREATE TABLE IF NOT EXISTS exchange_rates (
			currency_code TEXT NOT NULL,
			rate_date DATE NOT NULL,
			rate DECIMAL(20,4) NOT NULL,
			PRIMARY KEY (currency_code, rate_date)
		);`,
	}
}

// createIndexes creates secondary indexes for the common lookups.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_products_kind_bank ON products(product_kind, kor_co_nm);`,
		`CREATE INDEX IF NOT EXISTS idx_options_product ON product_options(product_kind, fin_prdt_cd);`,
		`CREATE INDEX IF NOT EXISTS idx_preferences_user ON user_preferences(user_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_questions_preference ON dynamic_questions(preference_id);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_article ON comments(article_id);`,
	}
	for _, q := range indexes {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", q, err)
		}
	}
	return nil
}
