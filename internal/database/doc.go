// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

/*
Package database provides DuckDB-backed storage for Finpick.

The schema is created at startup (database_schema.go) and extended through
append-only versioned migrations (migrations.go). Ids come from sequences.

Tables:
  - banks, products, product_options: finlife catalog keyed by (product_kind, fin_prdt_cd)
  - users: accounts
  - user_preferences, dynamic_questions, dynamic_answers: questionnaire state
  - subscriptions, wishlist: per-user product ledger
  - articles, comments: community posts
  - exchange_rates: daily Koreaexim base rates keyed by (currency_code, rate_date)

DuckDB has no ON DELETE CASCADE, so DeleteUser, DeleteProduct and
DeleteArticle remove dependent rows explicitly in one transaction.

Errors:
  - ErrNotFound: the requested row does not exist
  - ErrConflict: unique-key violation or write-write conflict

DECIMAL columns are read as VARCHAR and scanned into shopspring/decimal so
no precision is lost through float64.
*/
package database
