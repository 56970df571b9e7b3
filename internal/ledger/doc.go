// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

// Package ledger manages user subscriptions and wishlists.
//
// Subscriptions are keyed by (user, product kind, product code, option) and
// are toggled, never deleted: subscribing to an existing row flips its active
// flag. Wishlist entries have no state; adding one twice is a conflict.
//
// Rows are removed only when their user or product is deleted, which the
// database package does explicitly in the same transaction.
package ledger
