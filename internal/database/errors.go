// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package database

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sentinel errors returned by the data access methods.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned on unique-key violations and write-write conflicts.
	ErrConflict = errors.New("record conflict")
)

// closeQuietly closes a resource and explicitly ignores any error.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// isUniqueConstraintError checks if an error is a unique constraint violation.
// DuckDB reports these as "Duplicate key ... violates unique constraint".
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "primary key constraint") ||
		strings.Contains(errMsg, "duplicate key")
}

// isTransactionConflict checks if an error is a DuckDB optimistic concurrency conflict.
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Transaction conflict") ||
		strings.Contains(errStr, "Conflict on update") ||
		strings.Contains(errStr, "write-write conflict")
}

// mapWriteError converts driver errors into package sentinels.
func mapWriteError(err error) error {
	if isUniqueConstraintError(err) || isTransactionConflict(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
