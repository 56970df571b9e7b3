// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package sync

import "errors"

var (
	// ErrUpstream wraps every failed finlife page request: transport errors,
	// non-200 statuses, undecodable bodies and vendor err_cd values other than "000".
	ErrUpstream = errors.New("upstream finlife request failed")

	// ErrSyncInProgress is returned when a sync for the same kind is already running.
	ErrSyncInProgress = errors.New("sync already in progress")
)
