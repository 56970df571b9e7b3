// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package exchange

import "errors"

var (
	// ErrUpstream wraps failed Koreaexim requests.
	ErrUpstream = errors.New("upstream exchange-rate request failed")

	// ErrNoRates is returned when no published table exists within the lookback window.
	ErrNoRates = errors.New("no exchange rates published in lookback window")

	// ErrNoData is returned when a history or chart window has no points.
	ErrNoData = errors.New("no exchange-rate data for window")
)
