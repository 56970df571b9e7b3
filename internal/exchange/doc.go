// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

/*
Package exchange serves KRW exchange rates published daily by the Export-Import
Bank of Korea (Koreaexim, data set AP01).

Koreaexim publishes once per business day, so "latest" means the most recent
weekday within the configured lookback that has a non-empty table. Daily tables
are cached in-process; per-currency history is persisted to the exchange_rates
table the first time a window is requested and read from DuckDB afterwards.

Cross rates between two foreign currencies are derived from their KRW base rates
with per-currency scale factors:

	BHD, KWD, JOD, OMR  0.1
	KRW, VND, IDR       1000
	JPY                 100
	others              1

All rates are carried as shopspring/decimal values; only RateChart exposes
float64 for plotting.
*/
package exchange
