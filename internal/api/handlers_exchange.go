// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"net/http"

	"github.com/tomtom215/finpick/internal/exchange"
)

// maxHistoryDays caps the history window; uncached windows cost one
// upstream call per weekday.
const maxHistoryDays = 90

// rateQuery reads from/to/days with USD/KRW/7 defaults.
func rateQuery(r *http.Request) (from, to string, days int) {
	q := r.URL.Query()
	from, to = q.Get("from"), q.Get("to")
	if from == "" {
		from = "USD"
	}
	if to == "" {
		to = exchange.KRW
	}
	days = getIntParam(r, "days", exchange.DefaultHistoryDays)
	if days <= 0 {
		days = exchange.DefaultHistoryDays
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}
	return from, to, days
}

// ExchangeRates returns the most recent published rate table.
func (h *Handler) ExchangeRates(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rates, err := h.exchange.Latest(r.Context())
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(rates)
}

// ExchangeHistory returns the from/to series, oldest first.
func (h *Handler) ExchangeHistory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	from, to, days := rateQuery(r)
	points, err := h.exchange.Cross(r.Context(), from, to, days)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(points)
}

// ExchangeChart returns the series with mean, std, min and max.
func (h *Handler) ExchangeChart(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	from, to, days := rateQuery(r)
	chart, err := h.exchange.Chart(r.Context(), from, to, days)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(chart)
}
