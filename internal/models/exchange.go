// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is one currency row of the Koreaexim daily table (AP01).
// Rates are quoted in KRW per CurUnit; JPY(100) and IDR(100) are per 100 units.
type ExchangeRate struct {
	CurUnit  string          `json:"cur_unit"`
	CurNm    string          `json:"cur_nm"`
	TTB      decimal.Decimal `json:"ttb"`
	TTS      decimal.Decimal `json:"tts"`
	DealBasR decimal.Decimal `json:"deal_bas_r"`
	BkPr     decimal.Decimal `json:"bkpr"`
}

// RatePoint is the base rate of a currency on a given day.
type RatePoint struct {
	Date         time.Time       `json:"-"`
	Day          string          `json:"date"`
	CurrencyCode string          `json:"currency_code,omitempty"`
	Rate         decimal.Decimal `json:"rate"`
}

// RateChart summarizes a rate series.
type RateChart struct {
	Dates []string  `json:"dates"`
	Rates []float64 `json:"rates"`
	Mean  float64   `json:"mean"`
	Std   float64   `json:"std"`
	Min   float64   `json:"min"`
	Max   float64   `json:"max"`
}
