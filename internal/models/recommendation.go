// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package models

// ScoreBreakdown holds the four weighted sub-scores of a product.
type ScoreBreakdown struct {
	Stability     float64 `json:"stability"`
	Profitability float64 `json:"profitability"`
	Accessibility float64 `json:"accessibility"`
	Flexibility   float64 `json:"flexibility"`
}

// Recommendation is one ranked product.
type Recommendation struct {
	FinPrdtCd   string         `json:"fin_prdt_cd"`
	FinPrdtNm   string         `json:"fin_prdt_nm"`
	KorCoNm     string         `json:"kor_co_nm"`
	Kind        ProductKind    `json:"product_type"`
	MaxRate     float64        `json:"max_rate"`
	Score       float64        `json:"score"`
	Breakdown   ScoreBreakdown `json:"scores"`
	Explanation string         `json:"explanation,omitempty"`
}

// RecommendationList is the recommendations response payload.
type RecommendationList struct {
	PreferenceID    int64            `json:"preference_id"`
	Recommendations []Recommendation `json:"recommendations"`
}
