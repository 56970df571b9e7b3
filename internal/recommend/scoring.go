// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package recommend

import (
	"errors"
	"math"

	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/models"
)

// ErrNoOptions is returned when a product without options is scored.
var ErrNoOptions = errors.New("product has no options")

// Component weights of the composite score.
const (
	weightStability     = 0.3
	weightProfitability = 0.3
	weightAccessibility = 0.2
	weightFlexibility   = 0.2
)

const (
	stabilityFirstTier = 0.8
	stabilityOther     = 0.6

	accessibilityOpen       = 1.0
	accessibilityRestricted = 0.7

	// profitabilityCeiling is the preferential rate (percent) that maps to 1.0.
	profitabilityCeiling = 5.0

	// flexibilityCeiling is the option count that maps to 1.0.
	flexibilityCeiling = 10.0
)

// Scorer computes composite scores. It is immutable after construction.
type Scorer struct {
	firstTier map[string]struct{}
}

// NewScorer builds a scorer for the given first-tier bank names.
// Names are matched with whitespace removed.
func NewScorer(firstTierBanks []string) *Scorer {
	set := make(map[string]struct{}, len(firstTierBanks))
	for _, name := range firstTierBanks {
		if n := database.NormalizeBankName(name); n != "" {
			set[n] = struct{}{}
		}
	}
	return &Scorer{firstTier: set}
}

// IsFirstTier reports whether bankName is on the first-tier list.
func (s *Scorer) IsFirstTier(bankName string) bool {
	_, ok := s.firstTier[database.NormalizeBankName(bankName)]
	return ok
}

// Score returns the composite score of product and its breakdown.
// The preference is accepted for callers that thread it through, but the
// current weighting does not depend on it.
func (s *Scorer) Score(product *models.Product, options []models.ProductOption, _ *models.Preference) (float64, models.ScoreBreakdown, error) {
	if len(options) == 0 {
		return 0, models.ScoreBreakdown{}, ErrNoOptions
	}

	b := models.ScoreBreakdown{
		Stability:     stabilityOther,
		Accessibility: accessibilityOpen,
	}
	if s.IsFirstTier(product.KorCoNm) {
		b.Stability = stabilityFirstTier
	}

	_, maxRate := models.MaxRates(options)
	b.Profitability = math.Min(maxRate/profitabilityCeiling, 1.0)
	if b.Profitability < 0 {
		b.Profitability = 0
	}

	if product.JoinDeny > models.JoinDenyNone {
		b.Accessibility = accessibilityRestricted
	}

	b.Flexibility = math.Min(float64(len(options))/flexibilityCeiling, 1.0)

	composite := weightStability*b.Stability +
		weightProfitability*b.Profitability +
		weightAccessibility*b.Accessibility +
		weightFlexibility*b.Flexibility
	return composite, b, nil
}
