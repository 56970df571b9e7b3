// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package recommend

import (
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/models"
)

const epsilon = 1e-9

func opts(rates ...float64) []models.ProductOption {
	out := make([]models.ProductOption, len(rates))
	for i, r := range rates {
		out[i] = models.ProductOption{IntrRate: r - 0.5, IntrRate2: r, SaveTrm: 12}
	}
	return out
}

func TestScoreFirstTierScenario(t *testing.T) {
	s := NewScorer(config.DefaultFirstTierBanks)
	p := &models.Product{FinPrdtCd: "A", KorCoNm: "국민은행", JoinDeny: models.JoinDenyNone}

	composite, b, err := s.Score(p, opts(3.5, 4.0), nil)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	want := models.ScoreBreakdown{Stability: 0.8, Profitability: 0.8, Accessibility: 1.0, Flexibility: 0.2}
	if math.Abs(b.Stability-want.Stability) > epsilon ||
		math.Abs(b.Profitability-want.Profitability) > epsilon ||
		math.Abs(b.Accessibility-want.Accessibility) > epsilon ||
		math.Abs(b.Flexibility-want.Flexibility) > epsilon {
		t.Errorf("breakdown = %+v, want %+v", b, want)
	}
	if math.Abs(composite-0.72) > epsilon {
		t.Errorf("composite = %v, want 0.72", composite)
	}
}

func TestScoreComponents(t *testing.T) {
	s := NewScorer([]string{"신한 은행"})

	tests := []struct {
		name    string
		product models.Product
		options []models.ProductOption
		want    models.ScoreBreakdown
	}{
		{
			name:    "first tier matched without whitespace",
			product: models.Product{KorCoNm: "신한은행", JoinDeny: 1},
			options: opts(2.5),
			want:    models.ScoreBreakdown{Stability: 0.8, Profitability: 0.5, Accessibility: 1.0, Flexibility: 0.1},
		},
		{
			name:    "restricted join and capped profitability",
			product: models.Product{KorCoNm: "웰컴저축은행", JoinDeny: models.JoinDenyRestricted},
			options: opts(7.0),
			want:    models.ScoreBreakdown{Stability: 0.6, Profitability: 1.0, Accessibility: 0.7, Flexibility: 0.1},
		},
		{
			name:    "low income only is restricted",
			product: models.Product{KorCoNm: "웰컴저축은행", JoinDeny: models.JoinDenyLowIncome},
			options: opts(1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1),
			want:    models.ScoreBreakdown{Stability: 0.6, Profitability: 0.2, Accessibility: 0.7, Flexibility: 1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			composite, b, err := s.Score(&tt.product, tt.options, nil)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if math.Abs(b.Stability-tt.want.Stability) > epsilon ||
				math.Abs(b.Profitability-tt.want.Profitability) > epsilon ||
				math.Abs(b.Accessibility-tt.want.Accessibility) > epsilon ||
				math.Abs(b.Flexibility-tt.want.Flexibility) > epsilon {
				t.Errorf("breakdown = %+v, want %+v", b, tt.want)
			}
			if composite < 0 || composite > 1 {
				t.Errorf("composite %v out of [0,1]", composite)
			}
		})
	}
}

func TestScoreRequiresOptions(t *testing.T) {
	s := NewScorer(nil)
	_, _, err := s.Score(&models.Product{}, nil, nil)
	if !errors.Is(err, ErrNoOptions) {
		t.Errorf("Score() error = %v, want ErrNoOptions", err)
	}
}
