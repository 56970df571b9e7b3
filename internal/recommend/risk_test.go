// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package recommend

import (
	"math"
	"testing"

	"github.com/tomtom215/finpick/internal/models"
)

func answers(pairs ...string) []models.TypedAnswer {
	out := make([]models.TypedAnswer, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.TypedAnswer{QuestionType: models.QuestionType(pairs[i]), SelectedOption: pairs[i+1]})
	}
	return out
}

func TestRiskTolerance(t *testing.T) {
	tests := []struct {
		name    string
		answers []models.TypedAnswer
		want    float64
	}{
		{"all threes", answers("risk", "3", "experience", "3", "preference", "3"), 0.5},
		{"all fives", answers("risk", "5", "risk", "5", "experience", "5", "preference", "5"), 1.0},
		{"all ones", answers("risk", "1", "experience", "1", "preference", "1"), 0.0},
		{"means per type", answers("risk", "1", "risk", "5", "experience", "3", "preference", "3"), 0.5},
		{"goal ignored", answers("risk", "3", "experience", "3", "preference", "3", "goal", "5"), 0.5},
		{"unparseable counts as three", answers("risk", "abc", "experience", "3", "preference", "3"), 0.5},
		// risk only: 0.4 * 5 = 2.0 -> (2 - 1) / 4
		{"partial coverage", answers("risk", "5"), 0.25},
		{"risk only low clamps to zero", answers("risk", "1"), 0.0},
		{"no answers", nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RiskTolerance(tt.answers)
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("RiskTolerance() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("RiskTolerance() = %v out of [0,1]", got)
			}
		})
	}
}
