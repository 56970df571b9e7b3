// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package recommend

import (
	"strconv"
	"strings"

	"github.com/tomtom215/finpick/internal/models"
)

// riskWeights are applied to the mean answer of each question type.
// Goal questions do not contribute.
var riskWeights = []struct {
	qtype  models.QuestionType
	weight float64
}{
	{models.QuestionTypeRisk, 0.4},
	{models.QuestionTypeExperience, 0.3},
	{models.QuestionTypePreference, 0.3},
}

// neutralAnswer stands in for a selection that is not an ordinal.
const neutralAnswer = 3.0

// RiskTolerance maps answers on the 1..5 ordinal scale to [0, 1].
//
// Each weighted type contributes weight * mean(selected values). A type with
// no answers contributes 0, so partial coverage lowers the result. The
// weighted sum is normalized as (sum - 1) / 4 and clamped.
func RiskTolerance(answers []models.TypedAnswer) float64 {
	sums := make(map[models.QuestionType]float64, len(riskWeights))
	counts := make(map[models.QuestionType]int, len(riskWeights))

	for _, a := range answers {
		sums[a.QuestionType] += ordinal(a.SelectedOption)
		counts[a.QuestionType]++
	}

	var total float64
	for _, rw := range riskWeights {
		if n := counts[rw.qtype]; n > 0 {
			total += rw.weight * sums[rw.qtype] / float64(n)
		}
	}

	score := (total - 1) / 4
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	}
	return score
}

func ordinal(v string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return neutralAnswer
	}
	return n
}
