// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"math"
	"net/http"
	"testing"

	"github.com/tomtom215/finpick/internal/models"
	"github.com/tomtom215/finpick/internal/recommend"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRecommendations_NoPreference(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token, _ := env.signup("nora")

	apiErr := expectError(t, env.do(http.MethodGet, "/api/v1/recommendations", token, nil), http.StatusNotFound, ErrCodeNoPreference)
	if apiErr.Message != msgNoPreference {
		t.Errorf("message = %q", apiErr.Message)
	}

	rec := env.do(http.MethodGet, "/api/v1/recommendations/deposit/A/explanation", token, nil)
	expectError(t, rec, http.StatusNotFound, ErrCodeNoPreference)
}

func TestRecommendations_SortedByScore(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedCatalog(env)
	token, _ := env.signup("rupert")
	pref := createPreference(t, env, token)

	var list models.RecommendationList
	decodeData(t, env.do(http.MethodGet, "/api/v1/recommendations", token, nil), &list)
	if list.PreferenceID != pref.ID {
		t.Errorf("preference_id = %d, want %d", list.PreferenceID, pref.ID)
	}
	if len(list.Recommendations) == 0 {
		t.Fatal("expected recommendations")
	}
	for i := 1; i < len(list.Recommendations); i++ {
		if list.Recommendations[i].Score > list.Recommendations[i-1].Score {
			t.Errorf("not sorted at %d", i)
		}
	}
}

func TestRecommendations_RankedWithFallbackExplanations(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token, _ := env.signup("oscar")

	// First-tier bank, two options: 0.3*0.8 + 0.3*0.8 + 0.2*1.0 + 0.2*0.2 = 0.72.
	env.seedProduct(models.ProductKindDeposit, "A", "우리은행", [2]float64{3.5, 3.5}, [2]float64{3.5, 4.0})
	// Other bank, one option: 0.3*0.6 + 0.3*0.2 + 0.2*1.0 + 0.2*0.1 = 0.46.
	env.seedProduct(models.ProductKindSaving, "B", "토스뱅크", [2]float64{1.0, 1.0})
	pref := createPreference(t, env, token)

	var explained models.RecommendationList
	decodeData(t, env.do(http.MethodGet, "/api/v1/recommendations?explain=true", token, nil), &explained)

	if explained.PreferenceID != pref.ID {
		t.Errorf("preference_id = %d, want %d", explained.PreferenceID, pref.ID)
	}
	if len(explained.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(explained.Recommendations))
	}
	top := explained.Recommendations[0]
	if top.FinPrdtCd != "A" || !approxEqual(top.Score, 0.72) || top.MaxRate != 4.0 {
		t.Errorf("top = %+v, want A scored 0.72 with max rate 4.0", top)
	}
	if second := explained.Recommendations[1]; second.FinPrdtCd != "B" || !approxEqual(second.Score, 0.46) {
		t.Errorf("second = %+v, want B scored 0.46", second)
	}
	for _, r := range explained.Recommendations {
		if r.Explanation != recommend.ExplanationFallback {
			t.Errorf("%s explanation = %q, want fallback", r.FinPrdtCd, r.Explanation)
		}
	}

	var plain models.RecommendationList
	decodeData(t, env.do(http.MethodGet, "/api/v1/recommendations", token, nil), &plain)
	if len(plain.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(plain.Recommendations))
	}
	for _, r := range plain.Recommendations {
		if r.Explanation != "" {
			t.Errorf("%s explanation = %q without explain=true", r.FinPrdtCd, r.Explanation)
		}
	}
}

func TestExplanation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token, _ := env.signup("paula")
	env.seedProduct(models.ProductKindDeposit, "A", "국민은행", [2]float64{3.5, 3.5}, [2]float64{3.5, 4.0})
	pref := createPreference(t, env, token)

	rec := env.do(http.MethodGet, "/api/v1/recommendations/deposit/A/explanation", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp ExplanationResponse
	decodeData(t, rec, &resp)
	if resp.PreferenceID != pref.ID {
		t.Errorf("preference_id = %d, want %d", resp.PreferenceID, pref.ID)
	}
	if resp.Recommendation.FinPrdtCd != "A" {
		t.Errorf("product = %q", resp.Recommendation.FinPrdtCd)
	}
	if !approxEqual(resp.Recommendation.Score, 0.72) {
		t.Errorf("score = %v, want 0.72", resp.Recommendation.Score)
	}
	if resp.Recommendation.Breakdown.Stability != 0.8 {
		t.Errorf("stability = %v, want 0.8", resp.Recommendation.Breakdown.Stability)
	}
	if resp.Recommendation.Explanation != recommend.ExplanationFallback {
		t.Errorf("explanation = %q", resp.Recommendation.Explanation)
	}

	rec = env.do(http.MethodGet, "/api/v1/recommendations/deposit/missing/explanation", token, nil)
	expectError(t, rec, http.StatusNotFound, ErrCodeNotFound)

	rec = env.do(http.MethodGet, "/api/v1/recommendations/loan/A/explanation", token, nil)
	expectError(t, rec, http.StatusNotFound, ErrCodeNotFound)
}
