// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/models"
)

// ExplanationResponse is the body of the single-product explanation endpoint.
type ExplanationResponse struct {
	Recommendation models.Recommendation `json:"recommendation"`
	PreferenceID   int64                 `json:"preference_id"`
}

// latestPreference loads the caller's newest preference and answers
// 404 NO_PREFERENCE when there is none.
func (h *Handler) latestPreference(rw *ResponseWriter, r *http.Request, userID int64) (*models.Preference, bool) {
	pref, err := h.db.LatestPreference(r.Context(), userID)
	if errors.Is(err, database.ErrNotFound) {
		rw.Error(http.StatusNotFound, ErrCodeNoPreference, msgNoPreference)
		return nil, false
	}
	if err != nil {
		rw.Fail(err)
		return nil, false
	}
	return pref, true
}

// Recommendations ranks the catalog against the caller's latest preference.
// With explain=true every entry carries a generated explanation.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}
	pref, ok := h.latestPreference(rw, r, claims.UserID)
	if !ok {
		return
	}

	recs, err := h.recommender.Assemble(r.Context(), pref)
	if err != nil {
		rw.Fail(err)
		return
	}
	if getBoolParam(r, "explain") {
		h.recommender.ExplainAll(r.Context(), recs, pref)
	}

	rw.Success(models.RecommendationList{PreferenceID: pref.ID, Recommendations: recs})
}

// Explanation scores one product for the caller and explains the result.
func (h *Handler) Explanation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}
	kind, ok := pathKind(r)
	if !ok {
		rw.NotFound(msgUnknownProduct)
		return
	}
	pref, ok := h.latestPreference(rw, r, claims.UserID)
	if !ok {
		return
	}

	rec, err := h.recommender.ScoreOne(r.Context(), kind, chi.URLParam(r, "code"), pref)
	if err != nil {
		failProduct(rw, err)
		return
	}
	rec.Explanation = h.recommender.Explain(r.Context(), rec, pref)

	rw.Success(ExplanationResponse{Recommendation: *rec, PreferenceID: pref.ID})
}
