// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"net/http"

	"github.com/tomtom215/finpick/internal/models"
)

// CreatePreference stores the caller's investment profile.
func (h *Handler) CreatePreference(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}

	var req models.PreferenceRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}
	if req.InvestmentAmount.IsNegative() {
		rw.BadRequest("investment_amount must not be negative")
		return
	}

	pref, err := h.questionnaire.CreatePreference(r.Context(), claims.UserID, &req)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Created(pref)
}

// GenerateQuestions returns the preference's questions, creating them on
// first call.
func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}
	preferenceID, ok := pathID(r, "id")
	if !ok {
		rw.NotFound(msgNotFound)
		return
	}

	questions, err := h.questionnaire.GenerateQuestions(r.Context(), claims.UserID, preferenceID)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(questions)
}

// Questions lists the questions of one of the caller's preferences.
func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}
	preferenceID, ok := pathID(r, "id")
	if !ok {
		rw.NotFound(msgNotFound)
		return
	}

	questions, err := h.questionnaire.Questions(r.Context(), claims.UserID, preferenceID)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(questions)
}

// Answer records the caller's answer to a question.
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}
	questionID, ok := pathID(r, "id")
	if !ok {
		rw.NotFound(msgNotFound)
		return
	}

	var req models.AnswerRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	res, err := h.questionnaire.Answer(r.Context(), claims.UserID, questionID, &req)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Created(res)
}
