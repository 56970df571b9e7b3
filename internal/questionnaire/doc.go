// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

// Package questionnaire runs the preference and dynamic question flow.
//
// A user records a preference, asks for questions, and answers them one at a
// time. Questions are generated once per preference by the LLM; when the LLM
// is disabled, fails, or returns an unusable payload, a fixed set of six
// default questions is stored instead so the flow never blocks.
//
// After each answer the service compares the number of answered questions to
// the number of questions. Once every question is answered the preference's
// risk tolerance is recomputed with recommend.RiskTolerance and stored.
package questionnaire
