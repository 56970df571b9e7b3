// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

// Package recommend ranks deposit and savings products against a user preference.
//
// # Scoring
//
// Score is a pure function of a product, its options, and the injected
// first-tier bank list. It produces four sub-scores in [0, 1] and a weighted
// composite:
//
//	stability     0.8 for a first-tier bank, else 0.6      weight 0.3
//	profitability min(max intr_rate2 / 5.0, 1.0)           weight 0.3
//	accessibility 1.0 without join restriction, else 0.7  weight 0.2
//	flexibility   min(option count / 10, 1.0)              weight 0.2
//
// # Assembly
//
// Assembler runs the scorer over every product that has options and then:
//
//  1. keeps composites strictly above RecommendConfig.MinScore
//  2. adds uniform jitter to deposit products only
//  3. stable-sorts by score, then max rate, descending
//  4. multiplies scores from rank PenaltyExempt onward by DisplayPenalty
//     without re-sorting
//  5. truncates to Limit
//
// The jitter source is seeded from RecommendConfig.Seed (0 = time seeded) and
// guarded by a mutex, so an Assembler is safe for concurrent use.
//
// # Explanations
//
// Explanations are best-effort. Any Explainer failure is logged, counted in
// finpick_llm_fallbacks_total, and replaced with ExplanationFallback.
//
// # Risk tolerance
//
// RiskTolerance folds questionnaire answers into the [0, 1] score stored on
// a preference. It is recomputed only once every question is answered.
package recommend
