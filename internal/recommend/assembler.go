// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/logging"
	"github.com/tomtom215/finpick/internal/metrics"
	"github.com/tomtom215/finpick/internal/models"
)

// ExplanationFallback replaces an explanation that could not be generated.
const ExplanationFallback = "추천 이유를 생성하는 중 오류가 발생했습니다."

// CatalogSource supplies scorable products. Implemented by *database.DB.
type CatalogSource interface {
	// CatalogProducts returns products of kind that have at least one
	// option; an empty kind means all kinds.
	CatalogProducts(ctx context.Context, kind models.ProductKind) ([]models.ProductWithOptions, error)

	GetProductWithOptions(ctx context.Context, kind models.ProductKind, code string) (*models.ProductWithOptions, error)
}

// Explainer produces a natural-language reason for a recommendation.
type Explainer interface {
	Explain(ctx context.Context, rec *models.Recommendation, pref *models.Preference) (string, error)
}

// Assembler builds ranked recommendation lists.
type Assembler struct {
	catalog   CatalogSource
	scorer    *Scorer
	explainer Explainer
	cfg       config.RecommendConfig

	// Jitter source, guarded for concurrent requests.
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewAssembler creates an assembler. A nil explainer makes every explanation
// the fallback text.
func NewAssembler(catalog CatalogSource, cfg *config.RecommendConfig, explainer Explainer) *Assembler {
	c := *cfg
	if c.Limit <= 0 {
		c.Limit = 10
	}
	if c.DisplayPenalty <= 0 {
		c.DisplayPenalty = 1
	}
	if c.PenaltyExempt < 0 {
		c.PenaltyExempt = 0
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Assembler{
		catalog:   catalog,
		scorer:    NewScorer(c.FirstTierBanks),
		explainer: explainer,
		cfg:       c,
		rng:       rand.New(rand.NewSource(seed)), //nolint:gosec // jitter does not need a CSPRNG
	}
}

// Scorer returns the scorer used by the assembler.
func (a *Assembler) Scorer() *Scorer {
	return a.scorer
}

// Assemble returns at most Limit recommendations for pref, best first.
// Explanations are not filled in; see Explain.
func (a *Assembler) Assemble(ctx context.Context, pref *models.Preference) ([]models.Recommendation, error) {
	start := time.Now()

	products, err := a.catalog.CatalogProducts(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	recs := make([]models.Recommendation, 0, len(products))
	for i := range products {
		p := &products[i]
		score, breakdown, err := a.scorer.Score(&p.Product, p.Options, pref)
		if err != nil {
			continue
		}
		if score <= a.cfg.MinScore {
			continue
		}
		if p.Product.Kind == models.ProductKindDeposit && a.cfg.DepositJitter > 0 {
			score += a.jitter()
		}
		recs = append(recs, newRecommendation(p, score, breakdown))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].MaxRate > recs[j].MaxRate
	})

	// Display penalty; order is not revisited.
	for i := a.cfg.PenaltyExempt; i < len(recs); i++ {
		recs[i].Score *= a.cfg.DisplayPenalty
	}

	if len(recs) > a.cfg.Limit {
		recs = recs[:a.cfg.Limit]
	}

	metrics.RecordRecommendation(time.Since(start), len(recs))
	logging.Ctx(ctx).Debug().Str("component", "recommend").
		Int("catalog", len(products)).
		Int("returned", len(recs)).
		Dur("duration", time.Since(start)).
		Msg("Recommendations assembled")
	return recs, nil
}

// jitter returns a uniform value in [-DepositJitter, DepositJitter].
func (a *Assembler) jitter() float64 {
	a.rngMu.Lock()
	defer a.rngMu.Unlock()
	return (a.rng.Float64()*2 - 1) * a.cfg.DepositJitter
}

func newRecommendation(p *models.ProductWithOptions, score float64, b models.ScoreBreakdown) models.Recommendation {
	_, maxRate := models.MaxRates(p.Options)
	return models.Recommendation{
		FinPrdtCd: p.Product.FinPrdtCd,
		FinPrdtNm: p.Product.FinPrdtNm,
		KorCoNm:   p.Product.KorCoNm,
		Kind:      p.Product.Kind,
		MaxRate:   maxRate,
		Score:     score,
		Breakdown: b,
	}
}

// ScoreOne scores a single catalog product without jitter or rank penalty.
// It returns database.ErrNotFound for unknown or option-less products.
func (a *Assembler) ScoreOne(ctx context.Context, kind models.ProductKind, code string, pref *models.Preference) (*models.Recommendation, error) {
	p, err := a.catalog.GetProductWithOptions(ctx, kind, code)
	if err != nil {
		return nil, err
	}
	score, breakdown, err := a.scorer.Score(&p.Product, p.Options, pref)
	if err != nil {
		return nil, err
	}
	rec := newRecommendation(p, score, breakdown)
	return &rec, nil
}

// Explain returns an explanation for rec. It never fails: errors are logged
// and replaced with ExplanationFallback.
func (a *Assembler) Explain(ctx context.Context, rec *models.Recommendation, pref *models.Preference) string {
	if a.explainer == nil {
		metrics.RecordLLMFallback("explanation")
		return ExplanationFallback
	}
	text, err := a.explainer.Explain(ctx, rec, pref)
	if err != nil || text == "" {
		metrics.RecordLLMFallback("explanation")
		logging.Ctx(ctx).Warn().Err(err).Str("fin_prdt_cd", rec.FinPrdtCd).Msg("Explanation unavailable, using fallback")
		return ExplanationFallback
	}
	return text
}

// ExplainAll fills Explanation on every element of recs.
func (a *Assembler) ExplainAll(ctx context.Context, recs []models.Recommendation, pref *models.Preference) {
	for i := range recs {
		recs[i].Explanation = a.Explain(ctx, &recs[i], pref)
	}
}
