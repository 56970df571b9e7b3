// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"time"

	"github.com/tomtom215/finpick/internal/auth"
	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/exchange"
	"github.com/tomtom215/finpick/internal/ledger"
	"github.com/tomtom215/finpick/internal/questionnaire"
	"github.com/tomtom215/finpick/internal/recommend"
	syncpkg "github.com/tomtom215/finpick/internal/sync"
)

// Deps are the services the HTTP handlers delegate to.
type Deps struct {
	DB            *database.DB
	Synchronizer  *syncpkg.Synchronizer
	Ledger        *ledger.Ledger
	Questionnaire *questionnaire.Service
	Recommender   *recommend.Assembler
	Exchange      *exchange.Service
	Accounts      *auth.Service
	Config        *config.Config
	Version       string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: request decoding and parameter parsing
//   - handlers_health.go: liveness and readiness
//   - handlers_products.go: banks, products, top rate, admin sync
//   - handlers_ledger.go: subscriptions and wishlist
//   - handlers_questionnaire.go: preferences, questions, answers
//   - handlers_recommend.go: recommendations and explanations
//   - handlers_exchange.go: exchange rates, history, chart
//   - handlers_accounts.go: signup, login, logout, profile
//   - handlers_community.go: articles and comments
type Handler struct {
	db            *database.DB
	sync          *syncpkg.Synchronizer
	ledger        *ledger.Ledger
	questionnaire *questionnaire.Service
	recommender   *recommend.Assembler
	exchange      *exchange.Service
	accounts      *auth.Service
	config        *config.Config
	version       string
	startTime     time.Time
}

// NewHandler creates a new API handler with all required dependencies.
//
//	handler := api.NewHandler(api.Deps{DB: db, Ledger: ledger.New(db), ...})
//	router := api.NewRouter(handler, authMiddleware, authzMiddleware, chiMiddleware)
//	srv := &http.Server{Handler: router.SetupChi()}
func NewHandler(deps Deps) *Handler {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		db:            deps.DB,
		sync:          deps.Synchronizer,
		ledger:        deps.Ledger,
		questionnaire: deps.Questionnaire,
		recommender:   deps.Recommender,
		exchange:      deps.Exchange,
		accounts:      deps.Accounts,
		config:        deps.Config,
		version:       version,
		startTime:     time.Now(),
	}
}
