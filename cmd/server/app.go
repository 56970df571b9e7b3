// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package main

import (
	"fmt"

	"github.com/tomtom215/finpick/internal/api"
	"github.com/tomtom215/finpick/internal/auth"
	"github.com/tomtom215/finpick/internal/authz"
	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/exchange"
	"github.com/tomtom215/finpick/internal/ledger"
	"github.com/tomtom215/finpick/internal/llm"
	"github.com/tomtom215/finpick/internal/logging"
	"github.com/tomtom215/finpick/internal/questionnaire"
	"github.com/tomtom215/finpick/internal/recommend"
	syncpkg "github.com/tomtom215/finpick/internal/sync"
)

// application holds the wired services that outlive a single request.
type application struct {
	accounts     *auth.Service
	revocations  *auth.RevocationStore
	synchronizer *syncpkg.Synchronizer
	exchange     *exchange.Service
	router       *api.Router
}

// newApplication builds every service on top of db.
func newApplication(cfg *config.Config, db *database.DB) (*application, error) {
	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return nil, fmt.Errorf("jwt manager: %w", err)
	}

	revocations, err := auth.OpenRevocationStore(cfg.Security.RevocationStorePath)
	if err != nil {
		return nil, fmt.Errorf("revocation store: %w", err)
	}

	enforcer, err := authz.NewEnforcer(&cfg.Security)
	if err != nil {
		_ = revocations.Close()
		return nil, fmt.Errorf("authorization enforcer: %w", err)
	}

	completer := llm.FromConfig(&cfg.LLM)
	if _, disabled := completer.(llm.Disabled); disabled {
		logging.Info().Msg("LLM disabled (OPENAI_API_KEY unset); questions and explanations use fallbacks")
	}

	synchronizer := syncpkg.NewSynchronizer(db, syncpkg.NewFinlifeClient(&cfg.Finlife), &cfg.Finlife)
	exchangeSvc := exchange.NewService(exchange.NewClient(&cfg.Exchange), db, &cfg.Exchange)
	accounts := auth.NewService(db, jwtManager, revocations, cfg.Security.BcryptCost)

	handler := api.NewHandler(api.Deps{
		DB:            db,
		Synchronizer:  synchronizer,
		Ledger:        ledger.New(db),
		Questionnaire: questionnaire.NewService(db, completer),
		Recommender:   recommend.NewAssembler(db, &cfg.Recommend, recommend.NewLLMExplainer(completer, cfg.LLM.MaxTokens)),
		Exchange:      exchangeSvc,
		Accounts:      accounts,
		Config:        cfg,
		Version:       version,
	})

	router := api.NewRouter(handler,
		auth.NewMiddleware(jwtManager, revocations),
		authz.NewMiddleware(enforcer),
		api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)),
	)

	return &application{
		accounts:     accounts,
		revocations:  revocations,
		synchronizer: synchronizer,
		exchange:     exchangeSvc,
		router:       router,
	}, nil
}

// Close releases the revocation store and the rate cache. The database is
// closed by the caller that opened it.
func (a *application) Close() {
	a.exchange.Close()
	if err := a.revocations.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing revocation store")
	}
}
