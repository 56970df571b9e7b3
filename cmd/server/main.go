// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/logging"
	"github.com/tomtom215/finpick/internal/metrics"
	"github.com/tomtom215/finpick/internal/supervisor"
	"github.com/tomtom215/finpick/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Bool("llm_enabled", cfg.LLM.APIKey != "").
		Msg("Starting finpick")

	warnAboutInsecureSettings(cfg)

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	app, err := newApplication(cfg, db)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize services")
		return
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.accounts.SeedAdmin(ctx, cfg.Security.AdminUsername, cfg.Security.AdminPassword); err != nil {
		logging.Error().Err(err).Msg("Failed to seed admin account")
		return
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return
	}

	addJobs(tree, cfg, app)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           app.router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// recommendation explanations wait on the LLM
		WriteTimeout: cfg.Server.Timeout + cfg.LLM.Timeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logging.WithComponent("http")))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree")
	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// addJobs registers the scheduled jobs. Disabled intervals are skipped
// rather than added as no-op services.
func addJobs(tree *supervisor.SupervisorTree, cfg *config.Config, app *application) {
	if cfg.Finlife.SyncInterval > 0 {
		tree.AddJobService(services.NewCatalogSyncService(app.synchronizer, cfg.Finlife.SyncInterval,
			logging.WithComponent("catalog-sync")))
		logging.Info().Dur("interval", cfg.Finlife.SyncInterval).Msg("Scheduled catalog sync enabled")
	} else {
		logging.Info().Msg("Catalog sync is on-demand only (FINLIFE_SYNC_INTERVAL=0)")
	}

	if cfg.Exchange.RecordInterval > 0 && cfg.Exchange.APIKey != "" {
		tree.AddJobService(services.NewExchangeRecorderService(app.exchange, cfg.Exchange.RecordInterval,
			logging.WithComponent("exchange-recorder")))
		logging.Info().Dur("interval", cfg.Exchange.RecordInterval).Msg("Exchange-rate history capture enabled")
	}

	if cfg.Security.RevocationStorePath != "" {
		tree.AddMaintenanceService(services.NewRevocationGCService(app.revocations, services.RevocationGCInterval,
			logging.WithComponent("revocation-gc")))
	}
}

func warnAboutInsecureSettings(cfg *config.Config) {
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
	}
	if cfg.Security.RevocationStorePath == "" && !cfg.IsDevelopment() {
		logging.Warn().Msg("Token revocations are kept in memory and lost on restart; set REVOCATION_STORE_PATH")
	}
	if cfg.Finlife.APIKey == "" {
		logging.Warn().Msg("FINLIFE_API_KEY is not set; catalog sync will fail")
	}
}
