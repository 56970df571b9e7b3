// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package commands

import (
	"fmt"

	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/exchange"
	"github.com/tomtom215/finpick/internal/logging"
	syncpkg "github.com/tomtom215/finpick/internal/sync"
)

// DefaultOpener loads configuration the same way the server does and opens
// the DuckDB file. The server must not be running: DuckDB holds an
// exclusive lock on the file.
func DefaultOpener() (*Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
	})

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}

	rates := exchange.NewService(exchange.NewClient(&cfg.Exchange), db, &cfg.Exchange)

	return &Services{
		Catalog: syncpkg.NewSynchronizer(db, syncpkg.NewFinlifeClient(&cfg.Finlife), &cfg.Finlife),
		Rates:   rates,
		Schema:  db,
		Users:   db,
		Close: func() {
			rates.Close()
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing database")
			}
		},
	}, nil
}
