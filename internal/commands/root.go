// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/models"
)

// CatalogSyncer refreshes the mirrored Finlife catalog.
type CatalogSyncer interface {
	Sync(ctx context.Context, kind models.ProductKind, groupCodes []string) (*models.SyncResult, error)
	SyncBanks(ctx context.Context, groupCode string) (*models.SyncResult, error)
}

// RateRecorder persists one day's exchange-rate table.
type RateRecorder interface {
	Record(ctx context.Context, day time.Time) (int, error)
}

// Migrator applies and reports schema migrations.
type Migrator interface {
	Migrate(ctx context.Context) (int, error)
	SchemaVersion(ctx context.Context) (int, error)
	MigrationHistory(ctx context.Context) ([]database.Migration, error)
}

// UserStore looks up and removes accounts.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Services are the components subcommands operate on.
type Services struct {
	Catalog CatalogSyncer
	Rates   RateRecorder
	Schema  Migrator
	Users   UserStore
	Close   func()
}

// Opener builds Services. It runs after flag parsing, so --config has
// already been applied to the environment.
type Opener func() (*Services, error)

// NewRootCommand creates the finpickctl command tree.
func NewRootCommand(version string, open Opener) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "finpickctl",
		Short:   "Operational tasks for the finpick backend",
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return os.Setenv(config.ConfigPathEnvVar, configPath)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (overrides "+config.ConfigPathEnvVar+")")

	rootCmd.AddCommand(
		newSyncCommand(open),
		newRatesCommand(open),
		newMigrateCommand(open),
		newUserCommand(open),
		newVersionCommand(version),
	)

	return rootCmd
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the finpickctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "finpickctl", version)
			return err
		},
	}
}

// withServices opens Services for the duration of fn.
func withServices(open Opener, fn func(*Services) error) error {
	svc, err := open()
	if err != nil {
		return err
	}
	if svc.Close != nil {
		defer svc.Close()
	}
	return fn(svc)
}
