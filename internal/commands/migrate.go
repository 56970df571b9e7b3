// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newMigrateCommand(open Opener) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(open, func(svc *Services) error {
				if status {
					return runMigrateStatus(cmd.Context(), svc.Schema, cmd.OutOrStdout())
				}
				return runMigrate(cmd.Context(), svc.Schema, cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "list applied migrations without changing anything")

	return cmd
}

func runMigrate(ctx context.Context, schema Migrator, out io.Writer) error {
	applied, err := schema.Migrate(ctx)
	if err != nil {
		return err
	}
	version, err := schema.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "applied %d migration(s); schema version %d\n", applied, version)
	return err
}

func runMigrateStatus(ctx context.Context, schema Migrator, out io.Writer) error {
	history, err := schema.MigrationHistory(ctx)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		_, err = fmt.Fprintln(out, "no migrations applied")
		return err
	}
	for _, m := range history {
		if _, err := fmt.Fprintf(out, "v%-3d %-32s %s\n", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04:05")); err != nil {
			return err
		}
	}
	return nil
}
