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

	"github.com/tomtom215/finpick/internal/models"
)

const syncTargetBanks = "banks"

func newSyncCommand(open Opener) *cobra.Command {
	var groups []string

	cmd := &cobra.Command{
		Use:       "sync {banks|deposit|saving}",
		Short:     "Fetch the Finlife catalog into the database",
		Long:      "Fetch the bank directory or one product kind from the Finlife API.\nExisting products are left untouched; only new codes are inserted.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{syncTargetBanks, string(models.ProductKindDeposit), string(models.ProductKindSaving)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(open, func(svc *Services) error {
				return runSync(cmd.Context(), svc.Catalog, args[0], groups, cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().StringSliceVar(&groups, "group", nil, "topFinGrpNo to fetch (repeatable; default from FINLIFE_GROUP_CODES)")

	return cmd
}

func runSync(ctx context.Context, catalog CatalogSyncer, target string, groups []string, out io.Writer) error {
	var (
		res *models.SyncResult
		err error
	)
	if target == syncTargetBanks {
		if len(groups) > 1 {
			return fmt.Errorf("banks sync takes a single --group, got %d", len(groups))
		}
		group := ""
		if len(groups) == 1 {
			group = groups[0]
		}
		res, err = catalog.SyncBanks(ctx, group)
	} else {
		kind, ok := models.ParseProductKind(target)
		if !ok {
			return fmt.Errorf("unknown sync target %q", target)
		}
		res, err = catalog.Sync(ctx, kind, groups)
	}
	if err != nil {
		return fmt.Errorf("sync %s: %w", target, err)
	}

	_, err = fmt.Fprintf(out, "%s: %d saved, %d skipped, %d failed\n",
		res.Kind, res.Saved, res.Skipped, res.Failed)
	return err
}
