// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/models"
)

func newUserCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete an account and everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete %q without --yes", args[0])
			}
			return withServices(open, func(svc *Services) error {
				return runDeleteUser(cmd.Context(), svc.Users, args[0], cmd.OutOrStdout())
			})
		},
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")

	cmd.AddCommand(deleteCmd)
	return cmd
}

func runDeleteUser(ctx context.Context, users UserStore, username string, out io.Writer) error {
	user, err := users.GetUserByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("user %q not found", username)
	}
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return fmt.Errorf("user %q is an admin; admins are managed through ADMIN_USERNAME", username)
	}
	if err := users.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("delete %q: %w", username, err)
	}
	_, err = fmt.Fprintf(out, "deleted user %q (id %d)\n", user.Username, user.ID)
	return err
}
