// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

// Command finpickctl runs one-off maintenance against the finpick database.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/finpick/internal/commands"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCommand(version, commands.DefaultOpener).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
