// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

// Package commands implements the finpickctl command tree with cobra.
//
//	finpickctl sync banks [--group 020000]
//	finpickctl sync deposit|saving [--group 020000 --group 030300]
//	finpickctl rates [--date 2026-03-04] [--days 30]
//	finpickctl migrate [--status]
//	finpickctl user delete <username> --yes
//
// Subcommands receive their dependencies through an Opener so they can be
// exercised against fakes; DefaultOpener wires the real database and clients.
package commands
