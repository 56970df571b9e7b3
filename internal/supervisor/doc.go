// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

/*
Package supervisor runs finpick's long-lived services under a suture v4 tree.

	RootSupervisor ("finpick")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── revocation-gc (when the revocation store is on disk)
	├── JobsSupervisor ("jobs-layer")
	│   ├── catalog-sync (FINLIFE_SYNC_INTERVAL > 0)
	│   └── exchange-recorder (EXCHANGE_RECORD_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── http-server

Each layer counts failures on its own, so a Finlife outage that keeps the
catalog job failing never restarts the HTTP server. Supervisor events are
logged through sutureslog with the slog adapter from internal/logging.

Usage in cmd/server:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddJobService(services.NewCatalogSyncService(synchronizer, cfg.Finlife.SyncInterval, logger))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.Timeout, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

See the services subpackage for the service wrappers.
*/
package supervisor
