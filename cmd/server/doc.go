// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

/*
Command server runs the finpick HTTP API.

finpick recommends Korean deposit and savings products. It mirrors the
Finlife (finlife.fss.or.kr) catalog into DuckDB, scores products against a
user's investment-propensity profile, and tracks subscriptions, wishlists,
exchange rates and a small community board.

# Startup

 1. Configuration: koanf v2 (defaults, then config.yaml, then environment)
 2. Logging: zerolog, JSON by default
 3. Database: DuckDB with the catalog, ledger, questionnaire and community schema
 4. Services: Finlife synchronizer, Koreaexim rates, LLM client, accounts
 5. Admin seeding: ADMIN_USERNAME / ADMIN_PASSWORD, idempotent
 6. Supervisor tree: HTTP server plus the enabled scheduled jobs

The tree, with the setting that enables each optional job:

	RootSupervisor ("finpick")
	├── maintenance-layer
	│   └── revocation-gc        (REVOCATION_STORE_PATH set)
	├── jobs-layer
	│   ├── catalog-sync         (FINLIFE_SYNC_INTERVAL > 0)
	│   └── exchange-recorder    (EXCHANGE_RECORD_INTERVAL > 0 and EXCHANGE_API_KEY set)
	└── api-layer
	    └── http-server

# Example

	export FINLIFE_API_KEY=...
	export EXCHANGE_API_KEY=...
	export JWT_SECRET=$(openssl rand -base64 32)
	export ADMIN_USERNAME=admin
	export ADMIN_PASSWORD=change-me-please
	./finpick

SIGINT and SIGTERM cancel the tree; the HTTP server drains for up to ten
seconds before the database closes.

Operational tasks (one-off syncs, recording rates, migrations) live in
cmd/finpickctl.
*/
package main
