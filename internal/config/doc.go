// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

/*
Package config provides centralized configuration management for Finpick.

Configuration is loaded with Koanf v2 from three layers, highest priority last:

  - Built-in defaults (defaultConfig)
  - An optional YAML file (CONFIG_PATH, ./config.yaml, /etc/finpick/config.yaml)
  - Environment variables, mapped from flat legacy names to nested keys

# Environment Variables

Upstream APIs:
  - FINLIFE_API_KEY: finlife.fss.or.kr auth key (catalog sync disabled without it)
  - FINLIFE_GROUP_CODES: topFinGrpNo list (default: 020000,030300)
  - FINLIFE_SYNC_INTERVAL: scheduled sync interval (default: 0, on-demand only)
  - EXCHANGE_API_KEY: koreaexim.go.kr auth key
  - EXCHANGE_RECORD_INTERVAL: scheduled rate-history capture (default: 24h, 0 disables)
  - OPENAI_API_KEY: chat completions key (LLM features fall back without it)

Recommendation:
  - RECOMMEND_FIRST_TIER_BANKS: comma-separated first-tier bank names
  - RECOMMEND_DEPOSIT_JITTER: deposit score jitter half-width (default: 0.05)
  - RECOMMEND_SEED: jitter RNG seed (default: 0, time seeded)

Server and storage:
  - HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT, ENVIRONMENT
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS

Security:
  - JWT_SECRET: token signing secret (required, 32+ characters)
  - ADMIN_USERNAME / ADMIN_PASSWORD: optional admin account seeded at startup
  - REVOCATION_STORE_PATH: BadgerDB directory for logged-out token IDs
  - CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Validation

Validate is split into small validateX methods, each returning the first
problem found with the environment variable name in the message.
*/
package config
