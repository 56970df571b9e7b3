// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/finpick/config.yaml",
	"/etc/finpick/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultFirstTierBanks are the commercial and special banks treated as
// first-tier by the stability score and the first_tier_only listing filter.
var DefaultFirstTierBanks = []string{
	"우리은행", "한국스탠다드차타드은행", "아이엠뱅크", "부산은행", "광주은행",
	"제주은행", "전북은행", "경남은행", "중소기업은행", "한국산업은행",
	"국민은행", "신한은행", "농협은행주식회사", "하나은행", "주식회사케이뱅크",
	"수협은행", "주식회사카카오뱅크", "토스뱅크주식회사",
}

// DefaultSavingBanks are the mutual savings banks matched by the saving_bank_only filter.
var DefaultSavingBanks = []string{
	"애큐온저축은행", "오에스비저축은행", "디비저축은행", "스카이저축은행", "민국저축은행",
	"푸른상호저축은행", "HB저축은행", "키움예스저축은행", "더케이저축은행", "조은저축은행",
	"흥국저축은행", "우리저축은행", "키움저축은행", "삼정저축은행", "영진저축은행",
	"융창저축은행", "더블저축은행", "센트럴저축은행", "오성저축은행", "에스앤티저축은행",
	"솔브레인저축은행", "신한저축은행", "대신저축은행", "웰컴저축은행", "다올저축은행",
	"인천저축은행", "모아저축은행", "페퍼저축은행", "오케이저축은행",
}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Finlife: FinlifeConfig{
			BaseURL:           "http://finlife.fss.or.kr/finlifeapi",
			APIKey:            "",
			GroupCodes:        []string{"020000", "030300"}, // banks, savings banks
			CompanyGroupCode:  "020000",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			SyncInterval:      0, // on-demand only
		},
		Exchange: ExchangeConfig{
			BaseURL:        "https://www.koreaexim.go.kr/site/program/financial/exchangeJSON",
			APIKey:         "",
			Timeout:        10 * time.Second,
			LookbackDays:   5,
			CacheTTL:       10 * time.Minute,
			RecordInterval: 24 * time.Hour, // Eximbank publishes once per business day
		},
		LLM: LLMConfig{
			BaseURL:   "https://api.openai.com/v1",
			APIKey:    "", // disabled until set
			Model:     "gpt-4o-mini",
			Timeout:   20 * time.Second,
			MaxTokens: 200,
		},
		Recommend: RecommendConfig{
			FirstTierBanks: append([]string(nil), DefaultFirstTierBanks...),
			MinScore:       0.5,
			DepositJitter:  0.05,
			DisplayPenalty: 0.95,
			PenaltyExempt:  2,
			Limit:          10,
			Seed:           0,
		},
		Catalog: CatalogConfig{
			SavingBanks:     append([]string(nil), DefaultSavingBanks...),
			DefaultPageSize: 8,
			MaxPageSize:     100,
		},
		Database: DatabaseConfig{
			Path:      "/data/finpick.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			JWTSecret:           "",
			SessionTimeout:      24 * time.Hour,
			AdminUsername:       "",
			AdminPassword:       "",
			BcryptCost:          12,
			RateLimitReqs:       100,
			RateLimitWindow:     1 * time.Minute,
			RateLimitDisabled:   false,
			CORSOrigins:         []string{"*"},
			RevocationStorePath: "/data/revoked",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// FINLIFE_API_KEY -> finlife.api_key, HTTP_PORT -> server.port
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"finlife.group_codes",
	"recommend.first_tier_banks",
	"catalog.saving_banks",
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}

		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps flat environment variable names to koanf config paths.
var envMappings = map[string]string{
	// Finlife catalog API
	"finlife_api_key":             "finlife.api_key",
	"finlife_url":                 "finlife.url",
	"finlife_group_codes":         "finlife.group_codes",
	"finlife_company_group_code":  "finlife.company_group_code",
	"finlife_timeout":             "finlife.timeout",
	"finlife_requests_per_second": "finlife.requests_per_second",
	"finlife_sync_interval":       "finlife.sync_interval",

	// Exchange rates
	"exchange_api_key":         "exchange.api_key",
	"exchange_url":             "exchange.url",
	"exchange_timeout":         "exchange.timeout",
	"exchange_lookback_days":   "exchange.lookback_days",
	"exchange_cache_ttl":       "exchange.cache_ttl",
	"exchange_record_interval": "exchange.record_interval",

	// LLM
	"openai_api_key": "llm.api_key",
	"llm_url":        "llm.url",
	"llm_model":      "llm.model",
	"llm_timeout":    "llm.timeout",
	"llm_max_tokens": "llm.max_tokens",

	// Recommendation engine
	"recommend_first_tier_banks": "recommend.first_tier_banks",
	"recommend_min_score":        "recommend.min_score",
	"recommend_deposit_jitter":   "recommend.deposit_jitter",
	"recommend_display_penalty":  "recommend.display_penalty",
	"recommend_penalty_exempt":   "recommend.penalty_exempt",
	"recommend_limit":            "recommend.limit",
	"recommend_seed":             "recommend.seed",

	// Catalog listing
	"catalog_saving_banks":      "catalog.saving_banks",
	"catalog_default_page_size": "catalog.default_page_size",
	"catalog_max_page_size":     "catalog.max_page_size",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Security
	"jwt_secret":            "security.jwt_secret",
	"session_timeout":       "security.session_timeout",
	"admin_username":        "security.admin_username",
	"admin_password":        "security.admin_password",
	"bcrypt_cost":           "security.bcrypt_cost",
	"rate_limit_requests":   "security.rate_limit_reqs",
	"rate_limit_window":     "security.rate_limit_window",
	"disable_rate_limit":    "security.rate_limit_disabled",
	"cors_origins":          "security.cors_origins",
	"revocation_store_path": "security.revocation_store_path",
	"casbin_model_path":     "security.casbin_model_path",
	"casbin_policy_path":    "security.casbin_policy_path",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - FINLIFE_API_KEY -> finlife.api_key
//   - OPENAI_API_KEY -> llm.api_key
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
//
// Unmapped keys return "" so unrelated environment variables are ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
