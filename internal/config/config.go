// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Upstream APIs:
//     - Finlife: FSS deposit/saving product catalog (sync source)
//     - Exchange: Korea Eximbank daily exchange rates
//     - LLM: OpenAI-compatible chat completions for questions and explanations
//
//  2. Infrastructure:
//     - Database: DuckDB configuration (path, memory, threads)
//     - Server: HTTP server configuration (port, host, timeout)
//
//  3. Domain:
//     - Recommend: Scoring engine and assembler tuning
//     - Catalog: Product listing filters and paging
//
//  4. Security and Observability:
//     - Security: JWT, admin seed, rate limiting, CORS, token revocation store
//     - Logging: Log levels and output formats
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	db, err := database.New(&cfg.Database)
type Config struct {
	Finlife   FinlifeConfig   `koanf:"finlife"`
	Exchange  ExchangeConfig  `koanf:"exchange"`
	LLM       LLMConfig       `koanf:"llm"`
	Recommend RecommendConfig `koanf:"recommend"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// FinlifeConfig holds settings for the FSS finlife open API.
//
// Environment Variables:
//   - FINLIFE_API_KEY: API auth key issued by finlife.fss.or.kr
//   - FINLIFE_URL: API base URL (default: http://finlife.fss.or.kr/finlifeapi)
//   - FINLIFE_GROUP_CODES: Comma-separated topFinGrpNo values (default: 020000,030300)
//   - FINLIFE_SYNC_INTERVAL: Scheduled catalog sync interval (default: 0, disabled)
type FinlifeConfig struct {
	BaseURL           string        `koanf:"url"`
	APIKey            string        `koanf:"api_key"`
	GroupCodes        []string      `koanf:"group_codes"`
	CompanyGroupCode  string        `koanf:"company_group_code"` // topFinGrpNo used for bank directory sync
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"` // Outbound pacing, 0 = unlimited
	SyncInterval      time.Duration `koanf:"sync_interval"`
}

// ExchangeConfig holds settings for the Korea Eximbank exchange-rate API.
type ExchangeConfig struct {
	BaseURL        string        `koanf:"url"`
	APIKey         string        `koanf:"api_key"`
	Timeout        time.Duration `koanf:"timeout"`
	LookbackDays   int           `koanf:"lookback_days"` // Calendar days walked back to find a published day
	CacheTTL       time.Duration `koanf:"cache_ttl"`
	RecordInterval time.Duration `koanf:"record_interval"` // Scheduled history capture, 0 = on-demand only
}

// LLMConfig holds settings for the OpenAI-compatible chat completions API.
// When APIKey is empty the LLM is disabled and every caller uses its fallback.
type LLMConfig struct {
	BaseURL   string        `koanf:"url"`
	APIKey    string        `koanf:"api_key"`
	Model     string        `koanf:"model"`
	Timeout   time.Duration `koanf:"timeout"`
	MaxTokens int           `koanf:"max_tokens"` // Explanation completion cap
}

// RecommendConfig tunes the scoring engine and recommendation assembler.
//
// FirstTierBanks is the allow-list used for the stability component. Names are
// compared with all whitespace removed.
type RecommendConfig struct {
	FirstTierBanks []string `koanf:"first_tier_banks"`
	MinScore       float64  `koanf:"min_score"`       // Products must score strictly above this
	DepositJitter  float64  `koanf:"deposit_jitter"`  // Uniform jitter half-width applied to deposit scores
	DisplayPenalty float64  `koanf:"display_penalty"` // Multiplier applied to ranks beyond PenaltyExempt
	PenaltyExempt  int      `koanf:"penalty_exempt"`  // Number of leading ranks spared from the penalty
	Limit          int      `koanf:"limit"`
	Seed           int64    `koanf:"seed"` // 0 = time seeded
}

// CatalogConfig holds product listing settings.
type CatalogConfig struct {
	SavingBanks     []string `koanf:"saving_banks"`
	DefaultPageSize int      `koanf:"default_page_size"`
	MaxPageSize     int      `koanf:"max_page_size"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // Number of DuckDB threads (0 = use NumCPU)
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production"
}

// Addr is the host:port listen address.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SecurityConfig holds authentication and authorization settings
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	AdminUsername     string        `koanf:"admin_username"`
	AdminPassword     string        `koanf:"admin_password"`
	BcryptCost        int           `koanf:"bcrypt_cost"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// RevocationStorePath is the BadgerDB directory for revoked token IDs.
	// Empty keeps revocations in memory (lost on restart).
	RevocationStorePath string `koanf:"revocation_store_path"`

	// CasbinModelPath and CasbinPolicyPath override the embedded RBAC model and policy.
	CasbinModelPath  string `koanf:"casbin_model_path"`
	CasbinPolicyPath string `koanf:"casbin_policy_path"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration using layered Koanf sources and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
