// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Rate limit bounds
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateUpstreams(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateCatalog(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

// validateUpstreams checks base URLs and timeouts for the outbound clients.
// API keys are optional: a missing key disables the feature at request time.
func (c *Config) validateUpstreams() error {
	checks := []struct {
		name    string
		rawURL  string
		timeout time.Duration
	}{
		{"FINLIFE_URL", c.Finlife.BaseURL, c.Finlife.Timeout},
		{"EXCHANGE_URL", c.Exchange.BaseURL, c.Exchange.Timeout},
		{"LLM_URL", c.LLM.BaseURL, c.LLM.Timeout},
	}
	for _, chk := range checks {
		if err := validateHTTPURL(chk.name, chk.rawURL); err != nil {
			return err
		}
		if chk.timeout <= 0 {
			return fmt.Errorf("%s requires a positive timeout", chk.name)
		}
	}

	if len(c.Finlife.GroupCodes) == 0 {
		return fmt.Errorf("FINLIFE_GROUP_CODES must list at least one group code")
	}
	if c.Finlife.RequestsPerSecond < 0 {
		return fmt.Errorf("FINLIFE_REQUESTS_PER_SECOND must not be negative")
	}
	if c.Finlife.SyncInterval < 0 {
		return fmt.Errorf("FINLIFE_SYNC_INTERVAL must not be negative")
	}
	if c.Exchange.RecordInterval < 0 {
		return fmt.Errorf("EXCHANGE_RECORD_INTERVAL must not be negative")
	}
	if c.Exchange.LookbackDays < 1 || c.Exchange.LookbackDays > 31 {
		return fmt.Errorf("EXCHANGE_LOOKBACK_DAYS must be between 1 and 31")
	}
	return nil
}

func validateHTTPURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme", name)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MinScore < 0 || r.MinScore >= 1 {
		return fmt.Errorf("RECOMMEND_MIN_SCORE must be in [0, 1)")
	}
	if r.DepositJitter < 0 || r.DepositJitter > 0.5 {
		return fmt.Errorf("RECOMMEND_DEPOSIT_JITTER must be in [0, 0.5]")
	}
	if r.DisplayPenalty <= 0 || r.DisplayPenalty > 1 {
		return fmt.Errorf("RECOMMEND_DISPLAY_PENALTY must be in (0, 1]")
	}
	if r.PenaltyExempt < 0 {
		return fmt.Errorf("RECOMMEND_PENALTY_EXEMPT must not be negative")
	}
	if r.Limit < 1 {
		return fmt.Errorf("RECOMMEND_LIMIT must be at least 1")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.DefaultPageSize < 1 {
		return fmt.Errorf("CATALOG_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.Catalog.MaxPageSize < c.Catalog.DefaultPageSize {
		return fmt.Errorf("CATALOG_MAX_PAGE_SIZE must be >= CATALOG_DEFAULT_PAGE_SIZE")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateJWTSecret(); err != nil {
		return err
	}

	if err := c.validateAdminCredentials(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}

	return c.validateRateLimits()
}

// validateJWTSecret validates the JWT secret configuration
func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

// validateAdminCredentials validates the optional admin seed account.
// Both values must be set together.
func (c *Config) validateAdminCredentials() error {
	u, p := c.Security.AdminUsername, c.Security.AdminPassword
	if u == "" && p == "" {
		return nil
	}
	if u == "" || p == "" {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	if len(p) < 8 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}
	if containsPlaceholder(p) {
		return fmt.Errorf("ADMIN_PASSWORD contains a placeholder value")
	}
	return nil
}

// validateCORS rejects wildcard origins in production.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production. " +
			"Set specific origins: CORS_ORIGINS=https://yourdomain.com")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"YOUR_PASSWORD",
	"PLACEHOLDER",
	"EXAMPLE",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
