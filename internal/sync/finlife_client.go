// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package sync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/metrics"
	"github.com/tomtom215/finpick/internal/models"
)

// maxErrorBodySize limits how much of an error response is read for logging.
const maxErrorBodySize = 4 * 1024

// readBodyForError reads at most maxErrorBodySize bytes of r for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}

// FinlifeClientInterface is the subset of the finlife API the synchronizer uses.
// Implemented by FinlifeClient and CircuitBreakerClient.
type FinlifeClientInterface interface {
	GetProducts(ctx context.Context, kind models.ProductKind, groupCode string, page int) (*ProductPage, error)
	GetCompanies(ctx context.Context, groupCode string, page int) (*CompanyPage, error)
}

// FinlifeClient talks to the FSS finlife open API.
//
// Requests are paced by a token bucket (FinlifeConfig.RequestsPerSecond) and
// are never retried. Every error it returns wraps ErrUpstream.
type FinlifeClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewFinlifeClient creates a client from configuration.
func NewFinlifeClient(cfg *config.FinlifeConfig) *FinlifeClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &FinlifeClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// GetProducts fetches one page of deposit or savings products for a group code.
func (c *FinlifeClient) GetProducts(ctx context.Context, kind models.ProductKind, groupCode string, page int) (*ProductPage, error) {
	var resp FinlifeResponse[ProductBase, ProductOptionItem]
	if err := c.get(ctx, kind.Endpoint(), groupCode, page, &resp); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

// GetCompanies fetches one page of the company directory for a group code.
func (c *FinlifeClient) GetCompanies(ctx context.Context, groupCode string, page int) (*CompanyPage, error) {
	var resp FinlifeResponse[CompanyBase, json.RawMessage]
	if err := c.get(ctx, "companySearch.json", groupCode, page, &resp); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

// vendorResult lets get validate err_cd without knowing the page type.
type vendorResult interface {
	errCode() (code, msg string)
}

func (r *FinlifeResponse[B, O]) errCode() (code, msg string) {
	return r.Result.ErrCd, r.Result.ErrMsg
}

func (c *FinlifeClient) get(ctx context.Context, endpoint, groupCode string, page int, out vendorResult) (err error) {
	start := time.Now()
	defer func() { metrics.RecordUpstreamRequest("finlife", time.Since(start), err) }()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: rate limiter: %v", ErrUpstream, endpoint, err)
	}

	params := url.Values{}
	params.Set("auth", c.apiKey)
	params.Set("topFinGrpNo", groupCode)
	params.Set("pageNo", strconv.Itoa(page))
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s request: %v", ErrUpstream, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// The URL carries the auth key; report only the endpoint.
		return fmt.Errorf("%w: %s request failed: %v", ErrUpstream, endpoint, unwrapURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return fmt.Errorf("%w: %s returned status %d: %s", ErrUpstream, endpoint, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %v", ErrUpstream, endpoint, err)
	}

	if code, msg := out.errCode(); code != finlifeOK {
		return fmt.Errorf("%w: %s err_cd %q: %s", ErrUpstream, endpoint, code, msg)
	}
	return nil
}

// unwrapURLError drops the *url.Error wrapper so the request URL is not logged.
func unwrapURLError(err error) error {
	if ue, ok := err.(*url.Error); ok { //nolint:errorlint // only the outer wrapper carries the URL
		return ue.Err
	}
	return err
}
