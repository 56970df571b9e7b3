// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package exchange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/metrics"
	"github.com/tomtom215/finpick/internal/models"
	"github.com/tomtom215/finpick/internal/resilience"
)

// RateSource returns the published rate table for one day.
// An empty slice means nothing was published that day.
type RateSource interface {
	DailyRates(ctx context.Context, day time.Time) ([]models.ExchangeRate, error)
}

// Koreaexim result codes.
const (
	resultOK          = 1
	resultBadDataCode = 2
	resultBadAuthKey  = 3
	resultDailyLimit  = 4
)

// rateItem is one row of the AP01 response. Numbers arrive as
// comma-formatted strings ("1,364.5").
type rateItem struct {
	Result   int    `json:"result"`
	CurUnit  string `json:"cur_unit"`
	CurNm    string `json:"cur_nm"`
	TTB      string `json:"ttb"`
	TTS      string `json:"tts"`
	DealBasR string `json:"deal_bas_r"`
	BkPr     string `json:"bkpr"`
}

// Client fetches daily tables from the Koreaexim exchangeJSON endpoint.
// Calls go through a circuit breaker; every error wraps ErrUpstream.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cb      *resilience.Breaker[[]models.ExchangeRate]
}

var _ RateSource = (*Client)(nil)

// NewClient creates a Koreaexim client from configuration.
func NewClient(cfg *config.ExchangeConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		cb:      resilience.New[[]models.ExchangeRate]("koreaexim-api", resilience.Settings{}),
	}
}

// DailyRates returns the AP01 table for day.
func (c *Client) DailyRates(ctx context.Context, day time.Time) ([]models.ExchangeRate, error) {
	rates, err := c.cb.Execute(func() ([]models.ExchangeRate, error) {
		return c.fetch(ctx, day)
	})
	if err != nil && resilience.IsOpen(err) {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return rates, err
}

func (c *Client) fetch(ctx context.Context, day time.Time) (rates []models.ExchangeRate, err error) {
	start := time.Now()
	defer func() { metrics.RecordUpstreamRequest("koreaexim", time.Since(start), err) }()

	params := url.Values{}
	params.Set("authkey", c.apiKey)
	params.Set("searchdate", day.Format("20060102"))
	params.Set("data", "AP01")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// *url.Error would print the authkey.
		if ue, ok := err.(*url.Error); ok { //nolint:errorlint // only the outer wrapper carries the URL
			err = ue.Err
		}
		return nil, fmt.Errorf("%w: request failed: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var items []rateItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrUpstream, err)
	}

	rates = make([]models.ExchangeRate, 0, len(items))
	for i := range items {
		item := &items[i]
		if item.Result != resultOK {
			return nil, fmt.Errorf("%w: %s", ErrUpstream, resultMessage(item.Result))
		}
		rate, err := item.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUpstream, item.CurUnit, err)
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

func resultMessage(code int) string {
	switch code {
	case resultBadDataCode:
		return "invalid data code"
	case resultBadAuthKey:
		return "invalid auth key"
	case resultDailyLimit:
		return "daily request limit exceeded"
	default:
		return fmt.Sprintf("result code %d", code)
	}
}

func (r *rateItem) toModel() (models.ExchangeRate, error) {
	out := models.ExchangeRate{CurUnit: strings.TrimSpace(r.CurUnit), CurNm: r.CurNm}
	fields := []struct {
		dst *decimal.Decimal
		raw string
	}{
		{&out.TTB, r.TTB},
		{&out.TTS, r.TTS},
		{&out.DealBasR, r.DealBasR},
		{&out.BkPr, r.BkPr},
	}
	for _, f := range fields {
		v, err := ParseAmount(f.raw)
		if err != nil {
			return out, err
		}
		*f.dst = v
	}
	return out, nil
}

// ParseAmount parses a comma-formatted number. Empty input is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}
