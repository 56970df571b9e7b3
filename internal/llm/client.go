// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/metrics"
	"github.com/tomtom215/finpick/internal/resilience"
)

var (
	// ErrDisabled is returned by Disabled.
	ErrDisabled = errors.New("llm disabled: no API key configured")

	// ErrUpstream wraps transport, status, and payload failures.
	ErrUpstream = errors.New("llm upstream error")
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 20 * time.Second
	maxErrorBody   = 4 * 1024
)

// ChatRequest is a single system + user prompt exchange.
type ChatRequest struct {
	System    string
	User      string
	JSON      bool // request response_format json_object
	MaxTokens int  // 0 leaves the server default
}

// Completer returns the assistant message for a prompt.
type Completer interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Disabled is the Completer used when no API key is set.
type Disabled struct{}

// Complete always returns ErrDisabled.
func (Disabled) Complete(context.Context, ChatRequest) (string, error) {
	return "", ErrDisabled
}

// FromConfig returns a Client, or Disabled when cfg has no API key.
func FromConfig(cfg *config.LLMConfig) Completer {
	if cfg == nil || strings.TrimSpace(cfg.APIKey) == "" {
		return Disabled{}
	}
	return New(cfg)
}

// Client calls POST {base}/chat/completions.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	cb      *resilience.Breaker[string]
}

// New creates a client. Zero-valued model and timeout fall back to defaults.
func New(cfg *config.LLMConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		cb:      resilience.New[string]("llm-api", resilience.Settings{}),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends req and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (string, error) {
	out, err := c.cb.Execute(func() (string, error) {
		return c.complete(ctx, req)
	})
	if err != nil && resilience.IsOpen(err) {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return out, err
}

func (c *Client) complete(ctx context.Context, req ChatRequest) (content string, err error) {
	start := time.Now()
	defer func() { metrics.RecordUpstreamRequest("llm", time.Since(start), err) }()

	body := chatCompletionRequest{
		Model:     c.model,
		MaxTokens: req.MaxTokens,
	}
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.User})
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // diagnostics only
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrUpstream, err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrUpstream, decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUpstream)
	}
	return decoded.Choices[0].Message.Content, nil
}
