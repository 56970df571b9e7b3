// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package sync

import (
	"context"
	"fmt"

	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/models"
	"github.com/tomtom215/finpick/internal/resilience"
)

// Ensure CircuitBreakerClient implements FinlifeClientInterface
var _ FinlifeClientInterface = (*CircuitBreakerClient)(nil)

// CircuitBreakerClient wraps FinlifeClient with a circuit breaker.
// Breaker settings: 3 half-open probes, 1m window, 2m open timeout,
// opens at 60% failures over at least 10 requests.
type CircuitBreakerClient struct {
	client FinlifeClientInterface
	cb     *resilience.Breaker[any]
}

// NewCircuitBreakerClient creates a finlife client protected by a circuit breaker.
func NewCircuitBreakerClient(cfg *config.FinlifeConfig) *CircuitBreakerClient {
	return WrapWithCircuitBreaker(NewFinlifeClient(cfg))
}

// WrapWithCircuitBreaker protects an existing client.
func WrapWithCircuitBreaker(client FinlifeClientInterface) *CircuitBreakerClient {
	return &CircuitBreakerClient{
		client: client,
		cb:     resilience.New[any]("finlife-api", resilience.Settings{}),
	}
}

// castResult type-asserts a breaker result. An open breaker is reported as ErrUpstream.
func castResult[T any](result any, err error) (*T, error) {
	if err != nil {
		if resilience.IsOpen(err) {
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// GetProducts fetches a product page with circuit breaker protection.
func (c *CircuitBreakerClient) GetProducts(ctx context.Context, kind models.ProductKind, groupCode string, page int) (*ProductPage, error) {
	return castResult[ProductPage](c.cb.Execute(func() (any, error) {
		return c.client.GetProducts(ctx, kind, groupCode, page)
	}))
}

// GetCompanies fetches a company page with circuit breaker protection.
func (c *CircuitBreakerClient) GetCompanies(ctx context.Context, groupCode string, page int) (*CompanyPage, error) {
	return castResult[CompanyPage](c.cb.Execute(func() (any, error) {
		return c.client.GetCompanies(ctx, groupCode, page)
	}))
}
