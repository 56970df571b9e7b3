// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/finpick/internal/auth"
	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/exchange"
	"github.com/tomtom215/finpick/internal/ledger"
	"github.com/tomtom215/finpick/internal/llm"
	"github.com/tomtom215/finpick/internal/questionnaire"
	syncpkg "github.com/tomtom215/finpick/internal/sync"
	"github.com/tomtom215/finpick/internal/validation"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	type signup struct {
		Username string `json:"username" validate:"required"`
	}
	verr := validation.ValidateStruct(&signup{})
	if verr == nil {
		t.Fatal("expected a validation error")
	}

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", verr, http.StatusBadRequest, ErrCodeValidationFailed, ""},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusBadRequest, ErrCodeBadRequest, msgInvalidCredentials},
		{"invalid answer", fmt.Errorf("%w: %q", questionnaire.ErrInvalidAnswer, "9"), http.StatusBadRequest, ErrCodeBadRequest, msgInvalidAnswer},
		{"sync running", fmt.Errorf("deposit: %w", syncpkg.ErrSyncInProgress), http.StatusConflict, ErrCodeSyncInProgress, msgSyncInProgress},
		{"wishlisted", ledger.ErrAlreadyWishlisted, http.StatusConflict, ErrCodeConflict, msgAlreadyWishlisted},
		{"conflict", fmt.Errorf("user: %w", database.ErrConflict), http.StatusConflict, ErrCodeConflict, msgConflict},
		{"not found", fmt.Errorf("article 3: %w", database.ErrNotFound), http.StatusNotFound, ErrCodeNotFound, msgNotFound},
		{"no chart data", exchange.ErrNoData, http.StatusNotFound, ErrCodeNotFound, msgNotFound},
		{"breaker open", fmt.Errorf("%w: %w", syncpkg.ErrUpstream, gobreaker.ErrOpenState), http.StatusServiceUnavailable, ErrCodeServiceUnavailable, msgBreakerOpen},
		{"finlife", fmt.Errorf("%w: status 500", syncpkg.ErrUpstream), http.StatusBadGateway, ErrCodeUpstream, msgUpstream},
		{"koreaexim", exchange.ErrUpstream, http.StatusBadGateway, ErrCodeUpstream, msgUpstream},
		{"no rates", exchange.ErrNoRates, http.StatusBadGateway, ErrCodeUpstream, msgUpstream},
		{"llm breaker open", fmt.Errorf("%w: %w", llm.ErrUpstream, gobreaker.ErrOpenState), http.StatusServiceUnavailable, ErrCodeServiceUnavailable, msgBreakerOpen},
		{"llm", llm.ErrUpstream, http.StatusBadGateway, ErrCodeUpstream, msgUpstream},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, ErrCodeGatewayTimeout, msgTimeout},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeInternalError, msgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := classifyError(tt.err)
			if got.status != tt.status {
				t.Errorf("status = %d, want %d", got.status, tt.status)
			}
			if got.apiError.Code != tt.code {
				t.Errorf("code = %q, want %q", got.apiError.Code, tt.code)
			}
			if tt.message != "" && got.apiError.Message != tt.message {
				t.Errorf("message = %q, want %q", got.apiError.Message, tt.message)
			}
		})
	}
}

func TestClassifyError_InternalTextNotLeaked(t *testing.T) {
	t.Parallel()

	got := classifyError(errors.New("dial tcp 10.0.0.7:5432: secret-host"))
	if got.apiError.Message != msgInternal {
		t.Errorf("message = %q, want generic %q", got.apiError.Message, msgInternal)
	}
}
