// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/finpick/internal/auth"
	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/exchange"
	"github.com/tomtom215/finpick/internal/ledger"
	"github.com/tomtom215/finpick/internal/llm"
	"github.com/tomtom215/finpick/internal/models"
	"github.com/tomtom215/finpick/internal/questionnaire"
	"github.com/tomtom215/finpick/internal/resilience"
	syncpkg "github.com/tomtom215/finpick/internal/sync"
	"github.com/tomtom215/finpick/internal/validation"
)

// User-facing messages.
const (
	msgUnauthorized       = "인증이 필요합니다."
	msgForbidden          = "권한이 없습니다."
	msgInvalidCredentials = "잘못된 인증 정보입니다."
	msgUnknownProduct     = "존재하지 않는 상품입니다."
	msgAlreadyWishlisted  = "이미 찜한 상품입니다."
	msgInvalidAnswer      = "유효하지 않은 선택지입니다."
	msgNoPreference       = "투자 성향 정보가 없습니다."
	msgInvalidBody        = "Invalid request body"
	msgNotFound           = "Resource not found"
	msgConflict           = "Resource already exists"
	msgSyncInProgress     = "Sync already in progress"
	msgUpstream           = "External service unavailable"
	msgBreakerOpen        = "External service temporarily unavailable"
	msgTimeout            = "Request timed out"
	msgInternal           = "Internal server error"
	msgRateLimited        = "Too many requests"
	msgMethodNotAllowed   = "Method not allowed"
)

type mappedError struct {
	status   int
	apiError *models.APIError
}

func mapped(status int, code, message string) mappedError {
	return mappedError{status: status, apiError: &models.APIError{Code: code, Message: message}}
}

// classifyError maps package sentinels to HTTP status and error code.
// The order matters where sentinels overlap: an open breaker is reported as
// 503 even though the client wraps it as an upstream failure.
func classifyError(err error) mappedError {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		return mappedError{status: http.StatusBadRequest, apiError: verr.ToAPIError()}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return mapped(http.StatusBadRequest, ErrCodeBadRequest, msgInvalidCredentials)
	case errors.Is(err, questionnaire.ErrInvalidAnswer):
		return mapped(http.StatusBadRequest, ErrCodeBadRequest, msgInvalidAnswer)

	case errors.Is(err, syncpkg.ErrSyncInProgress):
		return mapped(http.StatusConflict, ErrCodeSyncInProgress, msgSyncInProgress)
	case errors.Is(err, ledger.ErrAlreadyWishlisted):
		return mapped(http.StatusConflict, ErrCodeConflict, msgAlreadyWishlisted)
	case errors.Is(err, database.ErrConflict):
		return mapped(http.StatusConflict, ErrCodeConflict, msgConflict)

	case errors.Is(err, exchange.ErrNoData), errors.Is(err, database.ErrNotFound):
		return mapped(http.StatusNotFound, ErrCodeNotFound, msgNotFound)

	case resilience.IsOpen(err):
		return mapped(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, msgBreakerOpen)
	case errors.Is(err, syncpkg.ErrUpstream),
		errors.Is(err, exchange.ErrUpstream),
		errors.Is(err, exchange.ErrNoRates),
		errors.Is(err, llm.ErrUpstream):
		return mapped(http.StatusBadGateway, ErrCodeUpstream, msgUpstream)
	case errors.Is(err, context.DeadlineExceeded):
		return mapped(http.StatusGatewayTimeout, ErrCodeGatewayTimeout, msgTimeout)

	default:
		return mapped(http.StatusInternalServerError, ErrCodeInternalError, msgInternal)
	}
}
