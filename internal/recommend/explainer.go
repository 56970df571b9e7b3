// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/finpick/internal/llm"
	"github.com/tomtom215/finpick/internal/models"
)

const explainSystemPrompt = `금융 상품 추천 이유를 설명하는 전문가입니다.
다음 점수와 사용자 정보를 바탕으로 이 상품이 추천된 이유를 설명해주세요.
- 안정성, 수익성, 접근성, 유연성 점수를 참고하세요
- 사용자의 투자 목적과 기간을 고려하세요
- 전문 용어는 피하고 이해하기 쉽게 설명하세요`

var purposeLabels = map[models.InvestmentPurpose]string{
	models.PurposeInvestment: "투자",
	models.PurposeSaving:     "저축",
	models.PurposeOther:      "기타",
}

// LLMExplainer asks a chat completion model for an explanation.
type LLMExplainer struct {
	completer llm.Completer
	maxTokens int
}

// NewLLMExplainer creates an explainer. maxTokens caps the completion length.
func NewLLMExplainer(completer llm.Completer, maxTokens int) *LLMExplainer {
	if maxTokens <= 0 {
		maxTokens = 200
	}
	return &LLMExplainer{completer: completer, maxTokens: maxTokens}
}

type explainPayload struct {
	Product  string                `json:"product"`
	Bank     string                `json:"bank"`
	MaxRate  float64               `json:"max_rate"`
	Scores   models.ScoreBreakdown `json:"scores"`
	UserInfo *explainUser          `json:"user_info,omitempty"`
}

type explainUser struct {
	Purpose       string  `json:"purpose"`
	Period        string  `json:"period"`
	Amount        string  `json:"amount"`
	RiskTolerance float64 `json:"risk_tolerance"`
}

// Explain implements Explainer.
func (e *LLMExplainer) Explain(ctx context.Context, rec *models.Recommendation, pref *models.Preference) (string, error) {
	payload := explainPayload{
		Product: rec.FinPrdtNm,
		Bank:    rec.KorCoNm,
		MaxRate: rec.MaxRate,
		Scores:  rec.Breakdown,
	}
	if pref != nil {
		payload.UserInfo = &explainUser{
			Purpose:       purposeLabels[pref.InvestmentPurpose],
			Period:        fmt.Sprintf("%d개월", pref.InvestmentPeriod),
			Amount:        pref.InvestmentAmount.StringFixed(0) + "원",
			RiskTolerance: pref.RiskTolerance,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode explanation prompt: %w", err)
	}

	text, err := e.completer.Complete(ctx, llm.ChatRequest{
		System:    explainSystemPrompt,
		User:      "다음 상품이 추천된 이유를 설명해주세요: " + string(body),
		MaxTokens: e.maxTokens,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
