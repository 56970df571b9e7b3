// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package questionnaire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/finpick/internal/llm"
	"github.com/tomtom215/finpick/internal/models"
)

const (
	generatedQuestions = 5
	minOptions         = 3
	maxOptions         = 5
)

var errInvalidPayload = errors.New("invalid question payload")

const questionSystemPrompt = `당신은 예금과 적금 상품 추천을 전문으로 하는 금융 상담사입니다.
다음 규칙을 반드시 따라 5개의 질문을 생성해주세요:

1. 모든 질문은 예금과 적금 상품 선택에만 관련되어야 합니다
2. 각 질문은 독립적이고 중복되지 않아야 합니다
3. 복잡한 금융 용어는 피하고 쉬운 단어를 사용하세요
4. 각 질문은 3-5개의 선택지를 가져야 하며 value는 "1"부터 순서대로 매깁니다

응답은 다음 JSON 형식을 따라주세요:
{"questions": [{"question": "질문 내용", "options": [{"text": "선택지1", "value": "1"}, {"text": "선택지2", "value": "2"}]}]}`

var purposeLabels = map[models.InvestmentPurpose]string{
	models.PurposeInvestment: "투자",
	models.PurposeSaving:     "저축",
	models.PurposeOther:      "기타",
}

type llmQuestions struct {
	Questions []struct {
		Question string `json:"question"`
		Options  []struct {
			Text  string          `json:"text"`
			Value json.RawMessage `json:"value"`
		} `json:"options"`
	} `json:"questions"`
}

func (s *Service) askLLM(ctx context.Context, pref *models.Preference) ([]models.DynamicQuestion, error) {
	user := fmt.Sprintf(`다음 사용자 정보를 참고하여 5개의 질문을 생성해주세요:
- 투자 목적: %s
- 투자 기간: %d개월
- 투자 금액: %s원

주의사항:
- 이미 수집된 위 정보와 비슷한 내용의 질문은 하지 마세요
- 예금과 적금 상품 추천에 필요한 새로운 정보를 얻기 위한 질문을 해주세요
- 특정 연령이나 자격 조건이 있어야 하는 내용은 제외해주세요`,
		purposeLabels[pref.InvestmentPurpose], pref.InvestmentPeriod, pref.InvestmentAmount.StringFixed(0))

	out, err := s.completer.Complete(ctx, llm.ChatRequest{
		System: questionSystemPrompt,
		User:   user,
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}
	return parseQuestions(out)
}

// parseQuestions validates an LLM payload. Option values may be strings or
// numbers. All generated questions are typed risk.
func parseQuestions(payload string) ([]models.DynamicQuestion, error) {
	var decoded llmQuestions
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	if len(decoded.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", errInvalidPayload)
	}
	if len(decoded.Questions) > generatedQuestions {
		decoded.Questions = decoded.Questions[:generatedQuestions]
	}

	questions := make([]models.DynamicQuestion, 0, len(decoded.Questions))
	for i, q := range decoded.Questions {
		text := strings.TrimSpace(q.Question)
		if text == "" {
			return nil, fmt.Errorf("%w: question %d is empty", errInvalidPayload, i)
		}
		if len(q.Options) < minOptions || len(q.Options) > maxOptions {
			return nil, fmt.Errorf("%w: question %d has %d options", errInvalidPayload, i, len(q.Options))
		}

		options := make([]models.QuestionOption, len(q.Options))
		for j, o := range q.Options {
			opt := models.QuestionOption{
				Text:  strings.TrimSpace(o.Text),
				Value: string(bytes.Trim(bytes.TrimSpace(o.Value), `"`)),
			}
			if err := opt.Validate(); err != nil {
				return nil, fmt.Errorf("%w: question %d: %v", errInvalidPayload, i, err)
			}
			options[j] = opt
		}

		questions = append(questions, models.DynamicQuestion{
			QuestionText: text,
			QuestionType: models.QuestionTypeRisk,
			Options:      options,
			DisplayOrder: i + 1,
		})
	}
	return questions, nil
}
