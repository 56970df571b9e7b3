// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package questionnaire

import "github.com/tomtom215/finpick/internal/models"

func scale(labels ...string) []models.QuestionOption {
	out := make([]models.QuestionOption, len(labels))
	for i, l := range labels {
		out[i] = models.QuestionOption{Text: l, Value: string(rune('1' + i))}
	}
	return out
}

// DefaultQuestions returns the fallback question set. Every call returns a
// fresh slice so callers may fill in ids.
func DefaultQuestions() []models.DynamicQuestion {
	qs := []models.DynamicQuestion{
		{
			QuestionText: "귀하의 투자 위험 감수 성향은 어떠신가요?",
			QuestionType: models.QuestionTypeRisk,
			Options:      scale("매우 보수적", "보수적", "중립적", "공격적", "매우 공격적"),
		},
		{
			QuestionText: "금리가 조금 낮더라도 규모가 큰 은행의 상품을 선호하시나요?",
			QuestionType: models.QuestionTypeRisk,
			Options:      scale("매우 그렇다", "그렇다", "보통이다", "아니다", "전혀 아니다"),
		},
		{
			QuestionText: "우대금리를 받기 위해 카드 실적이나 자동이체 같은 조건을 채울 의향이 있으신가요?",
			QuestionType: models.QuestionTypePreference,
			Options:      scale("전혀 없다", "별로 없다", "보통이다", "어느 정도 있다", "적극적으로 채우겠다"),
		},
		{
			QuestionText: "만기 전에 돈을 찾아야 할 가능성은 어느 정도인가요?",
			QuestionType: models.QuestionTypePreference,
			Options:      scale("매우 높다", "높다", "보통이다", "낮다", "거의 없다"),
		},
		{
			QuestionText: "이번 저축의 주된 목표는 무엇인가요?",
			QuestionType: models.QuestionTypeGoal,
			Options:      scale("비상금 마련", "목돈 마련", "주택 마련", "노후 대비", "기타"),
		},
		{
			QuestionText: "투자 경험이 얼마나 되시나요?",
			QuestionType: models.QuestionTypeExperience,
			Options:      scale("경험 없음", "1년 미만", "1-3년", "3-5년", "5년 이상"),
		},
	}
	for i := range qs {
		qs[i].DisplayOrder = i + 1
	}
	return qs
}
