// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentPurpose is the declared reason for saving.
type InvestmentPurpose string

const (
	PurposeInvestment InvestmentPurpose = "investment"
	PurposeSaving     InvestmentPurpose = "saving"
	PurposeOther      InvestmentPurpose = "other"
)

// Preference is a user's declared investment profile.
// RiskTolerance is recomputed from questionnaire answers and stays in [0, 1].
type Preference struct {
	ID                int64             `json:"id"`
	UserID            int64             `json:"user_id"`
	InvestmentPurpose InvestmentPurpose `json:"investment_purpose"`
	InvestmentPeriod  int               `json:"investment_period"`
	InvestmentAmount  decimal.Decimal   `json:"investment_amount"`
	RiskTolerance     float64           `json:"risk_tolerance"`
	CreatedAt         time.Time         `json:"created_at"`
}

// PreferenceRequest is the body of POST /api/v1/preferences.
type PreferenceRequest struct {
	InvestmentPurpose string          `json:"investment_purpose" validate:"required,oneof=investment saving other"`
	InvestmentPeriod  int             `json:"investment_period" validate:"required,oneof=6 12 24 36"`
	InvestmentAmount  decimal.Decimal `json:"investment_amount"`
}

// QuestionType groups questions for risk-tolerance weighting.
type QuestionType string

const (
	QuestionTypeRisk       QuestionType = "risk"
	QuestionTypeGoal       QuestionType = "goal"
	QuestionTypeExperience QuestionType = "experience"
	QuestionTypePreference QuestionType = "preference"
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeRisk, QuestionTypeGoal, QuestionTypeExperience, QuestionTypePreference:
		return true
	}
	return false
}

// QuestionOption is one selectable answer. Value is an ordinal "1".."5".
type QuestionOption struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Validate checks the option shape at the boundary.
func (o QuestionOption) Validate() error {
	if strings.TrimSpace(o.Text) == "" {
		return fmt.Errorf("option text is empty")
	}
	n, err := strconv.Atoi(strings.TrimSpace(o.Value))
	if err != nil || n < 1 || n > 5 {
		return fmt.Errorf("option value %q is not an ordinal between 1 and 5", o.Value)
	}
	return nil
}

// DynamicQuestion is a questionnaire item attached to a preference.
type DynamicQuestion struct {
	ID           int64            `json:"id"`
	PreferenceID int64            `json:"preference_id"`
	QuestionText string           `json:"question_text"`
	QuestionType QuestionType     `json:"question_type"`
	Options      []QuestionOption `json:"options"`
	DisplayOrder int              `json:"order"`
	CreatedAt    time.Time        `json:"created_at"`
}

// DynamicAnswer is a user's selection for one question.
type DynamicAnswer struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	QuestionID     int64     `json:"question_id"`
	PreferenceID   int64     `json:"preference_id"`
	SelectedOption string    `json:"selected_option"`
	AdditionalInfo string    `json:"additional_info,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AnswerRequest is the body of POST /api/v1/questions/{id}/answers.
type AnswerRequest struct {
	PreferenceID   int64  `json:"preference_id" validate:"required,gt=0"`
	SelectedOption string `json:"selected_option" validate:"required,max=20"`
	AdditionalInfo string `json:"additional_info" validate:"max=1000"`
}

// AnswerResult is returned after an answer is stored.
type AnswerResult struct {
	Answer      DynamicAnswer `json:"answer"`
	IsCompleted bool          `json:"is_completed"`
}

// TypedAnswer pairs a selected option with the type of its question.
type TypedAnswer struct {
	QuestionType   QuestionType `json:"question_type"`
	SelectedOption string       `json:"selected_option"`
}
