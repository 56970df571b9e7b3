// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/finpick/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() returned nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

func validSignup() models.SignupRequest {
	return models.SignupRequest{
		Username:  "saver01",
		Password1: "correct-horse",
		Password2: "correct-horse",
		Nickname:  "saver",
		Email:     "saver@example.com",
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"signup", func() interface{} { r := validSignup(); return &r }()},
		{"signup without email", func() interface{} { r := validSignup(); r.Email = ""; return &r }()},
		{"login", &models.LoginRequest{Username: "saver01", Password: "x"}},
		{"preference", &models.PreferenceRequest{InvestmentPurpose: "saving", InvestmentPeriod: 12}},
		{"subscribe", &models.SubscribeRequest{ProductType: "deposit", FinPrdtCd: "WR0001B", OptionID: 3}},
		{"empty profile update", &models.ProfileUpdateRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() = %v, want nil", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{
			name:      "password mismatch",
			input:     func() interface{} { r := validSignup(); r.Password2 = "other"; return &r }(),
			wantField: "password2",
			wantTag:   "eqfield",
		},
		{
			name:      "username with symbols",
			input:     func() interface{} { r := validSignup(); r.Username = "saver!"; return &r }(),
			wantField: "username",
			wantTag:   "alphanum",
		},
		{
			name:      "short password",
			input:     func() interface{} { r := validSignup(); r.Password1, r.Password2 = "short", "short"; return &r }(),
			wantField: "password1",
			wantTag:   "min",
		},
		{
			name:      "bad email",
			input:     func() interface{} { r := validSignup(); r.Email = "not-an-email"; return &r }(),
			wantField: "email",
			wantTag:   "email",
		},
		{
			name:      "unknown period",
			input:     &models.PreferenceRequest{InvestmentPurpose: "saving", InvestmentPeriod: 7},
			wantField: "investment_period",
			wantTag:   "oneof",
		},
		{
			name:      "missing option",
			input:     &models.SubscribeRequest{ProductType: "saving", FinPrdtCd: "X"},
			wantField: "option_id",
			wantTag:   "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(tt.input)
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if len(verr.Fields) != 1 {
				t.Fatalf("got %d field errors (%v), want 1", len(verr.Fields), verr)
			}
			if fe := verr.Fields[0]; fe.Field != tt.wantField || fe.Tag != tt.wantTag {
				t.Errorf("field error = %s/%s, want %s/%s", fe.Field, fe.Tag, tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	r := validSignup()
	r.Password2 = "different"
	r.Nickname = ""

	apiErr := ValidateStruct(&r).ToAPIError()
	if apiErr.Code != CodeValidationError {
		t.Errorf("Code = %q, want %q", apiErr.Code, CodeValidationError)
	}
	if got := apiErr.Details["password2"]; got != "password2 must match password1" {
		t.Errorf("Details[password2] = %v", got)
	}
	if got := apiErr.Details["nickname"]; got != "nickname is required" {
		t.Errorf("Details[nickname] = %v", got)
	}
	if !strings.Contains(apiErr.Message, "; ") {
		t.Errorf("Message = %q, want both messages joined", apiErr.Message)
	}
}

func TestToAPIError_Empty(t *testing.T) {
	apiErr := (&RequestValidationError{}).ToAPIError()
	if apiErr.Message != "Validation failed" || apiErr.Details != nil {
		t.Errorf("ToAPIError() = %+v", apiErr)
	}
}

func TestErrorMessages(t *testing.T) {
	type sample struct {
		Title string `json:"title" validate:"max=5"`
		Count int    `json:"count" validate:"gte=2"`
		Note  string `json:"-" validate:"max=1"`
	}

	verr := ValidateStruct(&sample{Title: "toolong", Count: 1})
	if verr == nil {
		t.Fatal("expected errors")
	}

	want := map[string]string{
		"title": "title must be at most 5 characters",
		"count": "count must be greater than or equal to 2",
	}
	if len(verr.Fields) != len(want) {
		t.Fatalf("got %d field errors, want %d", len(verr.Fields), len(want))
	}
	for _, fe := range verr.Fields {
		if msg, ok := want[fe.Field]; !ok || msg != fe.Error() {
			t.Errorf("field %q: message %q", fe.Field, fe.Error())
		}
	}
}
