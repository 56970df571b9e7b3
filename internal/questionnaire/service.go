// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/llm"
	"github.com/tomtom215/finpick/internal/logging"
	"github.com/tomtom215/finpick/internal/metrics"
	"github.com/tomtom215/finpick/internal/models"
	"github.com/tomtom215/finpick/internal/recommend"
)

// ErrInvalidAnswer is returned when the selected option is not one of the
// question's option values.
var ErrInvalidAnswer = errors.New("selected option is not valid for this question")

// Store is the persistence the questionnaire needs. Implemented by *database.DB.
type Store interface {
	CreatePreference(ctx context.Context, p *models.Preference) error
	GetPreference(ctx context.Context, userID, id int64) (*models.Preference, error)
	UpdateRiskTolerance(ctx context.Context, preferenceID int64, risk float64) error
	CreateQuestions(ctx context.Context, preferenceID int64, qs []models.DynamicQuestion) error
	ListQuestions(ctx context.Context, preferenceID int64) ([]models.DynamicQuestion, error)
	GetQuestion(ctx context.Context, id int64) (*models.DynamicQuestion, error)
	CountQuestions(ctx context.Context, preferenceID int64) (int, error)
	SaveAnswer(ctx context.Context, a *models.DynamicAnswer) error
	TypedAnswers(ctx context.Context, userID, preferenceID int64) ([]models.TypedAnswer, error)
}

// Service implements the preference and question flow.
type Service struct {
	store     Store
	completer llm.Completer

	// Question generation is single-flighted per preference id.
	generating singleflight.Group
}

// NewService creates a questionnaire service. A nil completer behaves like llm.Disabled.
func NewService(store Store, completer llm.Completer) *Service {
	if completer == nil {
		completer = llm.Disabled{}
	}
	return &Service{store: store, completer: completer}
}

// CreatePreference stores a new preference for userID.
func (s *Service) CreatePreference(ctx context.Context, userID int64, req *models.PreferenceRequest) (*models.Preference, error) {
	p := &models.Preference{
		UserID:            userID,
		InvestmentPurpose: models.InvestmentPurpose(req.InvestmentPurpose),
		InvestmentPeriod:  req.InvestmentPeriod,
		InvestmentAmount:  req.InvestmentAmount,
	}
	if err := s.store.CreatePreference(ctx, p); err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Int64("user_id", userID).Int64("preference_id", p.ID).Msg("Preference created")
	return p, nil
}

// Questions lists the questions of a preference owned by userID.
func (s *Service) Questions(ctx context.Context, userID, preferenceID int64) ([]models.DynamicQuestion, error) {
	if _, err := s.store.GetPreference(ctx, userID, preferenceID); err != nil {
		return nil, err
	}
	return s.store.ListQuestions(ctx, preferenceID)
}

// GenerateQuestions returns the preference's questions, creating them on
// first use. The LLM is asked first; any failure stores DefaultQuestions.
// Concurrent calls for the same preference share one generation.
func (s *Service) GenerateQuestions(ctx context.Context, userID, preferenceID int64) ([]models.DynamicQuestion, error) {
	pref, err := s.store.GetPreference(ctx, userID, preferenceID)
	if err != nil {
		return nil, err
	}

	v, err, _ := s.generating.Do(strconv.FormatInt(preferenceID, 10), func() (any, error) {
		return s.generateOnce(ctx, pref)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]models.DynamicQuestion)), nil
}

func (s *Service) generateOnce(ctx context.Context, pref *models.Preference) ([]models.DynamicQuestion, error) {
	existing, err := s.store.ListQuestions(ctx, pref.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	logger := logging.Ctx(ctx)
	questions, err := s.askLLM(ctx, pref)
	if err != nil {
		metrics.RecordLLMFallback("questions")
		logger.Warn().Err(err).Int64("preference_id", pref.ID).Msg("Question generation failed, using defaults")
		questions = DefaultQuestions()
	}

	if err := s.store.CreateQuestions(ctx, pref.ID, questions); err != nil {
		if errors.Is(err, database.ErrConflict) {
			// Another writer stored a set first.
			logger.Debug().Int64("preference_id", pref.ID).Msg("Question set already stored")
			return s.store.ListQuestions(ctx, pref.ID)
		}
		return nil, err
	}
	logger.Info().Int64("preference_id", pref.ID).Int("questions", len(questions)).Msg("Questions created")
	return questions, nil
}

// Answer stores the caller's answer and recomputes risk tolerance once every
// question of the preference has been answered.
func (s *Service) Answer(ctx context.Context, userID, questionID int64, req *models.AnswerRequest) (*models.AnswerResult, error) {
	pref, err := s.store.GetPreference(ctx, userID, req.PreferenceID)
	if err != nil {
		return nil, err
	}
	q, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.PreferenceID != pref.ID {
		return nil, fmt.Errorf("question %d of preference %d: %w", questionID, pref.ID, database.ErrNotFound)
	}

	selected := strings.TrimSpace(req.SelectedOption)
	if !hasOption(q.Options, selected) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAnswer, selected)
	}

	answer := &models.DynamicAnswer{
		UserID:         userID,
		QuestionID:     questionID,
		PreferenceID:   pref.ID,
		SelectedOption: selected,
		AdditionalInfo: req.AdditionalInfo,
	}
	if err := s.store.SaveAnswer(ctx, answer); err != nil {
		return nil, err
	}

	total, err := s.store.CountQuestions(ctx, pref.ID)
	if err != nil {
		return nil, err
	}
	answers, err := s.store.TypedAnswers(ctx, userID, pref.ID)
	if err != nil {
		return nil, err
	}

	completed := total > 0 && len(answers) >= total
	if completed {
		risk := recommend.RiskTolerance(answers)
		if err := s.store.UpdateRiskTolerance(ctx, pref.ID, risk); err != nil {
			return nil, err
		}
		logging.Ctx(ctx).Info().Int64("preference_id", pref.ID).Float64("risk_tolerance", risk).
			Msg("Risk tolerance updated")
	}

	return &models.AnswerResult{Answer: *answer, IsCompleted: completed}, nil
}

func hasOption(options []models.QuestionOption, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}
