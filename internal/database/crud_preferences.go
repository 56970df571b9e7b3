// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/finpick/internal/models"
)

const preferenceColumns = `id, user_id, investment_purpose, investment_period,
	CAST(investment_amount AS VARCHAR), risk_tolerance, created_at`

// CreatePreference stores a new preference and fills in its id and created_at.
func (db *DB) CreatePreference(ctx context.Context, p *models.Preference) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err := db.conn.QueryRowContext(ctx, `INSERT INTO user_preferences (
			user_id, investment_purpose, investment_period, investment_amount, risk_tolerance
		) VALUES (?, ?, ?, ?::DECIMAL(15,2), ?) RETURNING id, created_at`,
		p.UserID, string(p.InvestmentPurpose), p.InvestmentPeriod, p.InvestmentAmount.StringFixed(2), p.RiskTolerance,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create preference: %w", err)
	}
	return nil
}

// GetPreference returns a preference owned by userID.
func (db *DB) GetPreference(ctx context.Context, userID, id int64) (*models.Preference, error) {
	return db.queryPreference(ctx,
		`SELECT `+preferenceColumns+` FROM user_preferences WHERE id = ? AND user_id = ?`, id, userID)
}

// LatestPreference returns the user's most recent preference.
func (db *DB) LatestPreference(ctx context.Context, userID int64) (*models.Preference, error) {
	return db.queryPreference(ctx,
		`SELECT `+preferenceColumns+` FROM user_preferences WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`, userID)
}

func (db *DB) queryPreference(ctx context.Context, query string, args ...any) (*models.Preference, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var p models.Preference
	var purpose string
	err := db.conn.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.UserID, &purpose, &p.InvestmentPeriod, &p.InvestmentAmount, &p.RiskTolerance, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("preference: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}
	p.InvestmentPurpose = models.InvestmentPurpose(purpose)
	return &p, nil
}

// UpdateRiskTolerance stores a recomputed risk tolerance on a preference.
func (db *DB) UpdateRiskTolerance(ctx context.Context, preferenceID int64, risk float64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `UPDATE user_preferences SET risk_tolerance = ? WHERE id = ?`, risk, preferenceID)
	if err != nil {
		return fmt.Errorf("failed to update risk tolerance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("preference %d: %w", preferenceID, ErrNotFound)
	}
	return nil
}

// CreateQuestions stores a question set for a preference in one transaction.
// Ids and timestamps are written back into qs. A preference that already has
// a question in one of the display slots yields ErrConflict.
func (db *DB) CreateQuestions(ctx context.Context, preferenceID int64, qs []models.DynamicQuestion) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		for i := range qs {
			q := &qs[i]
			q.PreferenceID = preferenceID
			opts, err := json.Marshal(q.Options)
			if err != nil {
				return fmt.Errorf("failed to encode question options: %w", err)
			}
			err = tx.QueryRowContext(ctx, `INSERT INTO dynamic_questions (
					preference_id, question_text, question_type, options, display_order
				) VALUES (?, ?, ?, ?, ?) RETURNING id, created_at`,
				preferenceID, q.QuestionText, string(q.QuestionType), string(opts), q.DisplayOrder,
			).Scan(&q.ID, &q.CreatedAt)
			if err != nil {
				return mapWriteError(fmt.Errorf("failed to insert question %d: %w", i, err))
			}
		}
		return nil
	})
}

const questionColumns = `id, preference_id, question_text, question_type, options, display_order, created_at`

// ListQuestions returns the questions of a preference in display order.
func (db *DB) ListQuestions(ctx context.Context, preferenceID int64) ([]models.DynamicQuestion, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+questionColumns+` FROM dynamic_questions WHERE preference_id = ? ORDER BY display_order, created_at, id`,
		preferenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]models.DynamicQuestion, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// GetQuestion returns one question.
func (db *DB) GetQuestion(ctx context.Context, id int64) (*models.DynamicQuestion, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	q, err := scanQuestion(db.conn.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM dynamic_questions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("question %d: %w", id, ErrNotFound)
	}
	return q, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*models.DynamicQuestion, error) {
	var q models.DynamicQuestion
	var qtype, opts string
	if err := row.Scan(&q.ID, &q.PreferenceID, &q.QuestionText, &qtype, &opts, &q.DisplayOrder, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan question: %w", err)
	}
	q.QuestionType = models.QuestionType(qtype)
	if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
		return nil, fmt.Errorf("failed to decode options of question %d: %w", q.ID, err)
	}
	return &q, nil
}

// SaveAnswer inserts the user's answer or replaces the previous selection.
func (db *DB) SaveAnswer(ctx context.Context, a *models.DynamicAnswer) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM dynamic_answers WHERE user_id = ? AND question_id = ?`, a.UserID, a.QuestionID).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			err = tx.QueryRowContext(ctx, `INSERT INTO dynamic_answers (
					user_id, question_id, preference_id, selected_option, additional_info
				) VALUES (?, ?, ?, ?, ?) RETURNING id, created_at`,
				a.UserID, a.QuestionID, a.PreferenceID, a.SelectedOption, a.AdditionalInfo,
			).Scan(&a.ID, &a.CreatedAt)
			if err != nil {
				return mapWriteError(fmt.Errorf("failed to insert answer: %w", err))
			}
			return nil
		case err != nil:
			return fmt.Errorf("failed to look up answer: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE dynamic_answers SET preference_id = ?, selected_option = ?, additional_info = ? WHERE id = ?`,
			a.PreferenceID, a.SelectedOption, a.AdditionalInfo, id); err != nil {
			return mapWriteError(fmt.Errorf("failed to update answer: %w", err))
		}
		a.ID = id
		return tx.QueryRowContext(ctx, `SELECT created_at FROM dynamic_answers WHERE id = ?`, id).Scan(&a.CreatedAt)
	})
}

// CountQuestions returns how many questions a preference has.
func (db *DB) CountQuestions(ctx context.Context, preferenceID int64) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dynamic_questions WHERE preference_id = ?`, preferenceID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return n, nil
}

// TypedAnswers returns the user's answers to a preference's questions,
// each tagged with its question type.
func (db *DB) TypedAnswers(ctx context.Context, userID, preferenceID int64) ([]models.TypedAnswer, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT q.question_type, a.selected_option
		FROM dynamic_answers a
		JOIN dynamic_questions q ON q.id = a.question_id
		WHERE a.user_id = ? AND q.preference_id = ?
		ORDER BY q.display_order, q.id`, userID, preferenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	answers := make([]models.TypedAnswer, 0)
	for rows.Next() {
		var qt string
		var ta models.TypedAnswer
		if err := rows.Scan(&qt, &ta.SelectedOption); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		ta.QuestionType = models.QuestionType(qt)
		answers = append(answers, ta)
	}
	return answers, rows.Err()
}
