// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/logging"
	"github.com/tomtom215/finpick/internal/models"
)

// ErrAlreadyWishlisted is returned when a product is already on the user's wishlist.
var ErrAlreadyWishlisted = errors.New("product already in wishlist")

// Outcome describes what Subscribe did.
type Outcome string

const (
	OutcomeCreated     Outcome = "created"
	OutcomeActivated   Outcome = "activated"
	OutcomeDeactivated Outcome = "deactivated"
)

// Message returns the user-facing text for the outcome.
func (o Outcome) Message() string {
	if o == OutcomeDeactivated {
		return "상품 가입이 해지되었습니다."
	}
	return "상품 가입이 완료되었습니다."
}

// Store is the persistence the ledger needs. Implemented by *database.DB.
type Store interface {
	GetProduct(ctx context.Context, kind models.ProductKind, code string) (*models.Product, error)
	GetOption(ctx context.Context, id int64) (*models.ProductOption, error)

	FindSubscription(ctx context.Context, userID int64, kind models.ProductKind, code string, optionID int64) (*models.Subscription, error)
	InsertSubscription(ctx context.Context, s *models.Subscription) error
	SetSubscriptionActive(ctx context.Context, id int64, active bool) error
	ActiveSubscription(ctx context.Context, userID int64, kind models.ProductKind, code string, optionID int64) (*models.Subscription, error)
	DeactivateSubscriptions(ctx context.Context, userID int64, kind models.ProductKind, code string, optionID int64) (int64, error)
	ListActiveSubscriptions(ctx context.Context, userID int64, kind models.ProductKind) ([]models.SubscriptionDetail, error)

	AddWishlist(ctx context.Context, userID int64, kind models.ProductKind, code string) (int64, error)
	WishlistExists(ctx context.Context, userID int64, kind models.ProductKind, code string) (bool, error)
	RemoveWishlist(ctx context.Context, userID int64, kind models.ProductKind, code string) error
	ListWishlist(ctx context.Context, userID int64) ([]models.WishlistItem, error)
}

// Ledger implements subscription toggling and wishlist bookkeeping.
type Ledger struct {
	store Store
}

// New creates a ledger.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// SubscribeResult reports the outcome and the resulting row.
type SubscribeResult struct {
	Outcome      Outcome
	Subscription *models.Subscription
}

// Subscribe toggles the user's subscription to one option of a product.
// The option must belong to the product.
func (l *Ledger) Subscribe(ctx context.Context, userID int64, kind models.ProductKind, code string, optionID int64) (*SubscribeResult, error) {
	if _, err := l.store.GetProduct(ctx, kind, code); err != nil {
		return nil, err
	}
	opt, err := l.store.GetOption(ctx, optionID)
	if err != nil {
		return nil, err
	}
	if opt.Kind != kind || opt.FinPrdtCd != code {
		return nil, fmt.Errorf("option %d of %s/%s: %w", optionID, kind, code, database.ErrNotFound)
	}

	logger := logging.Ctx(ctx)
	existing, err := l.store.FindSubscription(ctx, userID, kind, code, optionID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		s := &models.Subscription{UserID: userID, Kind: kind, FinPrdtCd: code, OptionID: optionID}
		if err := l.store.InsertSubscription(ctx, s); err != nil {
			return nil, err
		}
		logger.Info().Int64("user_id", userID).Str("fin_prdt_cd", code).Int64("option_id", optionID).Msg("Subscription created")
		return &SubscribeResult{Outcome: OutcomeCreated, Subscription: s}, nil
	case err != nil:
		return nil, err
	}

	active := !existing.IsActive
	if err := l.store.SetSubscriptionActive(ctx, existing.ID, active); err != nil {
		return nil, err
	}
	existing.IsActive = active

	outcome := OutcomeDeactivated
	if active {
		outcome = OutcomeActivated
	}
	logger.Info().Int64("user_id", userID).Str("fin_prdt_cd", code).Str("outcome", string(outcome)).Msg("Subscription toggled")
	return &SubscribeResult{Outcome: outcome, Subscription: existing}, nil
}

// Status reports whether the user has an active subscription to a product.
// With optionID 0 any option counts.
func (l *Ledger) Status(ctx context.Context, userID int64, kind models.ProductKind, code string, optionID int64) (models.SubscriptionState, error) {
	s, err := l.store.ActiveSubscription(ctx, userID, kind, code, optionID)
	if errors.Is(err, database.ErrNotFound) {
		return models.SubscriptionState{}, nil
	}
	if err != nil {
		return models.SubscriptionState{}, err
	}
	return models.SubscriptionState{IsSubscribed: true, OptionID: s.OptionID}, nil
}

// StatusKey builds the key used by StatusMap.
func StatusKey(kind models.ProductKind, code string) string {
	return string(kind) + ":" + code
}

// StatusMap returns the active subscription state of every subscribed
// product, keyed by StatusKey. The first option subscribed wins.
func (l *Ledger) StatusMap(ctx context.Context, userID int64) (map[string]models.SubscriptionState, error) {
	subs, err := l.store.ListActiveSubscriptions(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.SubscriptionState, len(subs))
	// subs are newest first; walk backwards so the oldest row wins.
	for i := len(subs) - 1; i >= 0; i-- {
		key := StatusKey(subs[i].Kind, subs[i].FinPrdtCd)
		if _, ok := out[key]; !ok {
			out[key] = models.SubscriptionState{IsSubscribed: true, OptionID: subs[i].OptionID}
		}
	}
	return out, nil
}

// Subscriptions lists the user's active subscriptions. An empty kind lists both.
func (l *Ledger) Subscriptions(ctx context.Context, userID int64, kind models.ProductKind) ([]models.SubscriptionDetail, error) {
	return l.store.ListActiveSubscriptions(ctx, userID, kind)
}

// Unsubscribe deactivates every active option of a product for the user.
func (l *Ledger) Unsubscribe(ctx context.Context, userID int64, kind models.ProductKind, code string) error {
	n, err := l.store.DeactivateSubscriptions(ctx, userID, kind, code, 0)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("active subscription %s/%s: %w", kind, code, database.ErrNotFound)
	}
	return nil
}

// AddToWishlist adds a product to the user's wishlist and returns the row id.
func (l *Ledger) AddToWishlist(ctx context.Context, userID int64, kind models.ProductKind, code string) (int64, error) {
	if _, err := l.store.GetProduct(ctx, kind, code); err != nil {
		return 0, err
	}

	exists, err := l.store.WishlistExists(ctx, userID, kind, code)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("%s/%s: %w", kind, code, ErrAlreadyWishlisted)
	}

	id, err := l.store.AddWishlist(ctx, userID, kind, code)
	if errors.Is(err, database.ErrConflict) {
		return 0, fmt.Errorf("%s/%s: %w", kind, code, ErrAlreadyWishlisted)
	}
	return id, err
}

// RemoveFromWishlist deletes a wishlist entry.
func (l *Ledger) RemoveFromWishlist(ctx context.Context, userID int64, kind models.ProductKind, code string) error {
	return l.store.RemoveWishlist(ctx, userID, kind, code)
}

// Wishlist lists the user's wishlist.
func (l *Ledger) Wishlist(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	return l.store.ListWishlist(ctx, userID)
}
