// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/models"
)

func setupLedger(t *testing.T) (*Ledger, *database.DB) {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, code := range []string{"WR0001B", "KB0001"} {
		require.NoError(t, db.InsertCatalogItem(ctx, &database.CatalogItem{
			Bank:    models.Bank{FinCoNo: "0010001", KorCoNm: "우리은행"},
			Product: models.Product{Kind: models.ProductKindDeposit, FinPrdtCd: code, FinCoNo: "0010001", KorCoNm: "우리은행", FinPrdtNm: code, JoinDeny: 1},
			Options: []models.ProductOption{
				{Kind: models.ProductKindDeposit, FinPrdtCd: code, IntrRateTypeNm: "단리", IntrRate: 3.0, IntrRate2: 3.5, SaveTrm: 6},
				{Kind: models.ProductKindDeposit, FinPrdtCd: code, IntrRateTypeNm: "단리", IntrRate: 3.2, IntrRate2: 3.9, SaveTrm: 12},
			},
		}))
	}
	return New(db), db
}

func optionIDs(t *testing.T, db *database.DB, code string) []int64 {
	t.Helper()
	p, err := db.GetProductWithOptions(context.Background(), models.ProductKindDeposit, code)
	require.NoError(t, err)
	ids := make([]int64, len(p.Options))
	for i, o := range p.Options {
		ids[i] = o.ID
	}
	return ids
}

func TestSubscribeToggles(t *testing.T) {
	l, db := setupLedger(t)
	ctx := context.Background()
	opt := optionIDs(t, db, "WR0001B")[0]

	res, err := l.Subscribe(ctx, 1, models.ProductKindDeposit, "WR0001B", opt)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, res.Outcome)
	assert.True(t, res.Subscription.IsActive)

	res, err = l.Subscribe(ctx, 1, models.ProductKindDeposit, "WR0001B", opt)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeactivated, res.Outcome)
	assert.False(t, res.Subscription.IsActive)
	assert.Equal(t, "상품 가입이 해지되었습니다.", res.Outcome.Message())

	res, err = l.Subscribe(ctx, 1, models.ProductKindDeposit, "WR0001B", opt)
	require.NoError(t, err)
	assert.Equal(t, OutcomeActivated, res.Outcome)
	assert.Equal(t, "상품 가입이 완료되었습니다.", res.Outcome.Message())

	subs, err := l.Subscriptions(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, subs, 1, "toggling must not create extra rows")
	assert.Equal(t, 3.5, subs[0].IntrRate2)
	assert.Equal(t, 6, subs[0].SaveTrm)
}

func TestSubscribeValidatesProductAndOption(t *testing.T) {
	l, db := setupLedger(t)
	ctx := context.Background()
	otherOpt := optionIDs(t, db, "KB0001")[0]

	_, err := l.Subscribe(ctx, 1, models.ProductKindDeposit, "NOPE", otherOpt)
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = l.Subscribe(ctx, 1, models.ProductKindDeposit, "WR0001B", otherOpt)
	assert.ErrorIs(t, err, database.ErrNotFound, "option of another product")

	_, err = l.Subscribe(ctx, 1, models.ProductKindDeposit, "WR0001B", 999999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestStatusAndUnsubscribe(t *testing.T) {
	l, db := setupLedger(t)
	ctx := context.Background()
	opts := optionIDs(t, db, "WR0001B")

	state, err := l.Status(ctx, 1, models.ProductKindDeposit, "WR0001B", 0)
	require.NoError(t, err)
	assert.False(t, state.IsSubscribed)

	_, err = l.Subscribe(ctx, 1, models.ProductKindDeposit, "WR0001B", opts[1])
	require.NoError(t, err)

	state, err = l.Status(ctx, 1, models.ProductKindDeposit, "WR0001B", 0)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionState{IsSubscribed: true, OptionID: opts[1]}, state)

	state, err = l.Status(ctx, 1, models.ProductKindDeposit, "WR0001B", opts[0])
	require.NoError(t, err)
	assert.False(t, state.IsSubscribed, "a specific option only matches itself")

	m, err := l.StatusMap(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, opts[1], m[StatusKey(models.ProductKindDeposit, "WR0001B")].OptionID)

	require.NoError(t, l.Unsubscribe(ctx, 1, models.ProductKindDeposit, "WR0001B"))
	assert.ErrorIs(t, l.Unsubscribe(ctx, 1, models.ProductKindDeposit, "WR0001B"), database.ErrNotFound)

	m, err = l.StatusMap(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestWishlist(t *testing.T) {
	l, _ := setupLedger(t)
	ctx := context.Background()

	id, err := l.AddToWishlist(ctx, 1, models.ProductKindDeposit, "WR0001B")
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = l.AddToWishlist(ctx, 1, models.ProductKindDeposit, "WR0001B")
	assert.ErrorIs(t, err, ErrAlreadyWishlisted)

	_, err = l.AddToWishlist(ctx, 1, models.ProductKindSaving, "WR0001B")
	assert.ErrorIs(t, err, database.ErrNotFound)

	// Another user may wishlist the same product.
	_, err = l.AddToWishlist(ctx, 2, models.ProductKindDeposit, "WR0001B")
	require.NoError(t, err)

	items, err := l.Wishlist(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3.2, items[0].IntrRate)
	assert.Equal(t, 3.9, items[0].IntrRate2)

	require.NoError(t, l.RemoveFromWishlist(ctx, 1, models.ProductKindDeposit, "WR0001B"))
	assert.ErrorIs(t, l.RemoveFromWishlist(ctx, 1, models.ProductKindDeposit, "WR0001B"), database.ErrNotFound)
}
