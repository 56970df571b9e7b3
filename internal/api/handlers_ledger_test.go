// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/finpick/internal/ledger"
	"github.com/tomtom215/finpick/internal/models"
)

func TestSubscribe_Toggle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedCatalog(env)
	token, _ := env.signup("grace")
	optionID := env.optionIDs(models.ProductKindSaving, "S-WOORI")[0]
	body := models.SubscribeRequest{ProductType: "saving", FinPrdtCd: "S-WOORI", OptionID: optionID}

	steps := []struct {
		status     int
		outcome    ledger.Outcome
		subscribed bool
	}{
		{http.StatusCreated, ledger.OutcomeCreated, true},
		{http.StatusOK, ledger.OutcomeDeactivated, false},
		{http.StatusOK, ledger.OutcomeActivated, true},
	}
	for i, step := range steps {
		rec := env.do(http.MethodPost, "/api/v1/subscriptions", token, body)
		if rec.Code != step.status {
			t.Fatalf("step %d: status = %d, want %d (%s)", i, rec.Code, step.status, rec.Body.String())
		}
		var resp SubscribeResponse
		decodeData(t, rec, &resp)
		if resp.Status != step.outcome || resp.IsSubscribed != step.subscribed {
			t.Errorf("step %d: got %+v", i, resp)
		}
		if resp.Message != step.outcome.Message() {
			t.Errorf("step %d: message = %q", i, resp.Message)
		}
	}
}

func TestSubscribe_UnknownProduct(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token, _ := env.signup("heidi")

	rec := env.do(http.MethodPost, "/api/v1/subscriptions", token, models.SubscribeRequest{ProductType: "deposit", FinPrdtCd: "GHOST", OptionID: 99})
	apiErr := expectError(t, rec, http.StatusNotFound, ErrCodeNotFound)
	if apiErr.Message != msgUnknownProduct {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestSubscribe_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token, _ := env.signup("ivan")

	rec := env.do(http.MethodPost, "/api/v1/subscriptions", token, models.SubscribeRequest{ProductType: "bond", FinPrdtCd: "X"})
	apiErr := expectError(t, rec, http.StatusBadRequest, ErrCodeValidationFailed)
	for _, field := range []string{"product_type", "option_id"} {
		if _, ok := apiErr.Details[field]; !ok {
			t.Errorf("details missing %s: %v", field, apiErr.Details)
		}
	}
}

func TestSubscriptionStatus(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedCatalog(env)
	token, _ := env.signup("judy")
	ids := env.optionIDs(models.ProductKindSaving, "S-WOORI")

	rec := env.do(http.MethodPost, "/api/v1/subscriptions", token, models.SubscribeRequest{ProductType: "saving", FinPrdtCd: "S-WOORI", OptionID: ids[1]})
	if rec.Code != http.StatusCreated {
		t.Fatalf("subscribe status = %d", rec.Code)
	}

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"subscribed option", fmt.Sprintf("?option_id=%d", ids[1]), true},
		{"other option", fmt.Sprintf("?option_id=%d", ids[0]), false},
		{"any option", fmt.Sprintf("?option_id=%d&any_option=true", ids[0]), true},
	}
	for _, tt := range tests {
		rec := env.do(http.MethodGet, "/api/v1/subscriptions/saving/S-WOORI"+tt.query, token, nil)
		var state models.SubscriptionState
		decodeData(t, rec, &state)
		if state.IsSubscribed != tt.want {
			t.Errorf("%s: is_subscribed = %v, want %v", tt.name, state.IsSubscribed, tt.want)
		}
	}

	rec = env.do(http.MethodGet, "/api/v1/subscriptions/status", token, nil)
	var states map[string]models.SubscriptionState
	decodeData(t, rec, &states)
	got, ok := states["saving:S-WOORI"]
	if !ok || !got.IsSubscribed || got.OptionID != ids[1] {
		t.Errorf("status map = %+v", states)
	}
}

func TestSubscriptions_ListAndUnsubscribe(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedCatalog(env)
	token, _ := env.signup("ken")

	deposit := env.optionIDs(models.ProductKindDeposit, "D-WOORI")[0]
	saving := env.optionIDs(models.ProductKindSaving, "S-WOORI")[0]
	env.do(http.MethodPost, "/api/v1/subscriptions", token, models.SubscribeRequest{ProductType: "deposit", FinPrdtCd: "D-WOORI", OptionID: deposit})
	env.do(http.MethodPost, "/api/v1/subscriptions", token, models.SubscribeRequest{ProductType: "saving", FinPrdtCd: "S-WOORI", OptionID: saving})

	var subs []models.SubscriptionDetail
	decodeData(t, env.do(http.MethodGet, "/api/v1/subscriptions", token, nil), &subs)
	if len(subs) != 2 {
		t.Fatalf("subscriptions = %d, want 2", len(subs))
	}
	decodeData(t, env.do(http.MethodGet, "/api/v1/subscriptions?kind=deposit", token, nil), &subs)
	if len(subs) != 1 || subs[0].FinPrdtNm != "D-WOORI 상품" {
		t.Errorf("deposit subscriptions = %+v", subs)
	}
	expectError(t, env.do(http.MethodGet, "/api/v1/subscriptions?kind=bond", token, nil), http.StatusBadRequest, ErrCodeBadRequest)

	rec := env.do(http.MethodDelete, "/api/v1/subscriptions/deposit/D-WOORI", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unsubscribe status = %d, body %s", rec.Code, rec.Body.String())
	}
	expectError(t, env.do(http.MethodDelete, "/api/v1/subscriptions/deposit/D-WOORI", token, nil), http.StatusNotFound, ErrCodeNotFound)

	decodeData(t, env.do(http.MethodGet, "/api/v1/subscriptions", token, nil), &subs)
	if len(subs) != 1 {
		t.Errorf("after unsubscribe = %d, want 1", len(subs))
	}
}

func TestSubscriptions_IsolatedPerUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedCatalog(env)
	alice, _ := env.signup("alice")
	bob, _ := env.signup("bob")
	id := env.optionIDs(models.ProductKindDeposit, "D-SBI")[0]

	env.do(http.MethodPost, "/api/v1/subscriptions", alice, models.SubscribeRequest{ProductType: "deposit", FinPrdtCd: "D-SBI", OptionID: id})

	var subs []models.SubscriptionDetail
	decodeData(t, env.do(http.MethodGet, "/api/v1/subscriptions", bob, nil), &subs)
	if len(subs) != 0 {
		t.Errorf("bob sees %d subscriptions", len(subs))
	}
}

func TestWishlist(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedCatalog(env)
	token, _ := env.signup("leo")
	body := models.WishlistRequest{ProductType: "saving", FinPrdtCd: "S-WOORI"}

	rec := env.do(http.MethodPost, "/api/v1/wishlist", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created WishlistResponse
	decodeData(t, rec, &created)
	if created.ID == 0 {
		t.Error("expected wishlist id")
	}

	apiErr := expectError(t, env.do(http.MethodPost, "/api/v1/wishlist", token, body), http.StatusConflict, ErrCodeConflict)
	if apiErr.Message != msgAlreadyWishlisted {
		t.Errorf("message = %q", apiErr.Message)
	}
	expectError(t, env.do(http.MethodPost, "/api/v1/wishlist", token, models.WishlistRequest{ProductType: "saving", FinPrdtCd: "GHOST"}),
		http.StatusNotFound, ErrCodeNotFound)

	var items []models.WishlistItem
	decodeData(t, env.do(http.MethodGet, "/api/v1/wishlist", token, nil), &items)
	if len(items) != 1 {
		t.Fatalf("wishlist = %d items", len(items))
	}
	if items[0].IntrRate != 3.2 || items[0].IntrRate2 != 5.0 {
		t.Errorf("rates = %v/%v, want 3.2/5.0", items[0].IntrRate, items[0].IntrRate2)
	}

	rec = env.do(http.MethodDelete, "/api/v1/wishlist/saving/S-WOORI", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("remove status = %d", rec.Code)
	}
	expectError(t, env.do(http.MethodDelete, "/api/v1/wishlist/saving/S-WOORI", token, nil), http.StatusNotFound, ErrCodeNotFound)
}
