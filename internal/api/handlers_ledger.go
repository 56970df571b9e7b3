// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/ledger"
	"github.com/tomtom215/finpick/internal/models"
)

// SubscribeResponse is the body of POST /api/v1/subscriptions.
type SubscribeResponse struct {
	Status       ledger.Outcome `json:"status"`
	IsSubscribed bool           `json:"is_subscribed"`
	OptionID     int64          `json:"option_id"`
	Message      string         `json:"message"`
}

// WishlistResponse is the body of POST /api/v1/wishlist.
type WishlistResponse struct {
	ID int64 `json:"id"`
}

// failProduct answers 404 with the product message for unknown products
// and options, and maps everything else as usual.
func failProduct(rw *ResponseWriter, err error) {
	if errors.Is(err, database.ErrNotFound) {
		rw.NotFound(msgUnknownProduct)
		return
	}
	rw.Fail(err)
}

// Subscribe toggles the caller's subscription to a product option.
// The first call creates the row (201); later calls flip it (200).
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}

	var req models.SubscribeRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	kind, _ := models.ParseProductKind(req.ProductType)
	res, err := h.ledger.Subscribe(r.Context(), claims.UserID, kind, req.FinPrdtCd, req.OptionID)
	if err != nil {
		failProduct(rw, err)
		return
	}

	body := SubscribeResponse{
		Status:       res.Outcome,
		IsSubscribed: res.Subscription.IsActive,
		OptionID:     res.Subscription.OptionID,
		Message:      res.Outcome.Message(),
	}
	if res.Outcome == ledger.OutcomeCreated {
		rw.Created(body)
		return
	}
	rw.Success(body)
}

// SubscriptionStatus reports whether the caller holds a product.
// option_id narrows the check to one option unless any_option is set.
func (h *Handler) SubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}
	kind, ok := pathKind(r)
	if !ok {
		rw.NotFound(msgUnknownProduct)
		return
	}

	var optionID int64
	if !getBoolParam(r, "any_option") {
		optionID = int64(getIntParam(r, "option_id", 0))
	}

	state, err := h.ledger.Status(r.Context(), claims.UserID, kind, chi.URLParam(r, "code"), optionID)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(state)
}

// SubscriptionStatusMap returns the caller's subscription flags keyed by "kind:code".
func (h *Handler) SubscriptionStatusMap(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}

	states, err := h.ledger.StatusMap(r.Context(), claims.UserID)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(states)
}

// Subscriptions lists the caller's active subscriptions. The optional
// "kind" query parameter restricts the list to one product kind.
func (h *Handler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}

	var kind models.ProductKind
	if raw := r.URL.Query().Get("kind"); raw != "" {
		if kind, ok = models.ParseProductKind(raw); !ok {
			rw.BadRequest("kind must be one of: deposit saving")
			return
		}
	}

	subs, err := h.ledger.Subscriptions(r.Context(), claims.UserID, kind)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(subs)
}

// Unsubscribe deactivates every active option of a product.
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}
	kind, ok := pathKind(r)
	if !ok {
		rw.NotFound(msgUnknownProduct)
		return
	}

	if err := h.ledger.Unsubscribe(r.Context(), claims.UserID, kind, chi.URLParam(r, "code")); err != nil {
		failProduct(rw, err)
		return
	}
	rw.Message(http.StatusOK, ledger.OutcomeDeactivated.Message())
}

// Wishlist lists the caller's wishlist with each product's best rates.
func (h *Handler) Wishlist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}

	items, err := h.ledger.Wishlist(r.Context(), claims.UserID)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(items)
}

// AddToWishlist wishlists a product: 201, 404 for unknown products and
// 409 when it is already on the list.
func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}

	var req models.WishlistRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	kind, _ := models.ParseProductKind(req.ProductType)
	id, err := h.ledger.AddToWishlist(r.Context(), claims.UserID, kind, req.FinPrdtCd)
	if err != nil {
		failProduct(rw, err)
		return
	}
	rw.Created(WishlistResponse{ID: id})
}

// RemoveFromWishlist deletes a wishlist entry: 204, or 404 when absent.
func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}
	kind, ok := pathKind(r)
	if !ok {
		rw.NotFound(msgUnknownProduct)
		return
	}

	if err := h.ledger.RemoveFromWishlist(r.Context(), claims.UserID, kind, chi.URLParam(r, "code")); err != nil {
		rw.Fail(err)
		return
	}
	rw.NoContent()
}
