// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package models

import "time"

// Subscription records that a user joined a product option.
// Rows are toggled through IsActive and never deleted by the user.
type Subscription struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	Kind      ProductKind `json:"product_type"`
	FinPrdtCd string      `json:"fin_prdt_cd"`
	OptionID  int64       `json:"option_id"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

// SubscriptionDetail joins a subscription with its product and selected option.
type SubscriptionDetail struct {
	Subscription
	FinPrdtNm      string  `json:"fin_prdt_nm"`
	KorCoNm        string  `json:"kor_co_nm"`
	IntrRateTypeNm string  `json:"intr_rate_type_nm"`
	IntrRate       float64 `json:"intr_rate"`
	IntrRate2      float64 `json:"intr_rate2"`
	SaveTrm        int     `json:"save_trm"`
}

// SubscriptionState is the per-product subscription flag returned to clients.
type SubscriptionState struct {
	IsSubscribed bool  `json:"is_subscribed"`
	OptionID     int64 `json:"option_id,omitempty"`
}

// SubscribeRequest is the body of POST /api/v1/subscriptions.
type SubscribeRequest struct {
	ProductType string `json:"product_type" validate:"required,oneof=deposit saving"`
	FinPrdtCd   string `json:"fin_prdt_cd" validate:"required,max=100"`
	OptionID    int64  `json:"option_id" validate:"required,gt=0"`
}

// WishlistItem is a wishlisted product with its best rates.
type WishlistItem struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	Kind      ProductKind `json:"product_type"`
	FinPrdtCd string      `json:"fin_prdt_cd"`
	FinPrdtNm string      `json:"fin_prdt_nm"`
	KorCoNm   string      `json:"kor_co_nm"`
	IntrRate  float64     `json:"intr_rate"`
	IntrRate2 float64     `json:"intr_rate2"`
	CreatedAt time.Time   `json:"created_at"`
}

// WishlistRequest is the body of POST /api/v1/wishlist.
type WishlistRequest struct {
	ProductType string `json:"product_type" validate:"required,oneof=deposit saving"`
	FinPrdtCd   string `json:"fin_prdt_cd" validate:"required,max=100"`
}
