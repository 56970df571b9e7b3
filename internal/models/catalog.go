// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package models

import "time"

// ProductKind distinguishes the two catalog product families.
type ProductKind string

const (
	ProductKindDeposit ProductKind = "deposit" // 예금
	ProductKindSaving  ProductKind = "saving"  // 적금
)

// ProductKinds lists every supported kind in display order.
var ProductKinds = []ProductKind{ProductKindDeposit, ProductKindSaving}

// ParseProductKind converts a path or query value into a ProductKind.
func ParseProductKind(s string) (ProductKind, bool) {
	switch ProductKind(s) {
	case ProductKindDeposit, ProductKindSaving:
		return ProductKind(s), true
	default:
		return "", false
	}
}

// Valid reports whether k is a known kind.
func (k ProductKind) Valid() bool {
	_, ok := ParseProductKind(string(k))
	return ok
}

// Endpoint returns the finlife search endpoint for the kind.
func (k ProductKind) Endpoint() string {
	if k == ProductKindSaving {
		return "savingProductsSearch.json"
	}
	return "depositProductsSearch.json"
}

// JoinDeny values published by finlife.
const (
	JoinDenyNone       = 1 // 제한없음
	JoinDenyLowIncome  = 2 // 서민전용
	JoinDenyRestricted = 3 // 일부제한
)

// Bank is a financial company from the finlife directory.
// Created on first sighting and never updated afterwards.
type Bank struct {
	FinCoNo string `json:"fin_co_no"`
	KorCoNm string `json:"kor_co_nm"`
	HompURL string `json:"homp_url,omitempty"`
	CalTel  string `json:"cal_tel,omitempty"`
}

// Product is a deposit or savings product keyed by (Kind, FinPrdtCd).
type Product struct {
	ID         int64       `json:"id"`
	Kind       ProductKind `json:"product_kind"`
	FinPrdtCd  string      `json:"fin_prdt_cd"`
	FinCoNo    string      `json:"fin_co_no"`
	KorCoNm    string      `json:"kor_co_nm"`
	FinPrdtNm  string      `json:"fin_prdt_nm"`
	JoinDeny   int         `json:"join_deny"`
	JoinMember string      `json:"join_member,omitempty"`
	JoinWay    string      `json:"join_way,omitempty"`
	SpclCnd    string      `json:"spcl_cnd,omitempty"`
	EtcNote    string      `json:"etc_note,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// ProductOption is one interest-rate option of a product.
type ProductOption struct {
	ID             int64       `json:"id"`
	Kind           ProductKind `json:"product_kind"`
	FinPrdtCd      string      `json:"fin_prdt_cd"`
	IntrRateTypeNm string      `json:"intr_rate_type_nm"`
	IntrRate       float64     `json:"intr_rate"`
	IntrRate2      float64     `json:"intr_rate2"`
	SaveTrm        int         `json:"save_trm"`
}

// ProductWithOptions is the catalog read model used by list and detail endpoints.
type ProductWithOptions struct {
	Product Product         `json:"product"`
	Options []ProductOption `json:"options"`
}

// MaxRates returns the highest base and preferential rates across options.
func MaxRates(options []ProductOption) (base, preferential float64) {
	for i, o := range options {
		if i == 0 || o.IntrRate > base {
			base = o.IntrRate
		}
		if i == 0 || o.IntrRate2 > preferential {
			preferential = o.IntrRate2
		}
	}
	return base, preferential
}

// ProductFilter narrows catalog listings. FirstTierOnly takes precedence over
// SavingBankOnly, which takes precedence over Banks.
type ProductFilter struct {
	Kind           ProductKind
	FirstTierOnly  bool
	SavingBankOnly bool
	Banks          []string
	Page           int
	PageSize       int
}

// ProductPage is a page of catalog products.
type ProductPage struct {
	Results     []ProductWithOptions `json:"results"`
	TotalPages  int                  `json:"total_pages"`
	CurrentPage int                  `json:"current_page"`
	TotalCount  int                  `json:"total_count"`
}

// SyncResult summarizes one catalog synchronization run.
type SyncResult struct {
	Kind    string `json:"kind"`
	Saved   int    `json:"saved"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Message string `json:"message,omitempty"`
}
