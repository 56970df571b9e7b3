// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/finpick/internal/models"
)

// Banks lists the bank directory.
func (h *Handler) Banks(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	banks, err := h.db.ListBanks(r.Context())
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(banks)
}

// Products lists a page of products of one kind with their options.
//
// Query parameters:
//   - first_tier_only: only the configured first-tier banks
//   - saving_bank_only: only the configured savings banks
//   - banks: comma-separated bank names, compared without whitespace
//   - page, page_size: 1-based paging, page_size capped at catalog.max_page_size
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	kind, ok := pathKind(r)
	if !ok {
		rw.NotFound(msgUnknownProduct)
		return
	}

	filter := h.productFilter(r, kind)
	page, err := h.db.ListProducts(r.Context(), filter, h.config.Recommend.FirstTierBanks, h.config.Catalog.SavingBanks)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(page)
}

func (h *Handler) productFilter(r *http.Request, kind models.ProductKind) models.ProductFilter {
	catalog := h.config.Catalog

	pageSize := getIntParam(r, "page_size", catalog.DefaultPageSize)
	if pageSize < 1 {
		pageSize = catalog.DefaultPageSize
	}
	if catalog.MaxPageSize > 0 && pageSize > catalog.MaxPageSize {
		pageSize = catalog.MaxPageSize
	}
	page := getIntParam(r, "page", 1)
	if page < 1 {
		page = 1
	}

	return models.ProductFilter{
		Kind:           kind,
		FirstTierOnly:  getBoolParam(r, "first_tier_only"),
		SavingBankOnly: getBoolParam(r, "saving_bank_only"),
		Banks:          parseCommaSeparated(r.URL.Query().Get("banks")),
		Page:           page,
		PageSize:       pageSize,
	}
}

// Product returns one product with its options. Products without options
// are reported as missing.
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	kind, ok := pathKind(r)
	if !ok {
		rw.NotFound(msgUnknownProduct)
		return
	}

	p, err := h.db.GetProductWithOptions(r.Context(), kind, chi.URLParam(r, "code"))
	if err != nil {
		failProduct(rw, err)
		return
	}
	rw.Success(p)
}

// TopRate returns the product owning the option with the highest
// preferential rate.
func (h *Handler) TopRate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	kind, ok := pathKind(r)
	if !ok {
		rw.NotFound(msgUnknownProduct)
		return
	}

	p, err := h.db.TopRateProduct(r.Context(), kind)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(p)
}

// SyncProducts imports the finlife catalog for one kind. The optional
// "group" query parameter overrides finlife.group_codes.
func (h *Handler) SyncProducts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	kind, ok := pathKind(r)
	if !ok {
		rw.NotFound(msgUnknownProduct)
		return
	}

	res, err := h.sync.Sync(r.Context(), kind, parseCommaSeparated(r.URL.Query().Get("group")))
	h.writeSyncResult(rw, res, err)
}

// SyncBanks imports the bank directory.
func (h *Handler) SyncBanks(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	res, err := h.sync.SyncBanks(r.Context(), r.URL.Query().Get("group"))
	h.writeSyncResult(rw, res, err)
}

// writeSyncResult reports an aborted run with the counts reached so far.
func (h *Handler) writeSyncResult(rw *ResponseWriter, res *models.SyncResult, err error) {
	if err == nil {
		rw.Success(res)
		return
	}
	if res == nil {
		rw.Fail(err)
		return
	}

	m := classifyError(err)
	m.apiError.Details = map[string]interface{}{
		"saved":   res.Saved,
		"skipped": res.Skipped,
		"failed":  res.Failed,
	}
	rw.ErrorWithDetails(m.status, m.apiError)
}
