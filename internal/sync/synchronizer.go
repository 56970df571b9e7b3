// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/logging"
	"github.com/tomtom215/finpick/internal/metrics"
	"github.com/tomtom215/finpick/internal/models"
)

// CatalogStore is the persistence the synchronizer needs.
// Implemented by *database.DB.
type CatalogStore interface {
	ProductExists(ctx context.Context, kind models.ProductKind, code string) (bool, error)
	InsertCatalogItem(ctx context.Context, item *database.CatalogItem) error
	EnsureBank(ctx context.Context, bank models.Bank) (bool, error)
}

// banksJob is the in-progress key for bank directory syncs.
const banksJob = "banks"

// Synchronizer imports the finlife catalog.
//
// Thread Safety: Sync and SyncBanks may be called concurrently. Runs for the
// same kind are exclusive; the loser gets ErrSyncInProgress.
type Synchronizer struct {
	store  CatalogStore
	client FinlifeClientInterface
	cfg    *config.FinlifeConfig

	mu      sync.Mutex
	running map[string]bool
}

// NewSynchronizer creates a synchronizer.
func NewSynchronizer(store CatalogStore, client FinlifeClientInterface, cfg *config.FinlifeConfig) *Synchronizer {
	return &Synchronizer{
		store:   store,
		client:  client,
		cfg:     cfg,
		running: make(map[string]bool),
	}
}

// acquire marks job as running. It returns false when it already is.
func (s *Synchronizer) acquire(job string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[job] {
		return false
	}
	s.running[job] = true
	return true
}

func (s *Synchronizer) release(job string) {
	s.mu.Lock()
	delete(s.running, job)
	s.mu.Unlock()
}

// Sync imports every page of kind for each group code. An empty groupCodes
// uses FinlifeConfig.GroupCodes.
//
// The returned result is non-nil even on error and holds the counts reached
// before the run was aborted.
func (s *Synchronizer) Sync(ctx context.Context, kind models.ProductKind, groupCodes []string) (*models.SyncResult, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown product kind %q", kind)
	}
	if len(groupCodes) == 0 {
		groupCodes = s.cfg.GroupCodes
	}
	if !s.acquire(string(kind)) {
		return nil, fmt.Errorf("%s: %w", kind, ErrSyncInProgress)
	}
	defer s.release(string(kind))

	ctx = ensureCorrelationID(ctx)
	logger := logging.Ctx(ctx)
	start := time.Now()
	res := &models.SyncResult{Kind: string(kind)}

	logger.Info().Str("kind", string(kind)).Strs("groups", groupCodes).Msg("Catalog sync started")

	var err error
	for _, code := range groupCodes {
		if err = s.syncProductGroup(ctx, kind, code, res); err != nil {
			break
		}
	}

	metrics.RecordSyncRun(string(kind), time.Since(start), res.Saved, res.Skipped, res.Failed, err)
	if err != nil {
		logger.Error().Err(err).Str("kind", string(kind)).Int("saved", res.Saved).Msg("Catalog sync aborted")
		return res, err
	}

	res.Message = fmt.Sprintf("%s 상품 처리 완료 (새로 저장: %d개, 이미 존재: %d개, 실패: %d개)",
		kindLabel(kind), res.Saved, res.Skipped, res.Failed)
	logger.Info().Str("kind", string(kind)).Int("saved", res.Saved).Int("skipped", res.Skipped).
		Int("failed", res.Failed).Dur("duration", time.Since(start)).Msg("Catalog sync completed")
	return res, nil
}

func (s *Synchronizer) syncProductGroup(ctx context.Context, kind models.ProductKind, groupCode string, res *models.SyncResult) error {
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		p, err := s.client.GetProducts(ctx, kind, groupCode, page)
		if err != nil {
			return fmt.Errorf("%s group %s page %d: %w", kind, groupCode, page, err)
		}
		if p.Entries() == 0 {
			return nil
		}

		logger := logging.Ctx(ctx)
		for _, bad := range p.RejectedBase {
			logger.Warn().Err(bad.Err).Str("kind", string(kind)).Int("index", bad.Index).
				Str("fin_prdt_cd", bad.FinPrdtCd).Str("fin_co_no", bad.FinCoNo).
				Msg("Skipping undecodable catalog item")
			res.Failed++
		}
		// Options are never updated after insert, so a product with a rejected
		// option is held back until the vendor data decodes cleanly.
		incomplete := make(map[string]bool, len(p.RejectedOptions))
		for _, bad := range p.RejectedOptions {
			logger.Warn().Err(bad.Err).Str("kind", string(kind)).Int("index", bad.Index).
				Str("fin_prdt_cd", bad.FinPrdtCd).Msg("Dropping undecodable product option")
			if bad.FinPrdtCd != "" {
				incomplete[strings.TrimSpace(bad.FinPrdtCd)] = true
			}
		}

		options := make(map[string][]ProductOptionItem, len(p.BaseList))
		for _, o := range p.OptionList {
			options[o.FinPrdtCd] = append(options[o.FinPrdtCd], o)
		}
		for i := range p.BaseList {
			base := &p.BaseList[i]
			s.syncProduct(ctx, kind, base, options[base.FinPrdtCd], incomplete[strings.TrimSpace(base.FinPrdtCd)], res)
		}

		if page+1 > maxPage(int(p.MaxPageNo)) {
			return nil
		}
	}
}

// syncProduct handles one baseList entry. Failures are counted, never returned.
// incomplete marks a product that lost an option entry to a decode error.
func (s *Synchronizer) syncProduct(ctx context.Context, kind models.ProductKind, base *ProductBase, options []ProductOptionItem, incomplete bool, res *models.SyncResult) {
	logger := logging.Ctx(ctx)
	code := strings.TrimSpace(base.FinPrdtCd)
	bankCode := strings.TrimSpace(base.FinCoNo)

	if code == "" || bankCode == "" {
		logger.Warn().Str("kind", string(kind)).Str("fin_prdt_cd", code).Str("fin_co_no", bankCode).
			Msg("Skipping malformed catalog item")
		res.Failed++
		return
	}

	exists, err := s.store.ProductExists(ctx, kind, code)
	if err != nil {
		logger.Error().Err(err).Str("fin_prdt_cd", code).Msg("Failed to check product")
		res.Failed++
		return
	}
	if exists {
		res.Skipped++
		return
	}
	if incomplete {
		logger.Warn().Str("kind", string(kind)).Str("fin_prdt_cd", code).
			Msg("Holding back product with undecodable options")
		res.Failed++
		return
	}

	item := toCatalogItem(kind, base, options)
	if err := s.store.InsertCatalogItem(ctx, item); err != nil {
		if errors.Is(err, database.ErrConflict) {
			res.Skipped++
			return
		}
		logger.Error().Err(err).Str("fin_prdt_cd", code).Msg("Failed to store catalog item")
		res.Failed++
		return
	}
	res.Saved++
}

func toCatalogItem(kind models.ProductKind, base *ProductBase, options []ProductOptionItem) *database.CatalogItem {
	code := strings.TrimSpace(base.FinPrdtCd)
	bankCode := strings.TrimSpace(base.FinCoNo)

	item := &database.CatalogItem{
		Bank: models.Bank{
			FinCoNo: bankCode,
			KorCoNm: base.KorCoNm,
			HompURL: base.HompURL,
			CalTel:  base.CalTel,
		},
		Product: models.Product{
			Kind:       kind,
			FinPrdtCd:  code,
			FinCoNo:    bankCode,
			KorCoNm:    base.KorCoNm,
			FinPrdtNm:  base.FinPrdtNm,
			JoinDeny:   int(base.JoinDeny),
			JoinMember: base.JoinMember,
			JoinWay:    base.JoinWay,
			SpclCnd:    base.SpclCnd,
			EtcNote:    base.EtcNote,
		},
		Options: make([]models.ProductOption, 0, len(options)),
	}
	for _, o := range options {
		item.Options = append(item.Options, models.ProductOption{
			Kind:           kind,
			FinPrdtCd:      code,
			IntrRateTypeNm: o.IntrRateTypeNm,
			IntrRate:       float64(o.IntrRate),
			IntrRate2:      float64(o.IntrRate2),
			SaveTrm:        int(o.SaveTrm),
		})
	}
	return item
}

// SyncBanks imports the company directory for groupCode. An empty groupCode
// uses FinlifeConfig.CompanyGroupCode. Existing banks are left untouched and
// counted as skipped.
func (s *Synchronizer) SyncBanks(ctx context.Context, groupCode string) (*models.SyncResult, error) {
	if groupCode == "" {
		groupCode = s.cfg.CompanyGroupCode
	}
	if !s.acquire(banksJob) {
		return nil, fmt.Errorf("%s: %w", banksJob, ErrSyncInProgress)
	}
	defer s.release(banksJob)

	ctx = ensureCorrelationID(ctx)
	logger := logging.Ctx(ctx)
	start := time.Now()
	res := &models.SyncResult{Kind: banksJob}

	err := s.syncCompanies(ctx, groupCode, res)
	metrics.RecordSyncRun(banksJob, time.Since(start), res.Saved, res.Skipped, res.Failed, err)
	if err != nil {
		logger.Error().Err(err).Str("group", groupCode).Msg("Bank directory sync aborted")
		return res, err
	}

	res.Message = "은행 정보 저장이 완료되었습니다."
	logger.Info().Str("group", groupCode).Int("saved", res.Saved).Int("skipped", res.Skipped).
		Int("failed", res.Failed).Msg("Bank directory sync completed")
	return res, nil
}

func (s *Synchronizer) syncCompanies(ctx context.Context, groupCode string, res *models.SyncResult) error {
	logger := logging.Ctx(ctx)
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		p, err := s.client.GetCompanies(ctx, groupCode, page)
		if err != nil {
			return fmt.Errorf("companies group %s page %d: %w", groupCode, page, err)
		}
		if p.Entries() == 0 {
			return nil
		}

		for _, bad := range p.RejectedBase {
			logger.Warn().Err(bad.Err).Int("index", bad.Index).Str("fin_co_no", bad.FinCoNo).
				Msg("Skipping undecodable bank entry")
			res.Failed++
		}
		for _, c := range p.BaseList {
			bank := models.Bank{
				FinCoNo: strings.TrimSpace(c.FinCoNo),
				KorCoNm: c.KorCoNm,
				HompURL: c.HompURL,
				CalTel:  c.CalTel,
			}
			if bank.FinCoNo == "" {
				logger.Warn().Str("kor_co_nm", c.KorCoNm).Msg("Skipping bank without fin_co_no")
				res.Failed++
				continue
			}
			created, err := s.store.EnsureBank(ctx, bank)
			switch {
			case err != nil:
				logger.Error().Err(err).Str("fin_co_no", bank.FinCoNo).Msg("Failed to store bank")
				res.Failed++
			case created:
				res.Saved++
			default:
				res.Skipped++
			}
		}

		if page+1 > maxPage(int(p.MaxPageNo)) {
			return nil
		}
	}
}

// SyncAll refreshes the bank directory and both product kinds. It keeps
// going after a failed step and returns the joined errors.
func (s *Synchronizer) SyncAll(ctx context.Context) ([]*models.SyncResult, error) {
	ctx = ensureCorrelationID(ctx)

	var results []*models.SyncResult
	var errs []error

	if res, err := s.SyncBanks(ctx, ""); err != nil {
		errs = append(errs, err)
	} else {
		results = append(results, res)
	}
	for _, kind := range models.ProductKinds {
		res, err := s.Sync(ctx, kind, nil)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// maxPage applies the vendor default: absent or zero means a single page.
func maxPage(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

func kindLabel(kind models.ProductKind) string {
	if kind == models.ProductKindSaving {
		return "적금"
	}
	return "예금"
}

func ensureCorrelationID(ctx context.Context) context.Context {
	if logging.CorrelationIDFromContext(ctx) != "" {
		return ctx
	}
	return logging.ContextWithNewCorrelationID(ctx)
}
