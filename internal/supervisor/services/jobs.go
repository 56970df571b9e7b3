// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/finpick/internal/logging"
	"github.com/tomtom215/finpick/internal/models"
)

// CatalogSyncer refreshes the bank directory and product catalog.
// Satisfied by *sync.Synchronizer.
type CatalogSyncer interface {
	SyncAll(ctx context.Context) ([]*models.SyncResult, error)
}

// RateRecorder persists one day's exchange-rate table into history.
// Satisfied by *exchange.Service.
type RateRecorder interface {
	Record(ctx context.Context, day time.Time) (int, error)
}

// GarbageCollector reclaims space in an on-disk store.
// Satisfied by *auth.RevocationStore.
type GarbageCollector interface {
	RunGC() error
}

// Catalog sync walks every Finlife page for every group; give it room.
const catalogSyncTimeout = 30 * time.Minute

// NewCatalogSyncService schedules SyncAll every interval. Results are logged
// per kind; a partial failure still saves what the other kinds fetched.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout
func NewCatalogSyncService(syncer CatalogSyncer, interval time.Duration, logger zerolog.Logger) *PeriodicService {
	task := func(ctx context.Context) error {
		ctx = logging.ContextWithNewCorrelationID(ctx)
		results, err := syncer.SyncAll(ctx)
		for _, res := range results {
			logger.Info().
				Str("kind", res.Kind).
				Int("saved", res.Saved).
				Int("skipped", res.Skipped).
				Int("failed", res.Failed).
				Msg("scheduled catalog sync")
		}
		return err
	}
	return NewPeriodicService(PeriodicConfig{
		Name:       "catalog-sync",
		Interval:   interval,
		RunOnStart: false,
		Timeout:    catalogSyncTimeout,
	}, task, logger)
}

// NewExchangeRecorderService captures today's rate table every interval,
// starting immediately. Weekends and holidays record nothing.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout
func NewExchangeRecorderService(recorder RateRecorder, interval time.Duration, logger zerolog.Logger) *PeriodicService {
	return newExchangeRecorderService(recorder, interval, time.Now, logger)
}

//nolint:gocritic // zerolog.Logger is passed by value throughout
func newExchangeRecorderService(recorder RateRecorder, interval time.Duration, now func() time.Time, logger zerolog.Logger) *PeriodicService {
	task := func(ctx context.Context) error {
		day := now()
		n, err := recorder.Record(ctx, day)
		if err != nil {
			return err
		}
		logger.Info().Str("day", day.Format("2006-01-02")).Int("rates", n).Msg("exchange rates recorded")
		return nil
	}
	return NewPeriodicService(PeriodicConfig{
		Name:       "exchange-recorder",
		Interval:   interval,
		RunOnStart: true,
		Timeout:    time.Minute,
	}, task, logger)
}

// RevocationGCInterval is how often the revocation store's value log is compacted.
const RevocationGCInterval = 10 * time.Minute

// NewRevocationGCService runs value-log GC on the token revocation store.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout
func NewRevocationGCService(gc GarbageCollector, interval time.Duration, logger zerolog.Logger) *PeriodicService {
	return NewPeriodicService(PeriodicConfig{
		Name:     "revocation-gc",
		Interval: interval,
		Timeout:  time.Minute,
	}, func(context.Context) error { return gc.RunGC() }, logger)
}
