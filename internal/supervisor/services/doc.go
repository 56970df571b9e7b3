// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

/*
Package services adapts finpick components to suture.Service.

HTTPServerService turns ListenAndServe into a context-aware Serve with a
bounded graceful drain.

PeriodicService runs a Task on a ticker. A failed run is logged and tried
again on the next tick; only a canceled context ends Serve. A zero interval
disables the job and returns suture.ErrDoNotRestart. Three jobs are built
on it:

  - NewCatalogSyncService: Synchronizer.SyncAll with a fresh correlation ID per run
  - NewExchangeRecorderService: captures today's Koreaexim table into history
  - NewRevocationGCService: Badger value-log GC for the token revocation store

The job constructors accept small interfaces (CatalogSyncer, RateRecorder,
GarbageCollector) so tests can substitute fakes.
*/
package services
