// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

/*
Package sync imports the bank, deposit and savings catalog from the FSS
finlife open API into the database.

Key Components:

  - FinlifeClient: HTTP client for companySearch.json, depositProductsSearch.json
    and savingProductsSearch.json, paced by a golang.org/x/time/rate limiter
  - CircuitBreakerClient: wraps FinlifeClient with a gobreaker circuit breaker
  - Synchronizer: pages the vendor endpoints per group code and writes each
    new product with its bank and options in one transaction

Sync Semantics:

Paging stops when a page has an empty baseList or when the next page number
exceeds max_page_no (absent or zero counts as 1). Products already in the
catalog are skipped without merging fields. A malformed item or a failed item
transaction is logged and counted as failed without stopping the page. A
failed page request aborts the run with ErrUpstream.

Only one sync per product kind runs at a time in a process. A second caller
gets ErrSyncInProgress.

Usage Example:

	client := sync.NewCircuitBreakerClient(&cfg.Finlife)
	syncer := sync.NewSynchronizer(db, client, &cfg.Finlife)

	res, err := syncer.Sync(ctx, models.ProductKindDeposit, cfg.Finlife.GroupCodes)
	if err != nil {
	    return err
	}
	logging.Info().Int("saved", res.Saved).Int("skipped", res.Skipped).Msg("Deposit sync done")
*/
package sync
