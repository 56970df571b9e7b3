// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

/*
Package cache provides a thread-safe in-memory cache with TTL support.

It backs short-lived upstream results: the latest Koreaexim exchange-rate table
and per-currency history windows. Entries expire lazily on Get and are swept by
a background goroutine every cleanup interval until Close is called.

Every lookup is counted in finpick_cache_hits_total / finpick_cache_misses_total
under the cache's name.

# Usage Example

	rates := cache.New[[]models.ExchangeRate]("exchange_latest", 10*time.Minute)
	defer rates.Close()

	if v, ok := rates.Get("latest"); ok {
	    return v, nil
	}
	v, err := fetch(ctx)
	if err == nil {
	    rates.Set("latest", v)
	}

# Thread Safety

All methods are safe for concurrent use. Stats returns a copy.
*/
package cache
