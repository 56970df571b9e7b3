// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/finpick/internal/logging"
)

const revokedKeyPrefix = "revoked:"

// ErrStoreClosed is returned after the revocation store has been closed.
var ErrStoreClosed = errors.New("revocation store is closed")

// RevocationChecker reports whether a token id was revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RevocationStore records revoked token ids in BadgerDB. Each entry carries a
// TTL equal to the remaining lifetime of the token it revokes, so Badger drops
// it once the token would have expired anyway.
type RevocationStore struct {
	db     *badger.DB
	mu     sync.RWMutex
	closed bool
}

// OpenRevocationStore opens a store at path. An empty path keeps the data in
// memory; revocations are then lost on restart.
func OpenRevocationStore(path string) (*RevocationStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open revocation store: %w", err)
	}
	return &RevocationStore{db: db}, nil
}

func revokedKey(jti string) []byte {
	return []byte(revokedKeyPrefix + jti)
}

// Revoke marks jti as revoked for ttl. A non-positive ttl is a no-op because
// the token has already expired.
func (s *RevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(revokedKey(jti), []byte(time.Now().UTC().Format(time.RFC3339))).WithTTL(ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti is currently revoked.
func (s *RevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrStoreClosed
	}

	revoked := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(revokedKey(jti))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		revoked = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return revoked, nil
}

// Size returns the number of live revocations.
func (s *RevocationStore) Size() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrStoreClosed
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(revokedKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// RunGC runs one Badger value-log GC cycle. ErrNoRewrite is not an error.
func (s *RevocationStore) RunGC() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	err := s.db.RunValueLogGC(0.5)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrRejected) &&
		!errors.Is(err, badger.ErrGCInMemoryMode) {
		return err
	}
	return nil
}

// Close closes the underlying database.
func (s *RevocationStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		logging.Error().Err(err).Msg("Failed to close revocation store")
		return err
	}
	return nil
}
