// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestRevocationStore(t *testing.T) *RevocationStore {
	t.Helper()
	s, err := OpenRevocationStore("")
	if err != nil {
		t.Fatalf("OpenRevocationStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRevocationStore(t *testing.T) {
	s := newTestRevocationStore(t)
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("IsRevoked(unknown) = %v, %v", revoked, err)
	}

	if err := s.Revoke(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if revoked, _ := s.IsRevoked(ctx, "jti-1"); !revoked {
		t.Error("jti-1 not revoked")
	}
	if revoked, _ := s.IsRevoked(ctx, "jti-2"); revoked {
		t.Error("jti-2 reported revoked")
	}

	// Already-expired tokens are not stored.
	if err := s.Revoke(ctx, "jti-3", 0); err != nil {
		t.Fatalf("Revoke(ttl=0) error = %v", err)
	}
	if n, _ := s.Size(); n != 1 {
		t.Errorf("Size() = %d, want 1", n)
	}
	if err := s.RunGC(); err != nil {
		t.Errorf("RunGC() error = %v", err)
	}
}

func TestRevocationStorePersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenRevocationStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Revoke(ctx, "persisted", time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenRevocationStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if revoked, _ := reopened.IsRevoked(ctx, "persisted"); !revoked {
		t.Error("revocation lost across reopen")
	}
}

func TestRevocationStoreClosed(t *testing.T) {
	s, err := OpenRevocationStore("")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := s.IsRevoked(context.Background(), "x"); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("IsRevoked() after close = %v, want ErrStoreClosed", err)
	}
	if err := s.Revoke(context.Background(), "x", time.Hour); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Revoke() after close = %v, want ErrStoreClosed", err)
	}
}
