// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package authz

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/tomtom215/finpick/internal/config"
)

// setupEnforcer creates an enforcer with the embedded policy and registers cleanup.
func setupEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	enforcer, err := NewEnforcer(&config.SecurityConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(enforcer.Close)
	return enforcer
}

func TestEmbeddedPolicy(t *testing.T) {
	e := setupEnforcer(t)

	tests := []struct {
		role   string
		path   string
		action string
		want   bool
	}{
		{"user", "/api/v1/accounts/profile", "read", true},
		{"user", "/api/v1/accounts/logout", "write", true},
		{"user", "/api/v1/subscriptions", "write", true},
		{"user", "/api/v1/subscriptions/deposit/WR0001B", "delete", true},
		{"user", "/api/v1/wishlist/saving/KB0001", "delete", true},
		{"user", "/api/v1/preferences/12/questions", "write", true},
		{"user", "/api/v1/questions/3/answers", "write", true},
		{"user", "/api/v1/recommendations/deposit/WR0001B/explanation", "read", true},
		{"user", "/api/v1/community/articles/4", "delete", true},
		{"user", "/api/v1/products/deposit/sync", "write", false},
		{"user", "/api/v1/banks/sync", "write", false},
		{"user", "/api/v1/wishlist", "delete", false},
		{"admin", "/api/v1/products/saving/sync", "write", true},
		{"admin", "/api/v1/banks/sync", "write", true},
		{"admin", "/api/v1/accounts/profile", "write", true},
		{"anonymous", "/api/v1/accounts/profile", "read", false},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.action+" "+tt.path, func(t *testing.T) {
			got, err := e.Enforce(tt.role, tt.path, tt.action)
			if err != nil {
				t.Fatalf("Enforce() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce() = %v, want %v", got, tt.want)
			}
			// Cached path must agree.
			again, _ := e.Enforce(tt.role, tt.path, tt.action)
			if again != got {
				t.Errorf("cached Enforce() = %v, want %v", again, got)
			}
		})
	}
}

func TestAdminInheritsUser(t *testing.T) {
	e := setupEnforcer(t)
	roles, err := e.RolesFor("admin")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(roles, "user") {
		t.Errorf("RolesFor(admin) = %v, want to include user", roles)
	}
}

func TestPolicyFileOverride(t *testing.T) {
	dir := t.TempDir()
	policyPath := filepath.Join(dir, "policy.csv")
	if err := os.WriteFile(policyPath, []byte("p, user, /api/v1/banks/sync, write\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	e, err := NewEnforcer(&config.SecurityConfig{CasbinPolicyPath: policyPath})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	defer e.Close()

	if ok, _ := e.Enforce("user", "/api/v1/banks/sync", "write"); !ok {
		t.Error("file policy not applied")
	}
	if ok, _ := e.Enforce("user", "/api/v1/wishlist", "read"); ok {
		t.Error("embedded policy leaked into file policy")
	}
}

func TestMissingOverrideFallsBackToEmbedded(t *testing.T) {
	e, err := NewEnforcer(&config.SecurityConfig{
		CasbinModelPath:  "/nonexistent/model.conf",
		CasbinPolicyPath: "/nonexistent/policy.csv",
	})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	defer e.Close()

	if ok, _ := e.Enforce("user", "/api/v1/wishlist", "read"); !ok {
		t.Error("embedded policy not loaded")
	}
}

func TestLoadEmbeddedPolicyRejectsMalformedLine(t *testing.T) {
	e := setupEnforcer(t)
	if err := loadEmbeddedPolicy(e.enforcer, "p, user, /x\n"); err == nil {
		t.Error("expected error for short p line")
	}
}
