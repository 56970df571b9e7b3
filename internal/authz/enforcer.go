// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/tomtom215/finpick/internal/cache"
	"github.com/tomtom215/finpick/internal/config"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// decisionTTL bounds how long a cached decision survives a policy reload.
const decisionTTL = 5 * time.Minute

// Enforcer wraps a Casbin SyncedEnforcer with a decision cache.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
	cache    *cache.Cache[bool]
}

// NewEnforcer loads the model and policy. Paths in cfg that are empty or do
// not exist fall back to the embedded files.
func NewEnforcer(cfg *config.SecurityConfig) (*Enforcer, error) {
	var (
		m   model.Model
		err error
	)
	if cfg != nil && cfg.CasbinModelPath != "" && fileExists(cfg.CasbinModelPath) {
		m, err = model.NewModelFromFile(cfg.CasbinModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg != nil && cfg.CasbinPolicyPath != "" && fileExists(cfg.CasbinPolicyPath) {
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.CasbinPolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &Enforcer{
		enforcer: enforcer,
		cache:    cache.New[bool]("authz_decisions", decisionTTL),
	}, nil
}

// loadEmbeddedPolicy parses policy CSV lines ("p, sub, obj, act" and "g, user, role").
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) == 4:
			if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) == 3:
			if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
			}
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	return nil
}

// Enforce reports whether role may perform action on path.
func (e *Enforcer) Enforce(role, path, action string) (bool, error) {
	start := time.Now()
	key := role + "|" + action + "|" + path
	if allowed, ok := e.cache.Get(key); ok {
		RecordAuthzDecision(role, action, allowed, true, time.Since(start))
		return allowed, nil
	}

	allowed, err := e.enforcer.Enforce(role, path, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	e.cache.Set(key, allowed)
	RecordAuthzDecision(role, action, allowed, false, time.Since(start))
	return allowed, nil
}

// RolesFor returns the roles role inherits, including implicit ones.
func (e *Enforcer) RolesFor(role string) ([]string, error) {
	return e.enforcer.GetImplicitRolesForUser(role)
}

// Close stops the decision cache.
func (e *Enforcer) Close() {
	e.cache.Close()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
