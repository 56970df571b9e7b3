// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/models"
)

type fakeCatalog struct {
	kind      models.ProductKind
	groups    []string
	bankGroup string
	banks     bool
	err       error
}

func (f *fakeCatalog) Sync(_ context.Context, kind models.ProductKind, groups []string) (*models.SyncResult, error) {
	f.kind, f.groups = kind, groups
	if f.err != nil {
		return nil, f.err
	}
	return &models.SyncResult{Kind: string(kind), Saved: 4, Skipped: 2}, nil
}

func (f *fakeCatalog) SyncBanks(_ context.Context, group string) (*models.SyncResult, error) {
	f.banks, f.bankGroup = true, group
	return &models.SyncResult{Kind: "banks", Saved: 17}, nil
}

type fakeRates struct {
	days []time.Time
	err  error
}

func (f *fakeRates) Record(_ context.Context, day time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.days = append(f.days, day)
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		return 0, nil
	}
	return 23, nil
}

type fakeSchema struct {
	history []database.Migration
}

func (f *fakeSchema) Migrate(context.Context) (int, error)       { return 2, nil }
func (f *fakeSchema) SchemaVersion(context.Context) (int, error) { return 7, nil }
func (f *fakeSchema) MigrationHistory(context.Context) ([]database.Migration, error) {
	return f.history, nil
}

type fakeUsers struct {
	users   map[string]*models.User
	deleted []int64
}

func (f *fakeUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, database.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) DeleteUser(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type harness struct {
	catalog *fakeCatalog
	rates   *fakeRates
	schema  *fakeSchema
	users   *fakeUsers
	opened  int
	closed  int
}

func newHarness() *harness {
	return &harness{
		catalog: &fakeCatalog{},
		rates:   &fakeRates{},
		schema:  &fakeSchema{},
		users: &fakeUsers{users: map[string]*models.User{
			"alice": {ID: 7, Username: "alice", Role: models.RoleUser},
			"admin": {ID: 1, Username: "admin", Role: models.RoleAdmin},
		}},
	}
}

func (h *harness) open() (*Services, error) {
	h.opened++
	return &Services{
		Catalog: h.catalog,
		Rates:   h.rates,
		Schema:  h.schema,
		Users:   h.users,
		Close:   func() { h.closed++ },
	}, nil
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.ConfigPathEnvVar, "")

	var out bytes.Buffer
	cmd := NewRootCommand("test", h.open)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSyncCommand(t *testing.T) {
	t.Run("product kind with groups", func(t *testing.T) {
		h := newHarness()
		out, err := h.run(t, "sync", "saving", "--group", "020000", "--group", "030300")
		require.NoError(t, err)

		assert.Equal(t, models.ProductKindSaving, h.catalog.kind)
		assert.Equal(t, []string{"020000", "030300"}, h.catalog.groups)
		assert.Contains(t, out, "saving: 4 saved, 2 skipped, 0 failed")
		assert.Equal(t, 1, h.closed)
	})

	t.Run("banks uses one group", func(t *testing.T) {
		h := newHarness()
		out, err := h.run(t, "sync", "banks", "--group", "030300")
		require.NoError(t, err)

		assert.True(t, h.catalog.banks)
		assert.Equal(t, "030300", h.catalog.bankGroup)
		assert.Contains(t, out, "banks: 17 saved")
	})

	t.Run("banks rejects several groups", func(t *testing.T) {
		h := newHarness()
		_, err := h.run(t, "sync", "banks", "--group", "020000,030300")
		assert.ErrorContains(t, err, "single --group")
	})

	t.Run("unknown target never opens services", func(t *testing.T) {
		h := newHarness()
		_, err := h.run(t, "sync", "loans")
		require.Error(t, err)
		assert.Zero(t, h.opened)
	})

	t.Run("upstream failure is wrapped", func(t *testing.T) {
		h := newHarness()
		h.catalog.err = errors.New("finlife down")
		_, err := h.run(t, "sync", "deposit")
		assert.ErrorContains(t, err, "sync deposit: finlife down")
		assert.Equal(t, 1, h.closed)
	})
}

func TestRatesCommand(t *testing.T) {
	t.Run("single day", func(t *testing.T) {
		h := newHarness()
		out, err := h.run(t, "rates", "--date", "2026-03-04")
		require.NoError(t, err)

		require.Len(t, h.rates.days, 1)
		assert.Equal(t, "2026-03-04", h.rates.days[0].Format(dayLayout))
		assert.Equal(t, "2026-03-04: 23 rates\n", out)
	})

	t.Run("backfill walks oldest first", func(t *testing.T) {
		h := newHarness()
		// 2026-03-06 is a Friday; the window covers one weekend.
		out, err := h.run(t, "rates", "--date", "2026-03-09", "--days", "4")
		require.NoError(t, err)

		require.Len(t, h.rates.days, 4)
		assert.Equal(t, "2026-03-06", h.rates.days[0].Format(dayLayout))
		assert.Equal(t, "2026-03-09", h.rates.days[3].Format(dayLayout))
		assert.Contains(t, out, "2026-03-07: 0 rates")
		assert.Contains(t, out, "total: 46 rates over 4 days")
	})

	t.Run("compact date", func(t *testing.T) {
		h := newHarness()
		_, err := h.run(t, "rates", "--date", "20260304")
		require.NoError(t, err)
		require.Len(t, h.rates.days, 1)
		assert.Equal(t, "2026-03-04", h.rates.days[0].Format(dayLayout))
	})

	t.Run("bad date", func(t *testing.T) {
		h := newHarness()
		_, err := h.run(t, "rates", "--date", "03/04/2026")
		assert.ErrorContains(t, err, "YYYY-MM-DD")
		assert.Zero(t, h.opened)
	})

	t.Run("days out of range", func(t *testing.T) {
		h := newHarness()
		_, err := h.run(t, "rates", "--days", "0")
		assert.ErrorContains(t, err, "--days")
	})
}

func TestParseDayDefaultsToNow(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	day, err := parseDay("", now)
	require.NoError(t, err)
	assert.Equal(t, now, day)
}

func TestVersionCommand(t *testing.T) {
	h := newHarness()
	out, err := h.run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "finpickctl test\n", out)
	assert.Zero(t, h.opened)
}

func TestMigrateCommand(t *testing.T) {
	h := newHarness()
	out, err := h.run(t, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "applied 2 migration(s); schema version 7\n", out)

	out, err = h.run(t, "migrate", "--status")
	require.NoError(t, err)
	assert.Equal(t, "no migrations applied\n", out)

	h.schema.history = []database.Migration{
		{Version: 1, Name: "catalog_options_index", AppliedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
	out, err = h.run(t, "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog_options_index")
	assert.Contains(t, out, "2026-01-02 03:04:05")
}

func TestUserDeleteCommand(t *testing.T) {
	t.Run("requires confirmation", func(t *testing.T) {
		h := newHarness()
		_, err := h.run(t, "user", "delete", "alice")
		assert.ErrorContains(t, err, "--yes")
		assert.Empty(t, h.users.deleted)
	})

	t.Run("deletes", func(t *testing.T) {
		h := newHarness()
		out, err := h.run(t, "user", "delete", "alice", "--yes")
		require.NoError(t, err)
		assert.Equal(t, []int64{7}, h.users.deleted)
		assert.Contains(t, out, `deleted user "alice" (id 7)`)
	})

	t.Run("unknown user", func(t *testing.T) {
		h := newHarness()
		_, err := h.run(t, "user", "delete", "bob", "--yes")
		assert.ErrorContains(t, err, "not found")
	})

	t.Run("admin is protected", func(t *testing.T) {
		h := newHarness()
		_, err := h.run(t, "user", "delete", "admin", "--yes")
		assert.ErrorContains(t, err, "admin")
		assert.Empty(t, h.users.deleted)
	})
}

func TestConfigFlagSetsEnvironment(t *testing.T) {
	h := newHarness()
	t.Setenv(config.ConfigPathEnvVar, "")

	cmd := NewRootCommand("test", h.open)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", "/etc/finpick/config.yaml", "migrate"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "/etc/finpick/config.yaml", os.Getenv(config.ConfigPathEnvVar))
}

func TestOpenerErrorPropagates(t *testing.T) {
	t.Setenv(config.ConfigPathEnvVar, "")
	cmd := NewRootCommand("test", func() (*Services, error) {
		return nil, errors.New("database locked")
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate"})
	assert.ErrorContains(t, cmd.Execute(), "database locked")
}
