// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	stdsync "sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/tomtom215/finpick/internal/auth"
	"github.com/tomtom215/finpick/internal/authz"
	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/exchange"
	"github.com/tomtom215/finpick/internal/ledger"
	"github.com/tomtom215/finpick/internal/models"
	"github.com/tomtom215/finpick/internal/questionnaire"
	"github.com/tomtom215/finpick/internal/recommend"
	syncpkg "github.com/tomtom215/finpick/internal/sync"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "admin-password-123"
	testPassword      = "password123"
)

// fakeFinlife serves one page per group and kind.
type fakeFinlife struct {
	mu       stdsync.Mutex
	products map[models.ProductKind]*syncpkg.ProductPage
	fail     error
}

func (f *fakeFinlife) GetProducts(_ context.Context, kind models.ProductKind, _ string, page int) (*syncpkg.ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	if p, ok := f.products[kind]; ok && page == 1 {
		return p, nil
	}
	return &syncpkg.ProductPage{ErrCd: "000"}, nil
}

func (f *fakeFinlife) GetCompanies(_ context.Context, _ string, _ int) (*syncpkg.CompanyPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	return &syncpkg.CompanyPage{
		ErrCd:     "000",
		MaxPageNo: 1,
		BaseList: []syncpkg.CompanyBase{
			{FinCoNo: "0010001", KorCoNm: "우리은행"},
			{FinCoNo: "0010002", KorCoNm: "SBI저축은행"},
		},
	}, nil
}

// fakeRates publishes the same table every weekday.
type fakeRates struct {
	mu    stdsync.Mutex
	table []models.ExchangeRate
	fail  error
}

func (f *fakeRates) DailyRates(_ context.Context, day time.Time) ([]models.ExchangeRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		return nil, nil
	}
	return f.table, nil
}

type testEnv struct {
	t        *testing.T
	db       *database.DB
	router   http.Handler
	accounts *auth.Service
	finlife  *fakeFinlife
	rates    *fakeRates
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		Finlife:  config.FinlifeConfig{GroupCodes: []string{"020000"}, CompanyGroupCode: "020000"},
		Exchange: config.ExchangeConfig{LookbackDays: 5, CacheTTL: time.Minute},
		Recommend: config.RecommendConfig{
			FirstTierBanks: []string{"우리은행", "국민은행"},
			Limit:          10,
			DisplayPenalty: 1,
			Seed:           1,
		},
		Catalog: config.CatalogConfig{SavingBanks: []string{"SBI저축은행"}, DefaultPageSize: 8, MaxPageSize: 100},
		Security: config.SecurityConfig{
			JWTSecret:         "test_secret_with_at_least_32_characters_for_testing",
			SessionTimeout:    time.Hour,
			BcryptCost:        4,
			RateLimitDisabled: true,
		},
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	revocations, err := auth.OpenRevocationStore("")
	if err != nil {
		t.Fatalf("OpenRevocationStore: %v", err)
	}
	t.Cleanup(func() { _ = revocations.Close() })

	enforcer, err := authz.NewEnforcer(&cfg.Security)
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}

	finlife := &fakeFinlife{products: make(map[models.ProductKind]*syncpkg.ProductPage)}
	rates := &fakeRates{table: []models.ExchangeRate{
		{CurUnit: "USD", CurNm: "미국 달러", DealBasR: decimal.NewFromInt(1300)},
		{CurUnit: "JPY(100)", CurNm: "일본 옌", DealBasR: decimal.NewFromInt(900)},
	}}
	exchangeSvc := exchange.NewService(rates, db, &cfg.Exchange)
	t.Cleanup(exchangeSvc.Close)

	accounts := auth.NewService(db, jwtManager, revocations, cfg.Security.BcryptCost)
	if err := accounts.SeedAdmin(context.Background(), testAdminUser, testAdminPassword); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}

	handler := NewHandler(Deps{
		DB:            db,
		Synchronizer:  syncpkg.NewSynchronizer(db, finlife, &cfg.Finlife),
		Ledger:        ledger.New(db),
		Questionnaire: questionnaire.NewService(db, nil),
		Recommender:   recommend.NewAssembler(db, &cfg.Recommend, nil),
		Exchange:      exchangeSvc,
		Accounts:      accounts,
		Config:        cfg,
		Version:       "test",
	})
	router := NewRouter(handler,
		auth.NewMiddleware(jwtManager, revocations),
		authz.NewMiddleware(enforcer),
		NewChiMiddleware(ChiMiddlewareConfigFrom(&cfg.Security)),
	)

	return &testEnv{
		t:        t,
		db:       db,
		router:   router.SetupChi(),
		accounts: accounts,
		finlife:  finlife,
		rates:    rates,
	}
}

// do sends a request through the full router. body may be nil, a string
// (sent verbatim) or any value encoded as JSON.
func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			e.t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors models.APIResponse with the payload left raw.
type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

// decodeData unmarshals the envelope's data into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if env.Status != statusSuccess {
		t.Fatalf("status = %q, error %+v", env.Status, env.Error)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

// expectError asserts the HTTP status and envelope error code.
func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) *models.APIError {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("HTTP status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Fatalf("error code = %q, want %q", env.Error.Code, code)
	}
	return env.Error
}

// signup registers username and returns its token and user ID.
func (e *testEnv) signup(username string) (string, int64) {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/v1/accounts/signup", "", models.SignupRequest{
		Username:  username,
		Password1: testPassword,
		Password2: testPassword,
		Nickname:  username + "nick",
	})
	if rec.Code != http.StatusCreated {
		e.t.Fatalf("signup %s: status %d body %s", username, rec.Code, rec.Body.String())
	}
	var resp models.AuthResponse
	decodeData(e.t, rec, &resp)
	return resp.Token, resp.User.ID
}

func (e *testEnv) adminToken() string {
	e.t.Helper()
	resp, err := e.accounts.Login(context.Background(), testAdminUser, testAdminPassword)
	if err != nil {
		e.t.Fatalf("admin login: %v", err)
	}
	return resp.Token
}

// seedProduct inserts a product whose options carry the given
// (base, preferential) rate pairs with 12-month terms.
func (e *testEnv) seedProduct(kind models.ProductKind, code, bank string, rates ...[2]float64) {
	e.t.Helper()
	item := &database.CatalogItem{
		Bank: models.Bank{FinCoNo: "co-" + bank, KorCoNm: bank},
		Product: models.Product{
			Kind:      kind,
			FinPrdtCd: code,
			FinCoNo:   "co-" + bank,
			KorCoNm:   bank,
			FinPrdtNm: code + " 상품",
			JoinDeny:  1,
		},
	}
	for _, r := range rates {
		item.Options = append(item.Options, models.ProductOption{
			Kind:           kind,
			FinPrdtCd:      code,
			IntrRateTypeNm: "단리",
			IntrRate:       r[0],
			IntrRate2:      r[1],
			SaveTrm:        12,
		})
	}
	if err := e.db.InsertCatalogItem(context.Background(), item); err != nil {
		e.t.Fatalf("seed %s: %v", code, err)
	}
}

// optionIDs returns the option IDs of a seeded product.
func (e *testEnv) optionIDs(kind models.ProductKind, code string) []int64 {
	e.t.Helper()
	p, err := e.db.GetProductWithOptions(context.Background(), kind, code)
	if err != nil {
		e.t.Fatalf("load %s: %v", code, err)
	}
	ids := make([]int64, len(p.Options))
	for i, o := range p.Options {
		ids[i] = o.ID
	}
	return ids
}
