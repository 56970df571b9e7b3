// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package sync

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/database"
	"github.com/tomtom215/finpick/internal/models"
)

// mockStore is an in-memory CatalogStore.
type mockStore struct {
	mu        sync.Mutex
	products  map[string]*database.CatalogItem
	banks     map[string]models.Bank
	failCodes map[string]error // InsertCatalogItem error per product code
}

func newMockStore() *mockStore {
	return &mockStore{
		products:  make(map[string]*database.CatalogItem),
		banks:     make(map[string]models.Bank),
		failCodes: make(map[string]error),
	}
}

func storeKey(kind models.ProductKind, code string) string { return string(kind) + ":" + code }

func (m *mockStore) ProductExists(_ context.Context, kind models.ProductKind, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.products[storeKey(kind, code)]
	return ok, nil
}

func (m *mockStore) InsertCatalogItem(_ context.Context, item *database.CatalogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failCodes[item.Product.FinPrdtCd]; err != nil {
		return err
	}
	if _, ok := m.banks[item.Bank.FinCoNo]; !ok {
		m.banks[item.Bank.FinCoNo] = item.Bank
	}
	m.products[storeKey(item.Product.Kind, item.Product.FinPrdtCd)] = item
	return nil
}

func (m *mockStore) EnsureBank(_ context.Context, bank models.Bank) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.banks[bank.FinCoNo]; ok {
		return false, nil
	}
	m.banks[bank.FinCoNo] = bank
	return true, nil
}

// mockClient serves canned pages keyed by "group/page".
type mockClient struct {
	mu        sync.Mutex
	products  map[string]*ProductPage
	companies map[string]*CompanyPage
	failAt    string
	calls     []string
	block     chan struct{}
}

func (c *mockClient) GetProducts(ctx context.Context, kind models.ProductKind, groupCode string, page int) (*ProductPage, error) {
	key := fmt.Sprintf("%s/%d", groupCode, page)
	c.mu.Lock()
	c.calls = append(c.calls, key)
	block := c.block
	c.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if key == c.failAt {
		return nil, fmt.Errorf("%w: status 500", ErrUpstream)
	}
	if p, ok := c.products[key]; ok {
		return p, nil
	}
	return &ProductPage{ErrCd: finlifeOK}, nil
}

func (c *mockClient) GetCompanies(_ context.Context, groupCode string, page int) (*CompanyPage, error) {
	key := fmt.Sprintf("%s/%d", groupCode, page)
	if key == c.failAt {
		return nil, fmt.Errorf("%w: status 500", ErrUpstream)
	}
	if p, ok := c.companies[key]; ok {
		return p, nil
	}
	return &CompanyPage{ErrCd: finlifeOK}, nil
}

func product(code, bank string) ProductBase {
	return ProductBase{FinPrdtCd: code, FinCoNo: "co-" + bank, KorCoNm: bank, FinPrdtNm: code + " 상품", JoinDeny: 1}
}

func option(code string, rate, rate2 float64, term int) ProductOptionItem {
	return ProductOptionItem{FinPrdtCd: code, IntrRateTypeNm: "단리", IntrRate: flexFloat(rate), IntrRate2: flexFloat(rate2), SaveTrm: flexInt(term)}
}

func testFinlifeConfig() *config.FinlifeConfig {
	return &config.FinlifeConfig{GroupCodes: []string{"020000"}, CompanyGroupCode: "020000"}
}

func TestSyncSavesSkipsAndFails(t *testing.T) {
	store := newMockStore()
	store.products[storeKey(models.ProductKindDeposit, "OLD")] = &database.CatalogItem{}
	store.failCodes["BROKEN"] = errors.New("failed to begin transaction")
	store.failCodes["RACE"] = fmt.Errorf("%w: duplicate key", database.ErrConflict)

	client := &mockClient{products: map[string]*ProductPage{
		"020000/1": {
			ErrCd:     finlifeOK,
			MaxPageNo: 2,
			BaseList:  []ProductBase{product("A", "우리은행"), product("OLD", "우리은행"), {FinPrdtCd: "", FinCoNo: "x"}},
			OptionList: []ProductOptionItem{
				option("A", 3.0, 3.5, 6), option("A", 3.2, 3.8, 12), option("OLD", 1, 1, 6),
			},
		},
		"020000/2": {
			ErrCd:      finlifeOK,
			MaxPageNo:  2,
			BaseList:   []ProductBase{product("B", "하나은행"), product("BROKEN", "하나은행"), product("RACE", "하나은행")},
			OptionList: []ProductOptionItem{option("B", 2.5, 2.9, 24)},
		},
	}}

	s := NewSynchronizer(store, client, testFinlifeConfig())
	res, err := s.Sync(context.Background(), models.ProductKindDeposit, nil)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if res.Saved != 2 || res.Skipped != 2 || res.Failed != 2 {
		t.Errorf("counts = saved %d skipped %d failed %d, want 2/2/2", res.Saved, res.Skipped, res.Failed)
	}
	if !strings.Contains(res.Message, "새로 저장: 2개") {
		t.Errorf("message = %q", res.Message)
	}
	if got := strings.Join(client.calls, ","); got != "020000/1,020000/2" {
		t.Errorf("page calls = %s, want 020000/1,020000/2", got)
	}

	a := store.products[storeKey(models.ProductKindDeposit, "A")]
	if a == nil || len(a.Options) != 2 || a.Options[1].SaveTrm != 12 || a.Options[1].IntrRate2 != 3.8 {
		t.Fatalf("product A stored incorrectly: %+v", a)
	}
	if a.Bank.KorCoNm != "우리은행" || a.Product.Kind != models.ProductKindDeposit {
		t.Errorf("product A bank/kind = %+v / %s", a.Bank, a.Product.Kind)
	}
}

func TestSyncPagingGuard(t *testing.T) {
	tests := []struct {
		name      string
		pages     map[string]*ProductPage
		wantCalls string
	}{
		{
			name: "max_page_no absent means one page",
			pages: map[string]*ProductPage{
				"020000/1": {ErrCd: finlifeOK, BaseList: []ProductBase{product("A", "b")}},
				"020000/2": {ErrCd: finlifeOK, BaseList: []ProductBase{product("B", "b")}},
			},
			wantCalls: "020000/1",
		},
		{
			name: "empty baseList stops early",
			pages: map[string]*ProductPage{
				"020000/1": {ErrCd: finlifeOK, MaxPageNo: 5, BaseList: []ProductBase{product("A", "b")}},
			},
			wantCalls: "020000/1,020000/2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{products: tt.pages}
			s := NewSynchronizer(newMockStore(), client, testFinlifeConfig())
			if _, err := s.Sync(context.Background(), models.ProductKindSaving, nil); err != nil {
				t.Fatalf("Sync() error = %v", err)
			}
			if got := strings.Join(client.calls, ","); got != tt.wantCalls {
				t.Errorf("calls = %s, want %s", got, tt.wantCalls)
			}
		})
	}
}

func TestSyncAbortsOnPageFailure(t *testing.T) {
	client := &mockClient{
		products: map[string]*ProductPage{
			"020000/1": {ErrCd: finlifeOK, MaxPageNo: 3, BaseList: []ProductBase{product("A", "b")}},
		},
		failAt: "020000/2",
	}
	s := NewSynchronizer(newMockStore(), client, &config.FinlifeConfig{GroupCodes: []string{"020000", "030300"}})

	res, err := s.Sync(context.Background(), models.ProductKindDeposit, nil)
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("Sync() error = %v, want ErrUpstream", err)
	}
	if res == nil || res.Saved != 1 {
		t.Errorf("partial result = %+v, want 1 saved", res)
	}
	for _, c := range client.calls {
		if strings.HasPrefix(c, "030300") {
			t.Errorf("second group was fetched after abort: %v", client.calls)
		}
	}
}

func TestSyncRejectsConcurrentRunForSameKind(t *testing.T) {
	client := &mockClient{
		products: map[string]*ProductPage{"020000/1": {ErrCd: finlifeOK, BaseList: []ProductBase{product("A", "b")}}},
		block:    make(chan struct{}),
	}
	s := NewSynchronizer(newMockStore(), client, testFinlifeConfig())

	done := make(chan error, 1)
	go func() {
		_, err := s.Sync(context.Background(), models.ProductKindDeposit, nil)
		done <- err
	}()

	// Wait until the first run is inside the client.
	for {
		client.mu.Lock()
		n := len(client.calls)
		client.mu.Unlock()
		if n > 0 {
			break
		}
		runtime.Gosched()
	}

	if _, err := s.Sync(context.Background(), models.ProductKindDeposit, nil); !errors.Is(err, ErrSyncInProgress) {
		t.Errorf("second Sync() error = %v, want ErrSyncInProgress", err)
	}

	close(client.block)
	if err := <-done; err != nil {
		t.Fatalf("first Sync() error = %v", err)
	}

	// The guard is released once the run finishes.
	if _, err := s.Sync(context.Background(), models.ProductKindDeposit, nil); err != nil {
		t.Errorf("Sync() after release error = %v", err)
	}
}

func TestSyncRejectsUnknownKind(t *testing.T) {
	s := NewSynchronizer(newMockStore(), &mockClient{}, testFinlifeConfig())
	if _, err := s.Sync(context.Background(), models.ProductKind("loan"), nil); err == nil {
		t.Error("Sync() accepted an unknown kind")
	}
}

func TestSyncBanks(t *testing.T) {
	store := newMockStore()
	store.banks["0010001"] = models.Bank{FinCoNo: "0010001", KorCoNm: "기존 이름"}

	client := &mockClient{companies: map[string]*CompanyPage{
		"020000/1": {ErrCd: finlifeOK, BaseList: []CompanyBase{
			{FinCoNo: "0010001", KorCoNm: "우리은행"},
			{FinCoNo: "0010927", KorCoNm: "국민은행", CalTel: "1588-9999"},
			{FinCoNo: " ", KorCoNm: "코드없음"},
		}},
	}}

	s := NewSynchronizer(store, client, testFinlifeConfig())
	res, err := s.SyncBanks(context.Background(), "")
	if err != nil {
		t.Fatalf("SyncBanks() error = %v", err)
	}
	if res.Saved != 1 || res.Skipped != 1 || res.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", res.Saved, res.Skipped, res.Failed)
	}
	if store.banks["0010001"].KorCoNm != "기존 이름" {
		t.Error("existing bank was modified")
	}
	if res.Message != "은행 정보 저장이 완료되었습니다." {
		t.Errorf("message = %q", res.Message)
	}
}

func TestSyncAllJoinsErrors(t *testing.T) {
	client := &mockClient{failAt: "020000/1"}
	s := NewSynchronizer(newMockStore(), client, testFinlifeConfig())

	results, err := s.SyncAll(context.Background())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("SyncAll() error = %v, want ErrUpstream", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestMaxPage(t *testing.T) {
	t.Parallel()
	for in, want := range map[int]int{-1: 1, 0: 1, 1: 1, 7: 7} {
		if got := maxPage(in); got != want {
			t.Errorf("maxPage(%d) = %d, want %d", in, got, want)
		}
	}
}
