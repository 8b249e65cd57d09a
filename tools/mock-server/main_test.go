package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/donaldgifford/csfloat-tracker/internal/csfloat"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadTestFixtures(t *testing.T) (listings, sales []fixtureRecord) {
	t.Helper()
	listings, err := loadFixture(filepath.Join("testdata", "listings.json"))
	if err != nil {
		t.Fatalf("loading listings: %v", err)
	}
	sales, err = loadFixture(filepath.Join("testdata", "sales.json"))
	if err != nil {
		t.Fatalf("loading sales: %v", err)
	}
	return listings, sales
}

func newTestServer(t *testing.T, limit int) *httptest.Server {
	t.Helper()
	listings, sales := loadTestFixtures(t)
	srv := httptest.NewServer(newHandler(testLogger(), listings, sales, newQuota(limit, time.Hour)))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *csfloat.Client {
	t.Helper()
	c, err := csfloat.New("mock-key",
		csfloat.WithBaseURL(srv.URL+"/api/v1"),
		csfloat.WithHTTPClient(srv.Client()),
		csfloat.WithRequestInterval(time.Millisecond),
	)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestLoadFixture(t *testing.T) {
	listings, sales := loadTestFixtures(t)
	if len(listings) != 2 {
		t.Fatalf("listings=%d, want 2", len(listings))
	}
	if len(sales) == 0 {
		t.Fatal("expected sales in fixture")
	}
	if listings[0].marketHashName == "" || listings[0].price == 0 {
		t.Errorf("fixture fields not indexed: %+v", listings[0])
	}
}

func TestLoadFixture_Missing(t *testing.T) {
	if _, err := loadFixture(filepath.Join("testdata", "absent.json")); err == nil {
		t.Fatal("expected error for missing fixture")
	}
}

func TestRequireAuth(t *testing.T) {
	srv := newTestServer(t, 10)

	resp, err := http.Get(srv.URL + "/api/v1/listings")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestListingsHandler_SortAndFilter(t *testing.T) {
	srv := newTestServer(t, 10)
	c := newTestClient(t, srv)
	ctx := context.Background()

	listings, err := c.GetListings(ctx, csfloat.ListingsFilter{SortBy: csfloat.SortLowestPrice})
	if err != nil {
		t.Fatalf("GetListings: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("listings=%d, want 2", len(listings))
	}
	if listings[0].Price > listings[1].Price {
		t.Errorf("not sorted by lowest price: %d > %d", listings[0].Price, listings[1].Price)
	}

	filtered, err := c.GetListings(ctx, csfloat.ListingsFilter{
		MarketHashName: csfloat.Ptr("AK-47 | Case Hardened (Minimal Wear)"),
	})
	if err != nil {
		t.Fatalf("GetListings filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != "324288155723370196" {
		t.Errorf("filtered=%+v, want the case hardened listing", filtered)
	}
}

func TestListingHandler_NotFound(t *testing.T) {
	srv := newTestServer(t, 10)
	c := newTestClient(t, srv)

	_, err := c.GetListing(context.Background(), "missing")
	if !errors.Is(err, csfloat.ErrClassifiedHTTP) {
		t.Fatalf("err=%v, want classified HTTP error", err)
	}
}

func TestSalesHandler(t *testing.T) {
	srv := newTestServer(t, 10)
	c := newTestClient(t, srv)

	sales, err := c.GetSaleHistory(context.Background(), "★ Karambit | Gamma Doppler (Factory New)", nil)
	if err != nil {
		t.Fatalf("GetSaleHistory: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("sales=%d, want 2", len(sales))
	}

	none, err := c.GetSaleHistory(context.Background(), "Unknown Item", nil)
	if err != nil {
		t.Fatalf("GetSaleHistory unknown: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("sales=%d, want 0", len(none))
	}
}

func TestBuyOrderHandlers(t *testing.T) {
	srv := newTestServer(t, 10)
	c := newTestClient(t, srv)
	ctx := context.Background()

	order, err := c.CreateBuyOrder(ctx, "AK-47 | Redline (Field-Tested)", 1250, 2)
	if err != nil {
		t.Fatalf("CreateBuyOrder: %v", err)
	}
	if order.Qty != 2 || order.Price != 1250 || order.ID == "" {
		t.Errorf("order=%+v", order)
	}

	if err := c.DeleteBuyOrder(ctx, order.ID); err != nil {
		t.Fatalf("DeleteBuyOrder: %v", err)
	}
}

func TestMetaHandlers(t *testing.T) {
	srv := newTestServer(t, 10)
	c := newTestClient(t, srv)
	ctx := context.Background()

	rates, err := c.GetExchangeRates(ctx)
	if err != nil {
		t.Fatalf("GetExchangeRates: %v", err)
	}
	if rates["usd"] != 1 {
		t.Errorf("usd=%v, want 1", rates["usd"])
	}

	loc, err := c.GetLocation(ctx)
	if err != nil {
		t.Fatalf("GetLocation: %v", err)
	}
	if loc.Country != "US" || loc.Currency != "USD" {
		t.Errorf("location=%+v", loc)
	}
}

func TestRateLimited(t *testing.T) {
	srv := newTestServer(t, 2)
	c := newTestClient(t, srv)
	ctx := context.Background()

	for i := range 2 {
		if _, err := c.GetExchangeRates(ctx); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if rl := c.LastRateLimit(); rl.Remaining != 0 || rl.Limit != 2 {
		t.Errorf("rate limit=%+v, want 0 of 2 remaining", rl)
	}

	_, err := c.GetExchangeRates(ctx)
	if !errors.Is(err, csfloat.ErrRateLimited) {
		t.Fatalf("err=%v, want rate limited", err)
	}
}

func TestRateLimited_BreakerOpens(t *testing.T) {
	srv := newTestServer(t, 3)
	c := newTestClient(t, srv)
	b := csfloat.NewBreaker(2)
	ctx := context.Background()

	for i := range 2 {
		if _, err := c.GetSaleHistory(ctx, "★ Karambit | Gamma Doppler (Factory New)", b); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	_, err := c.GetSaleHistory(ctx, "★ Karambit | Gamma Doppler (Factory New)", b)
	if !errors.Is(err, csfloat.ErrBreakerOpen) {
		t.Fatalf("err=%v, want breaker open", err)
	}
}

func TestQuota_ResetsAfterWindow(t *testing.T) {
	now := time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)
	q := newQuota(1, time.Minute)
	q.now = func() time.Time { return now }
	q.resetAt = now.Add(time.Minute)

	if _, _, ok := q.take(); !ok {
		t.Fatal("first call should be allowed")
	}
	if _, _, ok := q.take(); ok {
		t.Fatal("second call should be refused")
	}

	now = now.Add(time.Minute)
	remaining, resetAt, ok := q.take()
	if !ok || remaining != 0 {
		t.Fatalf("after reset: ok=%v remaining=%d", ok, remaining)
	}
	if !resetAt.Equal(now.Add(time.Minute)) {
		t.Errorf("resetAt=%v, want %v", resetAt, now.Add(time.Minute))
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusCreated, map[string]string{"message": "ok"})

	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d", w.Code)
	}
	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if got["message"] != "ok" {
		t.Errorf("message=%q", got["message"])
	}
}
