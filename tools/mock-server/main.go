// Package main implements a mock CSFloat API server for local development.
// It serves listings and sale history from JSON fixtures, requires an
// Authorization header, and reports a shrinking rate limit quota so the
// client's breaker and quota logging can be exercised without a real key.
package main

import (
	"cmp"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strconv"
	"sync"
	"time"
)

// fixtureRecord is the subset of a listing or sale the server filters on.
type fixtureRecord struct {
	raw            json.RawMessage
	id             string
	price          int64
	createdAt      time.Time
	marketHashName string
}

type recordFields struct {
	ID        string    `json:"id"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	Item      struct {
		MarketHashName string `json:"market_hash_name"`
	} `json:"item"`
}

// quota tracks the rate limit reported on every response.
type quota struct {
	mu        sync.Mutex
	limit     int
	remaining int
	window    time.Duration
	resetAt   time.Time
	now       func() time.Time
}

func newQuota(limit int, window time.Duration) *quota {
	q := &quota{limit: limit, remaining: limit, window: window, now: time.Now}
	q.resetAt = q.now().Add(window)
	return q
}

// take consumes one call and reports the headers to send and whether the
// call is allowed.
func (q *quota) take() (remaining int, resetAt time.Time, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if now := q.now(); !now.Before(q.resetAt) {
		q.remaining = q.limit
		q.resetAt = now.Add(q.window)
	}
	if q.remaining == 0 {
		return 0, q.resetAt, false
	}
	q.remaining--
	return q.remaining, q.resetAt, true
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	listingsFile := flag.String("listings", "tools/mock-server/testdata/listings.json", "listings fixture")
	salesFile := flag.String("sales", "tools/mock-server/testdata/sales.json", "sale history fixture")
	limit := flag.Int("rate-limit", 200, "calls allowed per window")
	window := flag.Duration("rate-window", time.Hour, "rate limit window")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	listings, err := loadFixture(*listingsFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *listingsFile, "error", err)
		os.Exit(1)
	}
	sales, err := loadFixture(*salesFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *salesFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixtures", "listings", len(listings), "sales", len(sales))

	handler := newHandler(logger, listings, sales, newQuota(*limit, *window))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock CSFloat server", "addr", addr, "base_url", "http://localhost"+addr+"/api/v1")

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newHandler(logger *slog.Logger, listings, sales []fixtureRecord, q *quota) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/listings", listingsHandler(logger, listings))
	mux.HandleFunc("GET /api/v1/listings/{id}", listingHandler(listings))
	mux.HandleFunc("GET /api/v1/history/{name}/sales", salesHandler(logger, sales))
	mux.HandleFunc("POST /api/v1/buy-orders", createBuyOrderHandler(logger))
	mux.HandleFunc("DELETE /api/v1/buy-orders/{id}", deleteBuyOrderHandler(logger))
	mux.HandleFunc("GET /api/v1/meta/exchange-rates", exchangeRatesHandler)
	mux.HandleFunc("GET /api/v1/meta/location", locationHandler)

	return requestLogger(logger, rateLimited(q, requireAuth(mux)))
}

func loadFixture(path string) ([]fixtureRecord, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}

	records := make([]fixtureRecord, 0, len(raws))
	for i, raw := range raws {
		var f recordFields
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parsing fixture record %d: %w", i, err)
		}
		records = append(records, fixtureRecord{
			raw:            raw,
			id:             f.ID,
			price:          f.Price,
			createdAt:      f.CreatedAt,
			marketHashName: f.Item.MarketHashName,
		})
	}
	return records, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"code":    1,
				"message": "you must be logged in to access this endpoint",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func rateLimited(q *quota, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remaining, resetAt, ok := q.take()
		w.Header().Set("X-Ratelimit-Limit", strconv.Itoa(q.limit))
		w.Header().Set("X-Ratelimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-Ratelimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
		if !ok {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"message": "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func listingsHandler(logger *slog.Logger, listings []fixtureRecord) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit := 50
		if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 && v <= 50 {
			limit = v
		}
		page := 0
		if v, err := strconv.Atoi(q.Get("page")); err == nil && v >= 0 {
			page = v
		}
		minPrice, hasMin := parseInt64(q.Get("min_price"))
		maxPrice, hasMax := parseInt64(q.Get("max_price"))
		name := q.Get("market_hash_name")

		matched := make([]fixtureRecord, 0, len(listings))
		for _, l := range listings {
			if name != "" && l.marketHashName != name {
				continue
			}
			if hasMin && l.price < minPrice {
				continue
			}
			if hasMax && l.price > maxPrice {
				continue
			}
			matched = append(matched, l)
		}

		sortListings(matched, q.Get("sort_by"))

		out := []json.RawMessage{}
		if start := page * limit; start < len(matched) {
			for _, l := range matched[start:min(start+limit, len(matched))] {
				out = append(out, l.raw)
			}
		}

		writeJSON(w, http.StatusOK, out)
		logger.Info("listings", "matched", len(matched), "returned", len(out), "page", page, "limit", limit)
	}
}

func sortListings(records []fixtureRecord, sortBy string) {
	switch sortBy {
	case "lowest_price":
		slices.SortStableFunc(records, func(a, b fixtureRecord) int { return cmp.Compare(a.price, b.price) })
	case "highest_price":
		slices.SortStableFunc(records, func(a, b fixtureRecord) int { return cmp.Compare(b.price, a.price) })
	case "most_recent":
		slices.SortStableFunc(records, func(a, b fixtureRecord) int { return b.createdAt.Compare(a.createdAt) })
	}
}

func listingHandler(listings []fixtureRecord) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		for _, l := range listings {
			if l.id == id {
				writeJSON(w, http.StatusOK, l.raw)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "listing not found"})
	}
}

func salesHandler(logger *slog.Logger, sales []fixtureRecord) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		out := []json.RawMessage{}
		for _, s := range sales {
			if s.marketHashName == name {
				out = append(out, s.raw)
			}
		}
		writeJSON(w, http.StatusOK, out)
		logger.Info("sale history", "market_hash_name", name, "returned", len(out))
	}
}

func createBuyOrderHandler(logger *slog.Logger) http.HandlerFunc {
	var seq int64 = 900000000000000000
	var mu sync.Mutex

	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			MarketHashName string `json:"market_hash_name"`
			MaxPrice       int64  `json:"max_price"`
			Quantity       int    `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MarketHashName == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid buy order"})
			return
		}

		mu.Lock()
		seq++
		id := strconv.FormatInt(seq, 10)
		mu.Unlock()

		writeJSON(w, http.StatusOK, map[string]any{
			"id":               id,
			"created_at":       time.Now().UTC().Format(time.RFC3339),
			"market_hash_name": body.MarketHashName,
			"qty":              body.Quantity,
			"price":            body.MaxPrice,
		})
		logger.Info("created buy order", "id", id, "market_hash_name", body.MarketHashName)
	}
}

func deleteBuyOrderHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "successfully removed the order"})
		logger.Info("deleted buy order", "id", r.PathValue("id"))
	}
}

func exchangeRatesHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]float64{"usd": 1, "eur": 0.92, "gbp": 0.79, "cny": 7.24},
	})
}

func locationHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"inferred_location": map[string]string{"currency": "USD", "country": "US"},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func parseInt64(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}
