package csfloat_test

import (
	"context"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/csfloat-tracker/internal/csfloat"
)

func TestBreaker(t *testing.T) {
	t.Parallel()

	b := csfloat.NewBreaker(2)
	low := csfloat.RateLimit{Remaining: 4, Present: true}
	ok := csfloat.RateLimit{Remaining: 5, Present: true}

	require.NoError(t, b.Allow())
	assert.False(t, b.Observe(ok))
	assert.False(t, b.Observe(csfloat.RateLimit{}))
	assert.False(t, b.Observe(low))
	require.NoError(t, b.Allow())
	assert.True(t, b.Observe(low))
	require.ErrorIs(t, b.Allow(), csfloat.ErrBreakerOpen)
	assert.Equal(t, 2, b.Count())

	b.Reset()
	require.NoError(t, b.Allow())
	assert.Zero(t, b.Count())
}

func TestBreaker_Defaults(t *testing.T) {
	t.Parallel()

	b := csfloat.NewBreaker(0, csfloat.WithLowWater(100))
	for range 9 {
		b.Observe(csfloat.RateLimit{Remaining: 50, Present: true})
	}
	require.NoError(t, b.Allow())
	assert.True(t, b.Observe(csfloat.RateLimit{Remaining: 99, Present: true}))
	require.ErrorIs(t, b.Allow(), csfloat.ErrBreakerOpen)
}

func TestClient_GetSaleHistory(t *testing.T) {
	t.Parallel()

	fixture := loadFixture(t, "sales.json")

	var remaining atomic.Int64
	remaining.Store(6)

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/history/%E2%98%85%20Karambit%20%7C%20Gamma%20Doppler%20%28Factory%20New%29/sales",
			r.URL.EscapedPath())
		w.Header().Set("X-Ratelimit-Limit", "200")
		w.Header().Set("X-Ratelimit-Remaining", strconv.FormatInt(remaining.Add(-1), 10))
		writeJSON(w, http.StatusOK, string(fixture))
	})

	const name = "★ Karambit | Gamma Doppler (Factory New)"
	b := csfloat.NewBreaker(2)
	ctx := context.Background()

	// remaining 5: not low
	sales, err := c.GetSaleHistory(ctx, name, b)
	require.NoError(t, err)
	assert.Len(t, sales, 2)
	assert.Zero(t, b.Count())

	// remaining 4 then 3: two low observations open the breaker
	_, err = c.GetSaleHistory(ctx, name, b)
	require.NoError(t, err)
	_, err = c.GetSaleHistory(ctx, name, b)
	require.NoError(t, err)

	_, err = c.GetSaleHistory(ctx, name, b)
	require.ErrorIs(t, err, csfloat.ErrBreakerOpen)
	assert.Equal(t, int32(3), calls.Load())

	// A nil breaker never blocks.
	_, err = c.GetSaleHistory(ctx, name, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(4), calls.Load())
}

func TestClient_GetSaleHistory_ClassifiedErrorStillObserved(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Ratelimit-Remaining", "0")
		writeJSON(w, http.StatusTooManyRequests, `{}`)
	})

	b := csfloat.NewBreaker(1)
	_, err := c.GetSaleHistory(context.Background(), "AK-47 | Redline (Field-Tested)", b)
	require.ErrorIs(t, err, csfloat.ErrRateLimited)
	require.ErrorIs(t, b.Allow(), csfloat.ErrBreakerOpen)
}
