package csfloat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/donaldgifford/csfloat-tracker/internal/metrics"
	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

// ErrBreakerOpen is returned when a Breaker has seen too many low-quota
// responses to allow another call.
var ErrBreakerOpen = errors.New("sale history breaker open")

const (
	defaultBreakerThreshold = 10
	defaultBreakerLowWater  = 5
)

// Breaker counts responses whose remaining rate limit quota fell below a
// low-water mark. Once the count reaches the threshold it refuses further
// calls until Reset. The caller owns it and decides its scope.
type Breaker struct {
	mu        sync.Mutex
	threshold int
	lowWater  int64
	count     int
}

// BreakerOption configures a Breaker.
type BreakerOption func(*Breaker)

// WithLowWater sets the remaining-quota mark below which a response counts
// against the breaker.
func WithLowWater(n int64) BreakerOption {
	return func(b *Breaker) {
		b.lowWater = n
	}
}

// NewBreaker creates a breaker that opens after threshold low-quota
// responses. A non-positive threshold uses 10.
func NewBreaker(threshold int, opts ...BreakerOption) *Breaker {
	if threshold <= 0 {
		threshold = defaultBreakerThreshold
	}
	b := &Breaker{threshold: threshold, lowWater: defaultBreakerLowWater}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Allow reports ErrBreakerOpen once the threshold has been reached.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count >= b.threshold {
		return ErrBreakerOpen
	}
	return nil
}

// Observe counts rl against the breaker when its remaining quota is below the
// low-water mark. It reports whether this observation opened the breaker.
func (b *Breaker) Observe(rl RateLimit) bool {
	if !rl.Low(b.lowWater) {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.count++
	return b.count == b.threshold
}

// Count returns the number of low-quota responses seen since the last Reset.
func (b *Breaker) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Reset closes the breaker.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count = 0
}

// GetSaleHistory returns the recent sales of marketHashName. When b is not
// nil the call is refused while b is open, and the response's rate limit
// headers are fed to it.
func (c *Client) GetSaleHistory(
	ctx context.Context,
	marketHashName string,
	b *Breaker,
) ([]domain.ItemSale, error) {
	if b != nil {
		if err := b.Allow(); err != nil {
			metrics.HistoryBreakerRejectionsTotal.Inc()
			return nil, fmt.Errorf("fetching %s sales: %w", marketHashName, err)
		}
	}

	raw, rl, err := c.send(ctx, NewSaleHistoryRequest(marketHashName))
	if b != nil && b.Observe(rl) {
		metrics.HistoryBreakerTripsTotal.Inc()
		c.log.Warn("sale history breaker opened",
			"market_hash_name", marketHashName,
			"remaining", rl.Remaining,
			"low_quota_responses", b.Count(),
		)
	}
	if err != nil {
		return nil, err
	}

	c.log.Info("sale history fetched",
		"market_hash_name", marketHashName,
		"remaining", rl.Remaining,
		"limit", rl.Limit,
		"reset_at", rl.ResetAt,
	)

	return DecodeSales(raw)
}
