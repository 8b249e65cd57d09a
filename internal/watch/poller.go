// Package watch polls the sale history of a fixed set of market hash names
// on a schedule and exposes the latest results as metrics and summaries.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/csfloat-tracker/internal/csfloat"
	"github.com/donaldgifford/csfloat-tracker/internal/metrics"
	"github.com/donaldgifford/csfloat-tracker/internal/notify"
	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

const (
	defaultConcurrency     = 4
	defaultBreakerCooldown = time.Hour
)

// HistorySource fetches the recent sales of an item. *csfloat.Client
// satisfies it.
type HistorySource interface {
	GetSaleHistory(
		ctx context.Context,
		marketHashName string,
		b *csfloat.Breaker,
	) ([]domain.ItemSale, error)
}

// Notifier delivers price alerts. notify.Notifier satisfies it.
type Notifier interface {
	SendBatchAlert(ctx context.Context, alerts []notify.AlertPayload) error
}

// Summary is the outcome of the last successful poll of one item.
type Summary struct {
	MarketHashName string           `json:"market_hash_name"`
	Sales          int              `json:"sales"`
	Latest         *domain.ItemSale `json:"latest,omitempty"`
	Cheapest       *domain.ItemSale `json:"cheapest,omitempty"`
	MedianPrice    domain.Cents     `json:"median_price"`
	PolledAt       time.Time        `json:"polled_at"`
}

// Poller fetches sale history for every configured item through a shared
// Breaker.
type Poller struct {
	source      HistorySource
	names       []string
	breaker     *csfloat.Breaker
	concurrency int
	cooldown    time.Duration
	log         *slog.Logger
	nowFunc     func() time.Time

	notifier   Notifier
	thresholds map[string]domain.Cents

	// pollMu serializes cycles so scheduled and on-demand polls cannot both
	// alert the same sale.
	pollMu sync.Mutex

	mu        sync.RWMutex
	summaries map[string]Summary
	alerted   map[string]string
	openedAt  time.Time
	lastOK    time.Time
}

// Option configures the Poller.
type Option func(*Poller)

// WithConcurrency caps the number of in-flight fetches. The client's pacer
// still spaces the requests themselves.
func WithConcurrency(n int) Option {
	return func(p *Poller) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithBreakerCooldown sets how long an open breaker stays open before the
// next cycle resets it.
func WithBreakerCooldown(d time.Duration) Option {
	return func(p *Poller) {
		p.cooldown = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Poller) {
		p.log = l
	}
}

// WithPriceAlerts raises an alert through n whenever the latest sale of an
// item in below went through at or under its threshold. Each sale is alerted
// once.
func WithPriceAlerts(n Notifier, below map[string]domain.Cents) Option {
	return func(p *Poller) {
		p.notifier = n
		p.thresholds = below
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(p *Poller) {
		p.nowFunc = f
	}
}

// NewPoller creates a Poller for names. Duplicate and empty names are
// dropped.
func NewPoller(
	source HistorySource,
	names []string,
	breaker *csfloat.Breaker,
	opts ...Option,
) *Poller {
	uniq := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" && !slices.Contains(uniq, n) {
			uniq = append(uniq, n)
		}
	}

	p := &Poller{
		source:      source,
		names:       uniq,
		breaker:     breaker,
		concurrency: defaultConcurrency,
		cooldown:    defaultBreakerCooldown,
		log:         slog.New(slog.DiscardHandler),
		nowFunc:     time.Now,
		summaries:   make(map[string]Summary, len(uniq)),
		alerted:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Names returns the polled market hash names.
func (p *Poller) Names() []string {
	return slices.Clone(p.names)
}

// Poll runs one cycle. Failures for individual items are joined into the
// returned error; items polled successfully are still recorded.
func (p *Poller) Poll(ctx context.Context) error {
	p.pollMu.Lock()
	defer p.pollMu.Unlock()

	start := p.nowFunc()
	p.maybeResetBreaker(start)

	var (
		mu     sync.Mutex
		errs   []error
		alerts []notify.AlertPayload
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, name := range p.names {
		g.Go(func() error {
			sales, err := p.source.GetSaleHistory(gctx, name, p.breaker)
			if err != nil {
				p.recordFailure(name, err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("polling %s: %w", name, err))
				mu.Unlock()
				return nil
			}
			s := p.recordSuccess(name, sales)
			if a, ok := p.checkAlert(s); ok {
				mu.Lock()
				alerts = append(alerts, a)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	p.sendAlerts(ctx, alerts)

	metrics.WatchPollDuration.Observe(p.nowFunc().Sub(start).Seconds())

	err := errors.Join(errs...)
	if err == nil {
		p.mu.Lock()
		p.lastOK = p.nowFunc()
		p.mu.Unlock()
		metrics.WatchLastSuccessTimestamp.Set(float64(p.nowFunc().Unix()))
	}

	p.log.Info("watch poll finished",
		"items", len(p.names),
		"failed", len(errs),
		"duration_ms", p.nowFunc().Sub(start).Milliseconds(),
	)
	return err
}

func (p *Poller) recordSuccess(name string, sales []domain.ItemSale) Summary {
	s := Summarize(name, sales)
	s.PolledAt = p.nowFunc()

	p.mu.Lock()
	p.summaries[name] = s
	p.mu.Unlock()

	metrics.WatchPollsTotal.WithLabelValues("success").Inc()
	metrics.WatchSalesObserved.WithLabelValues(name).Set(float64(s.Sales))

	attrs := []any{"market_hash_name", name, "sales", s.Sales}
	if s.Latest != nil {
		metrics.WatchLatestSalePrice.WithLabelValues(name).Set(s.Latest.PriceNormal())
		attrs = append(attrs, "latest_price", s.Latest.Price.String(), "latest_sold_at", s.Latest.SoldAt)
	}
	if s.Cheapest != nil {
		attrs = append(attrs, "cheapest_price", s.Cheapest.Price.String())
	}
	p.log.Info("sale history polled", attrs...)
	return s
}

// checkAlert reports an alert when the latest sale is at or under the
// item's threshold and has not been alerted yet.
func (p *Poller) checkAlert(s Summary) (notify.AlertPayload, bool) {
	threshold, ok := p.thresholds[s.MarketHashName]
	if !ok || p.notifier == nil || s.Latest == nil || s.Latest.Price > threshold {
		return notify.AlertPayload{}, false
	}

	p.mu.RLock()
	seen := p.alerted[s.MarketHashName] == s.Latest.ID
	p.mu.RUnlock()
	if seen {
		return notify.AlertPayload{}, false
	}

	return notify.AlertPayload{
		MarketHashName: s.MarketHashName,
		SaleID:         s.Latest.ID,
		Price:          s.Latest.Price,
		Threshold:      threshold,
		MedianPrice:    s.MedianPrice,
		FloatValue:     s.Latest.Item.FloatValue,
		IconURL:        s.Latest.Item.IconURL,
		SoldAt:         s.Latest.SoldAt,
	}, true
}

// sendAlerts delivers alerts and marks them sent. Failed deliveries are
// retried on the next cycle.
func (p *Poller) sendAlerts(ctx context.Context, alerts []notify.AlertPayload) {
	if len(alerts) == 0 {
		return
	}

	if err := p.notifier.SendBatchAlert(ctx, alerts); err != nil {
		p.log.Error("sending price alerts", "count", len(alerts), "error", err)
		return
	}

	p.mu.Lock()
	for _, a := range alerts {
		p.alerted[a.MarketHashName] = a.SaleID
	}
	p.mu.Unlock()

	metrics.WatchAlertsTotal.Add(float64(len(alerts)))
	p.log.Info("price alerts sent", "count", len(alerts))
}

func (p *Poller) recordFailure(name string, err error) {
	if errors.Is(err, csfloat.ErrBreakerOpen) {
		metrics.WatchPollsTotal.WithLabelValues("breaker_open").Inc()
		p.mu.Lock()
		if p.openedAt.IsZero() {
			p.openedAt = p.nowFunc()
		}
		p.mu.Unlock()
		p.log.Warn("sale history skipped, breaker open", "market_hash_name", name)
		return
	}
	metrics.WatchPollsTotal.WithLabelValues("error").Inc()
	p.log.Error("sale history poll failed", "market_hash_name", name, "error", err)
}

func (p *Poller) maybeResetBreaker(now time.Time) {
	if p.breaker == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.openedAt.IsZero() || now.Sub(p.openedAt) < p.cooldown {
		return
	}
	p.breaker.Reset()
	p.openedAt = time.Time{}
	p.log.Info("sale history breaker reset", "cooldown", p.cooldown.String())
}

// Summaries returns the latest summary of every item polled at least once,
// ordered by market hash name.
func (p *Poller) Summaries() []Summary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Summary, 0, len(p.summaries))
	for _, s := range p.summaries {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Summary) int {
		if a.MarketHashName < b.MarketHashName {
			return -1
		}
		if a.MarketHashName > b.MarketHashName {
			return 1
		}
		return 0
	})
	return out
}

// Ready reports whether a cycle has completed without error and the breaker
// is closed.
func (p *Poller) Ready() bool {
	p.mu.RLock()
	ok := !p.lastOK.IsZero()
	p.mu.RUnlock()

	if p.breaker != nil && p.breaker.Allow() != nil {
		return false
	}
	return ok
}

// Summarize reduces sales to their count, most recent sale, cheapest sale and
// median price.
func Summarize(name string, sales []domain.ItemSale) Summary {
	s := Summary{MarketHashName: name, Sales: len(sales)}
	if len(sales) == 0 {
		return s
	}

	prices := make([]domain.Cents, 0, len(sales))
	for i := range sales {
		sale := &sales[i]
		prices = append(prices, sale.Price)
		if s.Latest == nil || sale.SoldAt.After(s.Latest.SoldAt) {
			s.Latest = sale
		}
		if s.Cheapest == nil || sale.Price < s.Cheapest.Price {
			s.Cheapest = sale
		}
	}

	slices.Sort(prices)
	mid := len(prices) / 2
	if len(prices)%2 == 1 {
		s.MedianPrice = prices[mid]
	} else {
		s.MedianPrice = (prices[mid-1] + prices[mid]) / 2
	}
	return s
}
