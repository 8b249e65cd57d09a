package watch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/csfloat-tracker/internal/csfloat"
	"github.com/donaldgifford/csfloat-tracker/internal/notify"
	"github.com/donaldgifford/csfloat-tracker/internal/watch/mocks"
	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

func TestPoller_PriceAlerts(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockHistorySource(t)
	breaker := csfloat.NewBreaker(10)
	src.EXPECT().GetSaleHistory(mock.Anything, "cheap", breaker).
		Return([]domain.ItemSale{sale("c1", 900, baseTime)}, nil).Twice()
	src.EXPECT().GetSaleHistory(mock.Anything, "pricey", breaker).
		Return([]domain.ItemSale{sale("p1", 5000, baseTime)}, nil).Twice()
	src.EXPECT().GetSaleHistory(mock.Anything, "untracked", breaker).
		Return([]domain.ItemSale{sale("u1", 1, baseTime)}, nil).Twice()

	n := mocks.NewMockNotifier(t)
	n.EXPECT().SendBatchAlert(mock.Anything, mock.MatchedBy(func(alerts []notify.AlertPayload) bool {
		return len(alerts) == 1 &&
			alerts[0].MarketHashName == "cheap" &&
			alerts[0].SaleID == "c1" &&
			alerts[0].Price == 900 &&
			alerts[0].Threshold == 1000
	})).Return(nil).Once()

	p := NewPoller(src, []string{"cheap", "pricey", "untracked"}, breaker,
		WithLogger(quietLogger()),
		WithPriceAlerts(n, map[string]domain.Cents{"cheap": 1000, "pricey": 4000}),
	)

	require.NoError(t, p.Poll(context.Background()))
	// Same latest sale: no second alert.
	require.NoError(t, p.Poll(context.Background()))
}

func TestPoller_PriceAlerts_RetriedAfterFailure(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockHistorySource(t)
	breaker := csfloat.NewBreaker(10)
	src.EXPECT().GetSaleHistory(mock.Anything, "item", breaker).
		Return([]domain.ItemSale{sale("s1", 100, baseTime)}, nil).Twice()

	n := mocks.NewMockNotifier(t)
	n.EXPECT().SendBatchAlert(mock.Anything, mock.Anything).Return(errors.New("webhook down")).Once()
	n.EXPECT().SendBatchAlert(mock.Anything, mock.Anything).Return(nil).Once()

	p := NewPoller(src, []string{"item"}, breaker,
		WithLogger(quietLogger()),
		WithPriceAlerts(n, map[string]domain.Cents{"item": 100}),
	)

	require.NoError(t, p.Poll(context.Background()))
	require.NoError(t, p.Poll(context.Background()))
}

func TestPoller_PriceAlerts_ConcurrentPollsAlertOnce(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockHistorySource(t)
	breaker := csfloat.NewBreaker(10)
	src.EXPECT().GetSaleHistory(mock.Anything, "item", breaker).
		Return([]domain.ItemSale{sale("s1", 100, baseTime)}, nil).Times(4)

	var sends atomic.Int32
	n := mocks.NewMockNotifier(t)
	n.EXPECT().SendBatchAlert(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, []notify.AlertPayload) error {
			sends.Add(1)
			time.Sleep(20 * time.Millisecond)
			return nil
		}).Maybe()

	p := NewPoller(src, []string{"item"}, breaker,
		WithLogger(quietLogger()),
		WithPriceAlerts(n, map[string]domain.Cents{"item": 100}),
	)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Poll(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), sends.Load())
}

func TestCheckAlert(t *testing.T) {
	t.Parallel()

	fv := 0.15
	latest := domain.ItemSale{ID: "s1", Price: 1000, SoldAt: baseTime, Item: domain.Item{FloatValue: &fv, IconURL: "icon"}}

	tests := []struct {
		name       string
		thresholds map[string]domain.Cents
		summary    Summary
		wantAlert  bool
	}{
		{
			name:       "at threshold",
			thresholds: map[string]domain.Cents{"item": 1000},
			summary:    Summary{MarketHashName: "item", Latest: &latest, MedianPrice: 1200},
			wantAlert:  true,
		},
		{
			name:       "above threshold",
			thresholds: map[string]domain.Cents{"item": 999},
			summary:    Summary{MarketHashName: "item", Latest: &latest},
		},
		{
			name:       "no sales",
			thresholds: map[string]domain.Cents{"item": 1000},
			summary:    Summary{MarketHashName: "item"},
		},
		{
			name:       "no threshold",
			thresholds: map[string]domain.Cents{},
			summary:    Summary{MarketHashName: "item", Latest: &latest},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewPoller(nil, nil, nil, WithPriceAlerts(notify.NewNoOpNotifier(quietLogger()), tt.thresholds))
			a, ok := p.checkAlert(tt.summary)
			assert.Equal(t, tt.wantAlert, ok)
			if !tt.wantAlert {
				return
			}
			assert.Equal(t, "s1", a.SaleID)
			assert.Equal(t, domain.Cents(1200), a.MedianPrice)
			assert.Equal(t, &fv, a.FloatValue)
			assert.Equal(t, "icon", a.IconURL)
			assert.Equal(t, baseTime, a.SoldAt)
		})
	}
}
