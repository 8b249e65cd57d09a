package watch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/csfloat-tracker/internal/csfloat"
	"github.com/donaldgifford/csfloat-tracker/internal/watch/mocks"
	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

func TestNewScheduler_RegistersCronEntry(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockHistorySource(t)
	p := NewPoller(src, []string{"item"}, csfloat.NewBreaker(10))

	sched, err := NewScheduler(p, 10*time.Minute, quietLogger())
	require.NoError(t, err)

	entries := sched.Entries()
	require.Len(t, entries, 1)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockHistorySource(t)
	p := NewPoller(src, []string{"item"}, csfloat.NewBreaker(10))

	sched, err := NewScheduler(p, time.Hour, quietLogger())
	require.NoError(t, err)

	sched.Start()
	ctx := sched.Stop()
	<-ctx.Done()
}

func TestScheduler_RunNow(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockHistorySource(t)
	breaker := csfloat.NewBreaker(10)
	src.EXPECT().GetSaleHistory(mock.Anything, "item", breaker).
		Return([]domain.ItemSale{{ID: "1", Price: 250}}, nil).Once()

	p := NewPoller(src, []string{"item"}, breaker, WithLogger(quietLogger()))
	sched, err := NewScheduler(p, time.Hour, quietLogger())
	require.NoError(t, err)

	require.NoError(t, sched.RunNow(context.Background()))
	assert.Len(t, p.Summaries(), 1)
}

func TestScheduler_RunPollUsesTimeout(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockHistorySource(t)
	breaker := csfloat.NewBreaker(10)
	src.EXPECT().GetSaleHistory(mock.Anything, "item", breaker).
		RunAndReturn(func(ctx context.Context, _ string, _ *csfloat.Breaker) ([]domain.ItemSale, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return nil, nil
		}).Once()

	p := NewPoller(src, []string{"item"}, breaker)
	sched, err := NewScheduler(p, time.Minute, quietLogger())
	require.NoError(t, err)

	sched.runPoll()
}
