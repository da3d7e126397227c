package dashboard

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	calls            int
	ordersToday      int
	unpaidOrders     int
	runsInProgress   int
	undeliveredStops int
}

func (f *fakeRepo) OrdersToday(_ context.Context) (int, error) {
	f.calls++
	return f.ordersToday, nil
}

func (f *fakeRepo) UnpaidOrders(_ context.Context) (int, error) {
	f.calls++
	return f.unpaidOrders, nil
}

func (f *fakeRepo) RunsInProgress(_ context.Context) (int, error) {
	f.calls++
	return f.runsInProgress, nil
}

func (f *fakeRepo) UndeliveredStops(_ context.Context) (int, error) {
	f.calls++
	return f.undeliveredStops, nil
}

func newFixture(t *testing.T) (*Service, *fakeRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &fakeRepo{ordersToday: 4, unpaidOrders: 2, runsInProgress: 1, undeliveredStops: 3}
	return NewService(slog.Default(), repo, rdb, time.Minute), repo, mr
}

func TestCountersGathersAllNumbers(t *testing.T) {
	svc, _, _ := newFixture(t)

	counters, err := svc.Counters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Counters{
		OrdersToday:      4,
		UnpaidOrders:     2,
		RunsInProgress:   1,
		UndeliveredStops: 3,
	}, counters)
}

func TestCountersServedFromCache(t *testing.T) {
	svc, repo, _ := newFixture(t)

	_, err := svc.Counters(context.Background())
	require.NoError(t, err)
	firstCalls := repo.calls

	_, err = svc.Counters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, firstCalls, repo.calls)
}

func TestCountersRefreshAfterExpiry(t *testing.T) {
	svc, repo, mr := newFixture(t)

	_, err := svc.Counters(context.Background())
	require.NoError(t, err)
	firstCalls := repo.calls

	mr.FastForward(2 * time.Minute)
	repo.ordersToday = 9

	counters, err := svc.Counters(context.Background())
	require.NoError(t, err)
	assert.Greater(t, repo.calls, firstCalls)
	assert.Equal(t, 9, counters.OrdersToday)
}

func TestCountersWorkWithoutRedis(t *testing.T) {
	repo := &fakeRepo{ordersToday: 1}
	svc := NewService(slog.Default(), repo, nil, time.Minute)

	counters, err := svc.Counters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counters.OrdersToday)
}
