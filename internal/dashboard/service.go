// Package dashboard serves operational counters for the manager landing
// page.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const cacheKey = "dashboard:counters"

// Counters are the headline numbers for today's operation.
type Counters struct {
	OrdersToday      int `json:"orders_today"`
	UnpaidOrders     int `json:"unpaid_orders"`
	RunsInProgress   int `json:"runs_in_progress"`
	UndeliveredStops int `json:"undelivered_stops"`
}

// Repository provides the individual counter queries.
type Repository interface {
	OrdersToday(ctx context.Context) (int, error)
	UnpaidOrders(ctx context.Context) (int, error)
	RunsInProgress(ctx context.Context) (int, error)
	UndeliveredStops(ctx context.Context) (int, error)
}

// Service gathers counters concurrently and caches the result briefly so
// dashboard refreshes do not hammer the database.
type Service struct {
	logger *slog.Logger
	repo   Repository
	redis  *redis.Client
	ttl    time.Duration
}

// NewService builds a Service instance. A nil redis client disables
// caching.
func NewService(logger *slog.Logger, repo Repository, rdb *redis.Client, ttl time.Duration) *Service {
	return &Service{logger: logger, repo: repo, redis: rdb, ttl: ttl}
}

// Counters returns the dashboard numbers, from cache when fresh.
func (s *Service) Counters(ctx context.Context) (*Counters, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	var counters Counters
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.OrdersToday(gctx)
		counters.OrdersToday = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.UnpaidOrders(gctx)
		counters.UnpaidOrders = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.RunsInProgress(gctx)
		counters.RunsInProgress = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.UndeliveredStops(gctx)
		counters.UndeliveredStops = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("gather counters: %w", err)
	}

	s.toCache(ctx, &counters)
	return &counters, nil
}

func (s *Service) fromCache(ctx context.Context) *Counters {
	if s.redis == nil {
		return nil
	}
	raw, err := s.redis.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		s.logger.Warn("dashboard cache read failed", slog.Any("error", err))
		return nil
	}
	var counters Counters
	if err := json.Unmarshal(raw, &counters); err != nil {
		return nil
	}
	return &counters
}

func (s *Service) toCache(ctx context.Context, counters *Counters) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(counters)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", slog.Any("error", err))
	}
}
