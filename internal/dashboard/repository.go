package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) count(ctx context.Context, query string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, query).Scan(&n)
	return n, err
}

func (r *repository) OrdersToday(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders WHERE created_at::date = (NOW() AT TIME ZONE 'UTC')::date`)
}

func (r *repository) UnpaidOrders(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders WHERE is_paid = FALSE AND status <> 'CANCELED'`)
}

func (r *repository) RunsInProgress(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM delivery_runs WHERE status = 'IN_PROGRESS'`)
}

func (r *repository) UndeliveredStops(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM delivery_stops WHERE delivered_at IS NULL`)
}
