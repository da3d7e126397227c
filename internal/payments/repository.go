package payments

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/icedepot/icedepot/internal/catalog/customers"
	"github.com/icedepot/icedepot/internal/orders"
	"github.com/icedepot/icedepot/internal/platform/db"
	"github.com/icedepot/icedepot/internal/shared"
)

// Repository defines data access for payments.
type Repository interface {
	// Record inserts the payment and flips the order's paid flags in one
	// transaction.
	Record(ctx context.Context, payment Payment) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]Payment, error)
	ListOutstanding(ctx context.Context) ([]orders.Order, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Record(ctx context.Context, payment Payment) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		insert := `
			INSERT INTO payments (order_id, amount, method, paid_at, recorded_by, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			RETURNING id`
		if err := tx.QueryRow(ctx, insert,
			payment.OrderID, payment.Amount, payment.Method, payment.PaidAt, payment.RecordedBy,
		).Scan(&id); err != nil {
			return err
		}

		update := `
			UPDATE orders
			SET is_paid = TRUE, payment_method = $1, paid_at = $2,
			    version = version + 1, updated_at = NOW()
			WHERE id = $3 AND is_paid = FALSE`
		tag, err := tx.Exec(ctx, update, payment.Method, payment.PaidAt, payment.OrderID)
		if err != nil {
			return err
		}
		// A concurrent submission paid the order after the service's
		// check; rolling back keeps the payment rows consistent.
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: order is already paid", shared.ErrPrecondition)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]Payment, error) {
	if limit <= 0 {
		limit = RecentLimit
	}
	query := `
		SELECT p.id, p.order_id, o.order_no, p.amount, p.method, p.paid_at,
		       p.recorded_by, p.created_at
		FROM payments p
		JOIN orders o ON o.id = p.order_id
		ORDER BY p.created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(
			&p.ID, &p.OrderID, &p.OrderNo, &p.Amount, &p.Method, &p.PaidAt,
			&p.RecordedBy, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *repository) ListOutstanding(ctx context.Context) ([]orders.Order, error) {
	query := `
		SELECT o.id, o.order_no, o.customer_id, o.delivery_type, o.status, o.subtotal,
		       o.promised_at, o.version, c.name
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.is_paid = FALSE AND o.status <> 'CANCELED'
		ORDER BY o.promised_at NULLS LAST, o.created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []orders.Order
	for rows.Next() {
		var o orders.Order
		var promisedAt pgtype.Timestamptz
		var customerName string
		if err := rows.Scan(
			&o.ID, &o.OrderNo, &o.CustomerID, &o.DeliveryType, &o.Status, &o.Subtotal,
			&promisedAt, &o.Version, &customerName,
		); err != nil {
			return nil, err
		}
		if promisedAt.Valid {
			o.PromisedAt = &promisedAt.Time
		}
		o.Customer = &customers.Customer{ID: o.CustomerID, Name: customerName}
		list = append(list, o)
	}
	return list, rows.Err()
}
