package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/icedepot/icedepot/internal/catalog/customers"
	"github.com/icedepot/icedepot/internal/platform/db"
	"github.com/icedepot/icedepot/internal/shared"
)

// Repository defines data access for orders.
type Repository interface {
	// Create persists the order and its items in one transaction,
	// allocating the order number from the per-day counter.
	Create(ctx context.Context, order Order, items []OrderItem) (int64, string, error)
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	History(ctx context.Context, filter HistoryFilter) ([]Order, error)
	// UpdateStatus moves the order to status when the stored version still
	// matches expectedVersion. Returns shared.ErrVersionConflict otherwise.
	UpdateStatus(ctx context.Context, id int64, status Status, expectedVersion int) error
}

type repository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool, now: time.Now}
}

// nextDaySeq bumps and returns the per-day order counter. The upsert is
// atomic, so concurrent creators each get a distinct sequence.
func nextDaySeq(ctx context.Context, tx pgx.Tx, day string) (int, error) {
	query := `
		INSERT INTO order_counters (day, seq)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET seq = order_counters.seq + 1
		RETURNING seq`

	var seq int
	err := tx.QueryRow(ctx, query, day).Scan(&seq)
	return seq, err
}

func (r *repository) Create(ctx context.Context, order Order, items []OrderItem) (int64, string, error) {
	var id int64
	var orderNo string

	for attempt := 0; attempt < 3; attempt++ {
		err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
			day := DayKey(r.now())
			seq, err := nextDaySeq(ctx, tx, day)
			if err != nil {
				return fmt.Errorf("next order sequence: %w", err)
			}
			orderNo = FormatOrderNo(day, seq)

			insertOrder := `
				INSERT INTO orders (
					order_no, customer_id, delivery_type, status, subtotal,
					promised_at, notes, is_paid, version, created_at, updated_at
				)
				VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, 1, NOW(), NOW())
				RETURNING id`

			if err := tx.QueryRow(ctx, insertOrder,
				orderNo, order.CustomerID, order.DeliveryType, order.Status,
				order.Subtotal, timestampOrNull(order.PromisedAt), textOrNull(order.Notes),
			).Scan(&id); err != nil {
				return err
			}

			insertItem := `
				INSERT INTO order_items (order_id, product_id, qty, unit_price_snapshot, line_total)
				VALUES ($1, $2, $3, $4, $5)`
			for _, item := range items {
				if _, err := tx.Exec(ctx, insertItem,
					id, item.ProductID, item.Qty, item.UnitPriceSnapshot, item.LineTotal,
				); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			return id, orderNo, nil
		}

		if retryableOrderNoErr(err) {
			continue
		}
		return 0, "", err
	}
	return 0, "", fmt.Errorf("%w: order number allocation kept conflicting", shared.ErrDuplicate)
}

// retryableOrderNoErr reports whether a fresh attempt can resolve the
// failure. Under repeatable read, a concurrent bump of the day counter
// surfaces as a serialization failure (40001); a unique violation on
// order_no means another writer committed the same number since this
// transaction's snapshot. Both resolve by reallocating the sequence.
func retryableOrderNoErr(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code == "40001" {
		return true
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_order_no_key"
}

const orderColumns = `
	o.id, o.order_no, o.customer_id, o.delivery_type, o.status, o.subtotal,
	o.promised_at, o.is_paid, o.payment_method, o.paid_at, o.notes, o.version,
	o.created_at, o.updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var promisedAt, paidAt pgtype.Timestamptz
	var paymentMethod, notes pgtype.Text

	err := row.Scan(
		&o.ID, &o.OrderNo, &o.CustomerID, &o.DeliveryType, &o.Status, &o.Subtotal,
		&promisedAt, &o.IsPaid, &paymentMethod, &paidAt, &notes, &o.Version,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if promisedAt.Valid {
		o.PromisedAt = &promisedAt.Time
	}
	if paidAt.Valid {
		o.PaidAt = &paidAt.Time
	}
	if paymentMethod.Valid {
		m := PaymentMethod(paymentMethod.String)
		o.PaymentMethod = &m
	}
	if notes.Valid {
		o.Notes = &notes.String
	}
	return &o, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders o WHERE o.id = $1", orderColumns)

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	customerQuery := `
		SELECT id, name, phone, email, address, created_at, updated_at
		FROM customers WHERE id = $1`
	var c customers.Customer
	var phone, email, address pgtype.Text
	err = r.pool.QueryRow(ctx, customerQuery, order.CustomerID).Scan(
		&c.ID, &c.Name, &phone, &email, &address, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		if phone.Valid {
			c.Phone = &phone.String
		}
		if email.Valid {
			c.Email = &email.String
		}
		if address.Valid {
			c.Address = &address.String
		}
		order.Customer = &c
	}

	itemsQuery := `
		SELECT i.id, i.order_id, i.product_id, p.sku, p.name,
		       i.qty, i.unit_price_snapshot, i.line_total
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.id`
	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductSKU, &item.ProductName,
			&item.Qty, &item.UnitPriceSnapshot, &item.LineTotal,
		); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) List(ctx context.Context) ([]Order, error) {
	query := fmt.Sprintf(`
		SELECT %s, c.name
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		ORDER BY o.created_at DESC`, orderColumns)

	return r.queryOrdersWithCustomer(ctx, query)
}

func (r *repository) History(ctx context.Context, filter HistoryFilter) ([]Order, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	add := func(cond string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argPos))
		args = append(args, value)
		argPos++
	}

	if filter.OrderNo != nil && *filter.OrderNo != "" {
		add("o.order_no ILIKE $%d", "%"+*filter.OrderNo+"%")
	}
	if filter.CustomerName != nil && *filter.CustomerName != "" {
		add("c.name ILIKE $%d", "%"+*filter.CustomerName+"%")
	}
	if filter.Status != nil {
		add("o.status = $%d", *filter.Status)
	}
	if filter.PromisedFrom != nil {
		add("o.promised_at >= $%d", *filter.PromisedFrom)
	}
	if filter.PromisedTo != nil {
		add("o.promised_at <= $%d", *filter.PromisedTo)
	}
	if filter.PaidFrom != nil {
		add("o.paid_at >= $%d", *filter.PaidFrom)
	}
	if filter.PaidTo != nil {
		add("o.paid_at <= $%d", *filter.PaidTo)
	}

	whereClause := ""
	for i, cond := range conditions {
		if i == 0 {
			whereClause = "WHERE " + cond
		} else {
			whereClause += " AND " + cond
		}
	}

	query := fmt.Sprintf(`
		SELECT %s, c.name
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		%s
		ORDER BY o.created_at DESC
		LIMIT %d`, orderColumns, whereClause, HistoryLimit)

	return r.queryOrdersWithCustomer(ctx, query, args...)
}

func (r *repository) queryOrdersWithCustomer(ctx context.Context, query string, args ...interface{}) ([]Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Order
	for rows.Next() {
		var o Order
		var promisedAt, paidAt pgtype.Timestamptz
		var paymentMethod, notes pgtype.Text
		var customerName string

		if err := rows.Scan(
			&o.ID, &o.OrderNo, &o.CustomerID, &o.DeliveryType, &o.Status, &o.Subtotal,
			&promisedAt, &o.IsPaid, &paymentMethod, &paidAt, &notes, &o.Version,
			&o.CreatedAt, &o.UpdatedAt, &customerName,
		); err != nil {
			return nil, err
		}
		if promisedAt.Valid {
			o.PromisedAt = &promisedAt.Time
		}
		if paidAt.Valid {
			o.PaidAt = &paidAt.Time
		}
		if paymentMethod.Valid {
			m := PaymentMethod(paymentMethod.String)
			o.PaymentMethod = &m
		}
		if notes.Valid {
			o.Notes = &notes.String
		}
		o.Customer = &customers.Customer{ID: o.CustomerID, Name: customerName}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status, expectedVersion int) error {
	query := `
		UPDATE orders
		SET status = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3`

	tag, err := r.pool.Exec(ctx, query, status, id, expectedVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrVersionConflict
	}
	return nil
}

func textOrNull(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func timestampOrNull(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}
