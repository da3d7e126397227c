package runs

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
	"github.com/icedepot/icedepot/internal/orders"
	"github.com/icedepot/icedepot/internal/platform/db"
	"github.com/icedepot/icedepot/internal/shared"
)

// Repository defines data access for delivery runs and stops.
type Repository interface {
	// CreateRun persists the run, its stops, and the order status moves in
	// one transaction. Stops carry preassigned sequence numbers.
	CreateRun(ctx context.Context, run DeliveryRun, stops []DeliveryStop) (int64, error)
	GetRun(ctx context.Context, id int64) (*DeliveryRun, error)
	ListRuns(ctx context.Context) ([]DeliveryRun, error)
	GetStop(ctx context.Context, runID, orderID int64) (*DeliveryStop, error)
	// CompleteStop stamps the stop, moves its order to DELIVERED, and,
	// when no undelivered stop remains after the stamp, moves the run to
	// COMPLETED, all atomically.
	CompleteStop(ctx context.Context, stop DeliveryStop) error
	// AddStop appends a stop and moves the order to OUT_FOR_DELIVERY in
	// one transaction.
	AddStop(ctx context.Context, runID, orderID int64, seq int) error
	OrderInAnyRun(ctx context.Context, orderID int64) (bool, error)
	// UpdateStatus overwrites the run status when the stored version still
	// matches expectedVersion.
	UpdateStatus(ctx context.Context, id int64, status RunStatus, expectedVersion int) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) CreateRun(ctx context.Context, run DeliveryRun, stops []DeliveryStop) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		insertRun := `
			INSERT INTO delivery_runs (run_date, driver_name, vehicle, status, version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 1, NOW(), NOW())
			RETURNING id`
		var vehicle pgtype.Text
		if run.Vehicle != nil {
			vehicle = pgtype.Text{String: *run.Vehicle, Valid: true}
		}
		if err := tx.QueryRow(ctx, insertRun,
			run.RunDate, run.DriverName, vehicle, RunStatusNew,
		).Scan(&id); err != nil {
			return err
		}

		insertStop := `
			INSERT INTO delivery_stops (run_id, order_id, seq)
			VALUES ($1, $2, $3)`
		moveOrder := `
			UPDATE orders
			SET status = $1, version = version + 1, updated_at = NOW()
			WHERE id = $2 AND status = $3`
		for _, stop := range stops {
			if _, err := tx.Exec(ctx, insertStop, id, stop.OrderID, stop.Seq); err != nil {
				return mapStopConflict(err)
			}
			tag, err := tx.Exec(ctx, moveOrder,
				orders.StatusOutForDelivery, stop.OrderID, orders.StatusConfirmed)
			if err != nil {
				return err
			}
			// The service checked eligibility; losing this race means the
			// order was confirmed a moment ago and is no longer.
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("%w: order %d is no longer confirmed", shared.ErrPrecondition, stop.OrderID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func mapStopConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: order is already on a run", shared.ErrPrecondition)
	}
	return err
}

func (r *repository) GetRun(ctx context.Context, id int64) (*DeliveryRun, error) {
	query := `
		SELECT id, run_date, driver_name, vehicle, status, version, created_at, updated_at
		FROM delivery_runs
		WHERE id = $1`

	run, err := scanRun(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	stopsQuery := `
		SELECT s.id, s.run_id, s.order_id, s.seq, s.delivered_at, s.pod_note, s.pod_photo_path,
		       o.order_no, o.status, o.subtotal, o.customer_id, c.name
		FROM delivery_stops s
		JOIN orders o ON o.id = s.order_id
		JOIN customers c ON c.id = o.customer_id
		WHERE s.run_id = $1
		ORDER BY s.seq`

	rows, err := r.pool.Query(ctx, stopsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var stop DeliveryStop
		var deliveredAt pgtype.Timestamptz
		var podNote, podPhotoPath pgtype.Text
		var order orders.Order
		var customerName string

		if err := rows.Scan(
			&stop.ID, &stop.RunID, &stop.OrderID, &stop.Seq,
			&deliveredAt, &podNote, &podPhotoPath,
			&order.OrderNo, &order.Status, &order.Subtotal, &order.CustomerID, &customerName,
		); err != nil {
			return nil, err
		}
		if deliveredAt.Valid {
			stop.DeliveredAt = &deliveredAt.Time
		}
		if podNote.Valid {
			stop.PodNote = &podNote.String
		}
		if podPhotoPath.Valid {
			stop.PodPhotoPath = &podPhotoPath.String
		}
		order.ID = stop.OrderID
		order.Customer = &customers.Customer{ID: order.CustomerID, Name: customerName}
		stop.Order = &order
		run.Stops = append(run.Stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *repository) ListRuns(ctx context.Context) ([]DeliveryRun, error) {
	query := `
		SELECT id, run_date, driver_name, vehicle, status, version, created_at, updated_at
		FROM delivery_runs
		ORDER BY run_date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []DeliveryRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *run)
	}
	return list, rows.Err()
}

func scanRun(row pgx.Row) (*DeliveryRun, error) {
	var run DeliveryRun
	var vehicle pgtype.Text
	err := row.Scan(
		&run.ID, &run.RunDate, &run.DriverName, &vehicle, &run.Status,
		&run.Version, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if vehicle.Valid {
		run.Vehicle = &vehicle.String
	}
	return &run, nil
}

func (r *repository) GetStop(ctx context.Context, runID, orderID int64) (*DeliveryStop, error) {
	query := `
		SELECT id, run_id, order_id, seq, delivered_at, pod_note, pod_photo_path
		FROM delivery_stops
		WHERE run_id = $1 AND order_id = $2`

	var stop DeliveryStop
	var deliveredAt pgtype.Timestamptz
	var podNote, podPhotoPath pgtype.Text

	err := r.pool.QueryRow(ctx, query, runID, orderID).Scan(
		&stop.ID, &stop.RunID, &stop.OrderID, &stop.Seq,
		&deliveredAt, &podNote, &podPhotoPath,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if deliveredAt.Valid {
		stop.DeliveredAt = &deliveredAt.Time
	}
	if podNote.Valid {
		stop.PodNote = &podNote.String
	}
	if podPhotoPath.Valid {
		stop.PodPhotoPath = &podPhotoPath.String
	}
	return &stop, nil
}

func (r *repository) CompleteStop(ctx context.Context, stop DeliveryStop) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		updateStop := `
			UPDATE delivery_stops
			SET delivered_at = $1, pod_note = $2, pod_photo_path = $3
			WHERE id = $4 AND delivered_at IS NULL`
		var deliveredAt pgtype.Timestamptz
		if stop.DeliveredAt != nil {
			deliveredAt = pgtype.Timestamptz{Time: *stop.DeliveredAt, Valid: true}
		} else {
			deliveredAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
		}
		tag, err := tx.Exec(ctx, updateStop,
			deliveredAt, textOrNull(stop.PodNote), textOrNull(stop.PodPhotoPath), stop.ID)
		if err != nil {
			return err
		}
		// Already stamped by a concurrent delivery; leave everything as is.
		if tag.RowsAffected() == 0 {
			return nil
		}

		moveOrder := `
			UPDATE orders
			SET status = $1, version = version + 1, updated_at = NOW()
			WHERE id = $2`
		if _, err := tx.Exec(ctx, moveOrder, orders.StatusDelivered, stop.OrderID); err != nil {
			return err
		}

		// Re-check after the stamp so the last two stops delivered
		// concurrently cannot both see the other as undelivered.
		var allDelivered bool
		if err := tx.QueryRow(ctx,
			`SELECT NOT EXISTS (SELECT 1 FROM delivery_stops WHERE run_id = $1 AND delivered_at IS NULL)`,
			stop.RunID,
		).Scan(&allDelivered); err != nil {
			return err
		}
		if allDelivered {
			completeRun := `
				UPDATE delivery_runs
				SET status = $1, version = version + 1, updated_at = NOW()
				WHERE id = $2`
			if _, err := tx.Exec(ctx, completeRun, RunStatusCompleted, stop.RunID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) AddStop(ctx context.Context, runID, orderID int64, seq int) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		insertStop := `
			INSERT INTO delivery_stops (run_id, order_id, seq)
			VALUES ($1, $2, $3)`
		if _, err := tx.Exec(ctx, insertStop, runID, orderID, seq); err != nil {
			return mapStopConflict(err)
		}

		moveOrder := `
			UPDATE orders
			SET status = $1, version = version + 1, updated_at = NOW()
			WHERE id = $2 AND status = $3`
		tag, err := tx.Exec(ctx, moveOrder, orders.StatusOutForDelivery, orderID, orders.StatusConfirmed)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: order %d is no longer confirmed", shared.ErrPrecondition, orderID)
		}
		return nil
	})
}

func (r *repository) OrderInAnyRun(ctx context.Context, orderID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM delivery_stops WHERE order_id = $1)`, orderID,
	).Scan(&exists)
	return exists, err
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status RunStatus, expectedVersion int) error {
	query := `
		UPDATE delivery_runs
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
