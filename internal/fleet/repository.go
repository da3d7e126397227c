package fleet

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/icedepot/icedepot/internal/shared"
)

// Repository defines data access for drivers and vehicles.
type Repository interface {
	GetDriver(ctx context.Context, id int64) (*Driver, error)
	ListDrivers(ctx context.Context, activeOnly bool) ([]Driver, error)
	CreateDriver(ctx context.Context, driver Driver) (int64, error)
	UpdateDriver(ctx context.Context, id int64, updates map[string]interface{}) error

	GetVehicle(ctx context.Context, id int64) (*Vehicle, error)
	ListVehicles(ctx context.Context, activeOnly bool) ([]Vehicle, error)
	CreateVehicle(ctx context.Context, vehicle Vehicle) (int64, error)
	UpdateVehicle(ctx context.Context, id int64, updates map[string]interface{}) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) GetDriver(ctx context.Context, id int64) (*Driver, error) {
	query := `
		SELECT id, name, phone, active, created_at, updated_at
		FROM drivers
		WHERE id = $1`

	var d Driver
	var phone pgtype.Text
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Name, &phone, &d.Active, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		d.Phone = &phone.String
	}
	return &d, nil
}

func (r *repository) ListDrivers(ctx context.Context, activeOnly bool) ([]Driver, error) {
	query := `
		SELECT id, name, phone, active, created_at, updated_at
		FROM drivers`
	if activeOnly {
		query += " WHERE active = TRUE"
	}
	query += " ORDER BY name"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []Driver
	for rows.Next() {
		var d Driver
		var phone pgtype.Text
		if err := rows.Scan(&d.ID, &d.Name, &phone, &d.Active, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if phone.Valid {
			d.Phone = &phone.String
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func (r *repository) CreateDriver(ctx context.Context, driver Driver) (int64, error) {
	query := `
		INSERT INTO drivers (name, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id`

	var phone pgtype.Text
	if driver.Phone != nil {
		phone = pgtype.Text{String: *driver.Phone, Valid: true}
	}

	var id int64
	err := r.pool.QueryRow(ctx, query, driver.Name, phone, driver.Active).Scan(&id)
	return id, err
}

func (r *repository) UpdateDriver(ctx context.Context, id int64, updates map[string]interface{}) error {
	return r.update(ctx, "drivers", []string{"name", "phone", "active"}, id, updates)
}

func (r *repository) GetVehicle(ctx context.Context, id int64) (*Vehicle, error) {
	query := `
		SELECT id, plate, label, active, created_at, updated_at
		FROM vehicles
		WHERE id = $1`

	var v Vehicle
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Plate, &v.Label, &v.Active, &v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) ListVehicles(ctx context.Context, activeOnly bool) ([]Vehicle, error) {
	query := `
		SELECT id, plate, label, active, created_at, updated_at
		FROM vehicles`
	if activeOnly {
		query += " WHERE active = TRUE"
	}
	query += " ORDER BY plate"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Plate, &v.Label, &v.Active, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *repository) CreateVehicle(ctx context.Context, vehicle Vehicle) (int64, error) {
	query := `
		INSERT INTO vehicles (plate, label, active, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query, vehicle.Plate, vehicle.Label, vehicle.Active).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("%w: plate already registered", shared.ErrDuplicate)
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateVehicle(ctx context.Context, id int64, updates map[string]interface{}) error {
	return r.update(ctx, "vehicles", []string{"label", "active"}, id, updates)
}

func (r *repository) update(ctx context.Context, table string, cols []string, id int64, updates map[string]interface{}) error {
	query := fmt.Sprintf("UPDATE %s SET updated_at = NOW()", table)
	var args []interface{}
	argPos := 1

	for _, col := range cols {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
