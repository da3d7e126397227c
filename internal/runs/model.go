package runs

import (
	"time"

	"github.com/icedepot/icedepot/internal/orders"
)

// RunStatus is the lifecycle state of a delivery run.
type RunStatus string

const (
	RunStatusNew        RunStatus = "NEW"
	RunStatusInProgress RunStatus = "IN_PROGRESS"
	RunStatusCompleted  RunStatus = "COMPLETED"
)

// Valid reports whether s is a known run status.
func (s RunStatus) Valid() bool {
	return s == RunStatusNew || s == RunStatusInProgress || s == RunStatusCompleted
}

// DeliveryRun is a batch of sequenced stops assigned to a driver for a
// given date.
type DeliveryRun struct {
	ID         int64          `json:"id"`
	RunDate    time.Time      `json:"run_date"`
	DriverName string         `json:"driver_name"`
	Vehicle    *string        `json:"vehicle,omitempty"`
	Status     RunStatus      `json:"status"`
	Version    int            `json:"version"`
	Stops      []DeliveryStop `json:"stops,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// DeliveryStop is one order's position within a run. An order belongs to
// at most one stop across all runs. Once DeliveredAt is set it never
// reverts.
type DeliveryStop struct {
	ID           int64         `json:"id"`
	RunID        int64         `json:"run_id"`
	OrderID      int64         `json:"order_id"`
	Seq          int           `json:"seq"`
	DeliveredAt  *time.Time    `json:"delivered_at,omitempty"`
	PodNote      *string       `json:"pod_note,omitempty"`
	PodPhotoPath *string       `json:"pod_photo_path,omitempty"`
	Order        *orders.Order `json:"order,omitempty"`
}

// CreateRunRequest carries input for creating a run. Stops are sequenced
// in the order the ids are given.
type CreateRunRequest struct {
	RunDate    time.Time `json:"run_date" validate:"required"`
	DriverName string    `json:"driver_name" validate:"required,max=120"`
	Vehicle    *string   `json:"vehicle,omitempty" validate:"omitempty,max=80"`
	OrderIDs   []int64   `json:"order_ids" validate:"required,min=1"`
}

// MarkDeliveredRequest carries delivery completion input for a stop.
type MarkDeliveredRequest struct {
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	PodNote      *string    `json:"pod_note,omitempty" validate:"omitempty,max=500"`
	PodPhotoPath *string    `json:"pod_photo_path,omitempty" validate:"omitempty,max=300"`
}

// AddOrderRequest attaches one more confirmed order to an existing run.
type AddOrderRequest struct {
	OrderID int64 `json:"order_id" validate:"required"`
}

// SetStatusRequest overwrites the run status, with an optional
// concurrency token.
type SetStatusRequest struct {
	Status  RunStatus `json:"status" validate:"required,oneof=NEW IN_PROGRESS COMPLETED"`
	Version *int      `json:"version,omitempty"`
}
