package runs

import (
	"context"
	"fmt"
	"time"

	"github.com/icedepot/icedepot/internal/orders"
	"github.com/icedepot/icedepot/internal/shared"
)

// Service handles delivery run business logic.
type Service struct {
	repo   Repository
	orders orders.Repository
	now    func() time.Time
}

// NewService builds a Service instance.
func NewService(repo Repository, orderRepo orders.Repository) *Service {
	return &Service{repo: repo, orders: orderRepo, now: time.Now}
}

// CreateRun groups confirmed orders into a new run. Nothing is persisted
// unless every order is eligible. Stops are sequenced 1..N in input order
// and all orders move to OUT_FOR_DELIVERY.
func (s *Service) CreateRun(ctx context.Context, req CreateRunRequest) (*DeliveryRun, error) {
	if len(req.OrderIDs) == 0 {
		return nil, fmt.Errorf("%w: run needs at least one order", shared.ErrValidation)
	}

	seen := make(map[int64]bool, len(req.OrderIDs))
	stops := make([]DeliveryStop, 0, len(req.OrderIDs))
	for i, orderID := range req.OrderIDs {
		if seen[orderID] {
			return nil, fmt.Errorf("%w: order %d listed twice", shared.ErrValidation, orderID)
		}
		seen[orderID] = true

		order, err := s.orders.Get(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("load order %d: %w", orderID, err)
		}
		if order.Status != orders.StatusConfirmed {
			return nil, fmt.Errorf("%w: order %s is %s, only confirmed orders can join a run",
				shared.ErrPrecondition, order.OrderNo, order.Status)
		}
		stops = append(stops, DeliveryStop{OrderID: orderID, Seq: i + 1})
	}

	run := DeliveryRun{
		RunDate:    req.RunDate,
		DriverName: req.DriverName,
		Vehicle:    req.Vehicle,
		Status:     RunStatusNew,
	}
	id, err := s.repo.CreateRun(ctx, run, stops)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return s.repo.GetRun(ctx, id)
}

// GetRun returns a run with its stops and order summaries.
func (s *Service) GetRun(ctx context.Context, id int64) (*DeliveryRun, error) {
	return s.repo.GetRun(ctx, id)
}

// ListRuns returns all runs, newest run date first.
func (s *Service) ListRuns(ctx context.Context) ([]DeliveryRun, error) {
	return s.repo.ListRuns(ctx)
}

// MarkDelivered stamps one stop as delivered and moves its order to
// DELIVERED. Re-marking a delivered stop is a success no-op and changes
// nothing. When the last undelivered stop completes, the run becomes
// COMPLETED.
func (s *Service) MarkDelivered(ctx context.Context, runID, orderID int64, req MarkDeliveredRequest) (*DeliveryRun, error) {
	stop, err := s.repo.GetStop(ctx, runID, orderID)
	if err != nil {
		return nil, fmt.Errorf("find stop: %w", err)
	}
	if stop.DeliveredAt != nil {
		return s.repo.GetRun(ctx, runID)
	}

	when := s.now()
	if req.DeliveredAt != nil {
		when = *req.DeliveredAt
	}
	stop.DeliveredAt = &when
	stop.PodNote = req.PodNote
	stop.PodPhotoPath = req.PodPhotoPath

	if err := s.repo.CompleteStop(ctx, *stop); err != nil {
		return nil, fmt.Errorf("complete stop: %w", err)
	}
	return s.repo.GetRun(ctx, runID)
}

// AddOrder appends one confirmed order to an existing run at the next
// sequence position. An order already on any run is rejected.
func (s *Service) AddOrder(ctx context.Context, runID int64, req AddOrderRequest) (*DeliveryRun, error) {
	run, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	order, err := s.orders.Get(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order.Status != orders.StatusConfirmed {
		return nil, fmt.Errorf("%w: order %s is %s, only confirmed orders can join a run",
			shared.ErrPrecondition, order.OrderNo, order.Status)
	}
	taken, err := s.repo.OrderInAnyRun(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("check order membership: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: order %s is already on a run", shared.ErrPrecondition, order.OrderNo)
	}

	seq := 1
	for _, stop := range run.Stops {
		if stop.Seq >= seq {
			seq = stop.Seq + 1
		}
	}
	if err := s.repo.AddStop(ctx, runID, order.ID, seq); err != nil {
		return nil, fmt.Errorf("add stop: %w", err)
	}
	return s.repo.GetRun(ctx, runID)
}

// SetStatus overwrites the run status after an existence check. There is
// no transition graph beyond that, matching the start/complete endpoints.
func (s *Service) SetStatus(ctx context.Context, runID int64, req SetStatusRequest) (*DeliveryRun, error) {
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown run status %q", shared.ErrValidation, req.Status)
	}
	run, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	if req.Version != nil && *req.Version != run.Version {
		return nil, fmt.Errorf("%w: run was modified by someone else", shared.ErrVersionConflict)
	}
	if err := s.repo.UpdateStatus(ctx, runID, req.Status, run.Version); err != nil {
		return nil, fmt.Errorf("update run status: %w", err)
	}
	return s.repo.GetRun(ctx, runID)
}
