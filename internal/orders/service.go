package orders

import (
	"context"
	"fmt"

	"github.com/icedepot/icedepot/internal/catalog/products"
	"github.com/icedepot/icedepot/internal/shared"
)

// Service handles order business logic.
type Service struct {
	repo     Repository
	products products.Repository
}

// NewService builds a Service instance.
func NewService(repo Repository, productRepo products.Repository) *Service {
	return &Service{repo: repo, products: productRepo}
}

// Create validates lines, snapshots unit prices, and persists the order
// with a fresh per-day order number.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one line", shared.ErrValidation)
	}
	if !req.DeliveryType.Valid() {
		return nil, fmt.Errorf("%w: unknown delivery type %q", shared.ErrValidation, req.DeliveryType)
	}

	var items []OrderItem
	var subtotal float64
	for _, line := range req.Lines {
		if line.Qty < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", shared.ErrValidation)
		}
		product, err := s.products.Get(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("load product %d: %w", line.ProductID, err)
		}
		lineTotal := float64(line.Qty) * product.UnitPrice
		items = append(items, OrderItem{
			ProductID:         product.ID,
			Qty:               line.Qty,
			UnitPriceSnapshot: product.UnitPrice,
			LineTotal:         lineTotal,
		})
		subtotal += lineTotal
	}

	order := Order{
		CustomerID:   req.CustomerID,
		DeliveryType: req.DeliveryType,
		Status:       StatusNew,
		Subtotal:     subtotal,
		PromisedAt:   req.PromisedAt,
		Notes:        req.Notes,
	}

	id, _, err := s.repo.Create(ctx, order, items)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Confirm moves an order to CONFIRMED. Confirming an already confirmed
// order succeeds without a write.
func (s *Service) Confirm(ctx context.Context, id int64, version *int) (*Order, error) {
	order, err := s.loadForWrite(ctx, id, version)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanConfirm() {
		return nil, fmt.Errorf("%w: cannot confirm order in status %s", shared.ErrPrecondition, order.Status)
	}
	if order.Status == StatusConfirmed {
		return order, nil
	}
	return s.transition(ctx, order, StatusConfirmed)
}

// Cancel moves an order to CANCELED. Delivered orders cannot be canceled.
func (s *Service) Cancel(ctx context.Context, id int64, version *int) (*Order, error) {
	order, err := s.loadForWrite(ctx, id, version)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanCancel() {
		return nil, fmt.Errorf("%w: delivered orders cannot be canceled", shared.ErrPrecondition)
	}
	if order.Status == StatusCanceled {
		return order, nil
	}
	return s.transition(ctx, order, StatusCanceled)
}

// MarkReadyForPickup flags a pickup order as ready for collection.
func (s *Service) MarkReadyForPickup(ctx context.Context, id int64) (*Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return s.transition(ctx, order, StatusReadyForPickup)
}

// MarkCollected records that a pickup order was collected.
func (s *Service) MarkCollected(ctx context.Context, id int64) (*Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return s.transition(ctx, order, StatusPickedUp)
}

// Get returns an order with customer and expanded items.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

// List returns all orders, newest first, with customer summary.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// History returns orders matching the filter, capped at HistoryLimit.
func (s *Service) History(ctx context.Context, filter HistoryFilter) ([]Order, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, *filter.Status)
	}
	return s.repo.History(ctx, filter)
}

// loadForWrite fetches the order and enforces the caller's concurrency
// token when one is supplied.
func (s *Service) loadForWrite(ctx context.Context, id int64, version *int) (*Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if version != nil && *version != order.Version {
		return nil, fmt.Errorf("%w: order was modified by someone else", shared.ErrVersionConflict)
	}
	return order, nil
}

func (s *Service) transition(ctx context.Context, order *Order, to Status) (*Order, error) {
	if err := s.repo.UpdateStatus(ctx, order.ID, to, order.Version); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return s.repo.Get(ctx, order.ID)
}
