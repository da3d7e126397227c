package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/icedepot/icedepot/internal/orders"
	"github.com/icedepot/icedepot/internal/shared"
)

// IdempotencyGuard consumes submission keys so exact duplicates are
// rejected. Satisfied by shared.IdempotencyStore.
type IdempotencyGuard interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

const idempotencyModule = "payments"

// Service handles payment business logic.
type Service struct {
	logger *slog.Logger
	repo   Repository
	orders orders.Repository
	idem   IdempotencyGuard
	now    func() time.Time
}

// NewService builds a Service instance.
func NewService(logger *slog.Logger, repo Repository, orderRepo orders.Repository, idem IdempotencyGuard) *Service {
	return &Service{
		logger: logger,
		repo:   repo,
		orders: orderRepo,
		idem:   idem,
		now:    time.Now,
	}
}

// Record settles an order. Partial payments are rejected; the amount must
// cover the full subtotal. An optional idempotency key rejects exact
// duplicate submissions.
func (s *Service) Record(ctx context.Context, recordedBy string, idempotencyKey string, req RecordPaymentRequest) (*Payment, error) {
	if !req.Method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", shared.ErrValidation, req.Method)
	}

	if idempotencyKey != "" {
		if err := s.idem.CheckAndInsert(ctx, idempotencyKey, idempotencyModule); err != nil {
			return nil, fmt.Errorf("payment idempotency: %w", err)
		}
	}

	payment, err := s.record(ctx, recordedBy, req)
	if err != nil && idempotencyKey != "" {
		// Release the key so the caller can retry after fixing the request.
		if delErr := s.idem.Delete(ctx, idempotencyKey); delErr != nil {
			s.logger.Error("release idempotency key failed",
				slog.String("key", idempotencyKey), slog.Any("error", delErr))
		}
	}
	return payment, err
}

func (s *Service) record(ctx context.Context, recordedBy string, req RecordPaymentRequest) (*Payment, error) {
	order, err := s.orders.Get(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.IsPaid {
		return nil, fmt.Errorf("%w: order %s is already paid", shared.ErrPrecondition, order.OrderNo)
	}
	if order.Status == orders.StatusCanceled {
		return nil, fmt.Errorf("%w: order %s is canceled", shared.ErrPrecondition, order.OrderNo)
	}
	if req.Amount < order.Subtotal {
		return nil, fmt.Errorf("%w: amount %.2f is below order subtotal %.2f",
			shared.ErrPrecondition, req.Amount, order.Subtotal)
	}

	paidAt := s.now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	payment := Payment{
		OrderID:    order.ID,
		OrderNo:    order.OrderNo,
		Amount:     req.Amount,
		Method:     req.Method,
		PaidAt:     paidAt,
		RecordedBy: recordedBy,
	}
	id, err := s.repo.Record(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}
	payment.ID = id
	return &payment, nil
}

// List returns the payments landing payload.
func (s *Service) List(ctx context.Context) (*Index, error) {
	recent, err := s.repo.ListRecent(ctx, RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent payments: %w", err)
	}
	outstanding, err := s.repo.ListOutstanding(ctx)
	if err != nil {
		return nil, fmt.Errorf("list outstanding orders: %w", err)
	}
	return &Index{Recent: recent, Outstanding: outstanding}, nil
}
