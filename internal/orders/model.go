package orders

import (
	"time"

	"github.com/icedepot/icedepot/internal/catalog/customers"
)

// Order is a customer order with immutable line items. Subtotal is fixed
// at creation from line snapshots and never recomputed.
type Order struct {
	ID            int64               `json:"id"`
	OrderNo       string              `json:"order_no"`
	CustomerID    int64               `json:"customer_id"`
	Customer      *customers.Customer `json:"customer,omitempty"`
	DeliveryType  DeliveryType        `json:"delivery_type"`
	Status        Status              `json:"status"`
	Subtotal      float64             `json:"subtotal"`
	PromisedAt    *time.Time          `json:"promised_at,omitempty"`
	IsPaid        bool                `json:"is_paid"`
	PaymentMethod *PaymentMethod      `json:"payment_method,omitempty"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
	Version       int                 `json:"version"`
	Items         []OrderItem         `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// OrderItem is one order line. The unit price is snapshotted from the
// product at creation time and immutable thereafter.
type OrderItem struct {
	ID                int64   `json:"id"`
	OrderID           int64   `json:"order_id"`
	ProductID         int64   `json:"product_id"`
	ProductSKU        string  `json:"product_sku,omitempty"`
	ProductName       string  `json:"product_name,omitempty"`
	Qty               int     `json:"qty"`
	UnitPriceSnapshot float64 `json:"unit_price_snapshot"`
	LineTotal         float64 `json:"line_total"`
}

// OrderLineInput is one requested line on a new order.
type OrderLineInput struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Qty       int   `json:"qty" validate:"gte=1"`
}

// CreateOrderRequest carries input for creating an order.
type CreateOrderRequest struct {
	CustomerID   int64            `json:"customer_id" validate:"required"`
	DeliveryType DeliveryType     `json:"delivery_type" validate:"required,oneof=DELIVERY PICKUP"`
	PromisedAt   *time.Time       `json:"promised_at,omitempty"`
	Notes        *string          `json:"notes,omitempty" validate:"omitempty,max=500"`
	Lines        []OrderLineInput `json:"lines" validate:"required,min=1,dive"`
}

// TransitionRequest carries an optional concurrency token for a status
// change. A nil version skips the check.
type TransitionRequest struct {
	Version *int `json:"version,omitempty"`
}

// HistoryFilter narrows the order history listing. Results are capped at
// HistoryLimit rows, newest first.
type HistoryFilter struct {
	OrderNo      *string
	CustomerName *string
	Status       *Status
	PromisedFrom *time.Time
	PromisedTo   *time.Time
	PaidFrom     *time.Time
	PaidTo       *time.Time
}

// HistoryLimit caps history queries.
const HistoryLimit = 100
