package payments

import (
	"time"

	"github.com/icedepot/icedepot/internal/orders"
)

// Payment is a settlement recorded against an order. The business flow
// treats "paid" as a flag on the order; the payment row is the audit trail.
type Payment struct {
	ID         int64                `json:"id"`
	OrderID    int64                `json:"order_id"`
	OrderNo    string               `json:"order_no,omitempty"`
	Amount     float64              `json:"amount"`
	Method     orders.PaymentMethod `json:"method"`
	PaidAt     time.Time            `json:"paid_at"`
	RecordedBy string               `json:"recorded_by"`
	CreatedAt  time.Time            `json:"created_at"`
}

// RecordPaymentRequest carries input for recording a payment.
type RecordPaymentRequest struct {
	OrderID int64                `json:"order_id" validate:"required"`
	Amount  float64              `json:"amount" validate:"gt=0"`
	Method  orders.PaymentMethod `json:"method" validate:"required,oneof=CASH EFT"`
	PaidAt  *time.Time           `json:"paid_at,omitempty"`
}

// Index is the payments landing payload: recent settlements plus orders
// still awaiting payment.
type Index struct {
	Recent      []Payment      `json:"recent"`
	Outstanding []orders.Order `json:"outstanding"`
}

// RecentLimit caps the recent-payments listing.
const RecentLimit = 25
