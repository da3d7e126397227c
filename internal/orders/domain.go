package orders

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusNew            Status = "NEW"
	StatusConfirmed      Status = "CONFIRMED"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCanceled       Status = "CANCELED"
	StatusReadyForPickup Status = "READY_FOR_PICKUP"
	StatusPickedUp       Status = "PICKED_UP"
)

// Valid reports whether s is a known order status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusConfirmed, StatusOutForDelivery, StatusDelivered,
		StatusCanceled, StatusReadyForPickup, StatusPickedUp:
		return true
	}
	return false
}

// CanConfirm reports whether an order in status s may be confirmed.
// Confirming an already confirmed order is a no-op success.
func (s Status) CanConfirm() bool {
	return s == StatusNew || s == StatusConfirmed
}

// CanCancel reports whether an order in status s may be canceled.
// Only delivered orders are immutable.
func (s Status) CanCancel() bool {
	return s != StatusDelivered
}

// DeliveryType distinguishes delivered orders from customer pickups.
type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "DELIVERY"
	DeliveryTypePickup   DeliveryType = "PICKUP"
)

// Valid reports whether t is a known delivery type.
func (t DeliveryType) Valid() bool {
	return t == DeliveryTypeDelivery || t == DeliveryTypePickup
}

// PaymentMethod is how an order was settled.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentEFT  PaymentMethod = "EFT"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentEFT
}

// DayKey returns the UTC calendar-day component of an order number.
func DayKey(t time.Time) string {
	return t.UTC().Format("020106")
}

// FormatOrderNo renders an order number as DDMMYY-NNN. The sequence is
// per day, starting at 1.
func FormatOrderNo(day string, seq int) string {
	return fmt.Sprintf("%s-%03d", day, seq)
}
