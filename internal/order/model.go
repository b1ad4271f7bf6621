package order

import (
	"time"
)

type Status string

const (
	StatusAddingItems      Status = "ADDING_ITEMS"
	StatusArrangingPayment Status = "ARRANGING_PAYMENT"
	StatusPaymentSettled   Status = "PAYMENT_SETTLED"
	StatusCancelled        Status = "CANCELLED"
)

type Order struct {
	ID         uint
	CustomerID *uint
	State      Status

	// Total is the amount owed, in minor currency units (paise for INR).
	Total    int64
	Currency string

	// GatewayOrderID is the Razorpay order id persisted exactly once per
	// payment attempt. Nil until InitiateGatewayOrder succeeds.
	GatewayOrderID *string

	CreatedAt time.Time
	UpdatedAt time.Time
	SettledAt *time.Time
}
