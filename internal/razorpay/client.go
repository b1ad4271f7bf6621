package razorpay

import (
	"context"
	"errors"
	"fmt"
)

// Credentials identify one Razorpay key pair, resolved per payment-method
// configuration. The secret doubles as the HMAC key for signature checks.
type Credentials struct {
	KeyID     string
	KeySecret string
}

// Order is the gateway-side record of an intended payment. Immutable once
// created; a fresh payment attempt requires a fresh id.
type Order struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	CreatedAt  int64  `json:"created_at"`
}

// Payment is the gateway's authoritative record of a capture against an
// order. Fetched, never constructed locally.
type Payment struct {
	ID        string `json:"id"`
	Entity    string `json:"entity"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	OrderID   string `json:"order_id"`
	Method    string `json:"method"`
	CreatedAt int64  `json:"created_at"`
}

// ErrInvalidAmount is returned before any network call when the requested
// order amount is not a positive number of minor units.
var ErrInvalidAmount = errors.New("order amount must be a positive number of minor units")

// APIError is a non-success response from the Razorpay REST API.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay api error (status %d, code %s): %s", e.StatusCode, e.Code, e.Description)
}

type Client interface {
	// CreateOrder registers a new gateway order for amount minor units.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)

	// FetchPayments lists payments captured against a gateway order. An
	// empty result is not an error; it means "not yet paid".
	FetchPayments(ctx context.Context, gatewayOrderID string) ([]Payment, error)
}
