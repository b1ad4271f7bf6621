package payment

import (
	"time"
)

// Confirmation is the client-submitted proof that a payment was completed
// at the gateway. It lives only for the duration of one verification call.
type Confirmation struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

// Payment is the local record written once a confirmation settles an order.
type Payment struct {
	ID               uint
	OrderID          uint
	GatewayOrderID   string
	GatewayPaymentID string
	Amount           int64
	Currency         string
	Status           string
	Method           string
	CreatedAt        time.Time
}

// Method is one payment-method configuration row; its key pair is the
// credentials set passed opaquely into the gateway client.
type Method struct {
	Code      string
	KeyID     string
	KeySecret string
	Enabled   bool
}

// Confirmation audit outcomes.
const (
	OutcomeSettled           = "SETTLED"
	OutcomeAlreadySettled    = "ALREADY_SETTLED"
	OutcomeSignatureMismatch = "SIGNATURE_MISMATCH"
	OutcomePaymentNotFound   = "PAYMENT_NOT_FOUND"
	OutcomeAmountMismatch    = "AMOUNT_MISMATCH"
	OutcomeError             = "ERROR"
)
