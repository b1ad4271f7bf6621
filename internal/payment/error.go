package payment

import "errors"

var (
	// ErrOrderNotEligible: the order does not exist, has no customer, or the
	// confirmation references a gateway order id no order carries.
	ErrOrderNotEligible = errors.New("order not eligible for payment")

	// ErrInvalidOrderState: the order is not awaiting payment; gateway order
	// id generation is one-shot and guarded by the current state.
	ErrInvalidOrderState = errors.New("order is not in ARRANGING_PAYMENT state")

	// ErrConfiguration: no enabled credentials for the configured payment
	// method. Fatal, operator-visible, not retried.
	ErrConfiguration = errors.New("payment method is not configured")

	// ErrGatewayUnavailable: the gateway call failed before any local state
	// was committed. Safe for the caller to retry.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrPersistence: the remote order exists but the local write failed.
	// Requires reconciliation; never triggers a remote cancel.
	ErrPersistence = errors.New("failed to persist payment state")

	// ErrSignatureMismatch: possible forgery. Logged at high severity and
	// never retried automatically. Carries no detail about why.
	ErrSignatureMismatch = errors.New("payment confirmation rejected")

	// ErrPaymentNotFound: the gateway has not captured a payment yet.
	// Transient; the caller may poll.
	ErrPaymentNotFound = errors.New("no payment captured for gateway order")

	// ErrAmountMismatch: captured amount differs from the amount owed.
	// Fatal for this attempt; flagged for manual review.
	ErrAmountMismatch = errors.New("captured amount does not match order total")
)

// Code maps a protocol error to its stable wire code so the transport never
// leaks internal detail.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrOrderNotEligible):
		return "ORDER_NOT_FOUND_ERROR"
	case errors.Is(err, ErrInvalidOrderState):
		return "INVALID_ORDER_STATE_ERROR"
	case errors.Is(err, ErrConfiguration):
		return "CONFIGURATION_ERROR"
	case errors.Is(err, ErrGatewayUnavailable):
		return "GATEWAY_UNAVAILABLE_ERROR"
	case errors.Is(err, ErrPersistence):
		return "PERSISTENCE_ERROR"
	case errors.Is(err, ErrSignatureMismatch):
		return "SIGNATURE_MISMATCH_ERROR"
	case errors.Is(err, ErrPaymentNotFound):
		return "PAYMENT_NOT_FOUND_ERROR"
	case errors.Is(err, ErrAmountMismatch):
		return "AMOUNT_MISMATCH_ERROR"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}
