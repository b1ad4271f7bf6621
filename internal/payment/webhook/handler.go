package webhook

import (
	"encoding/json"
	"errors"
	"net/http"

	"vastra-be/internal/logger"
	"vastra-be/internal/payment"

	"go.uber.org/zap"
)

// GenerateRequest asks for a gateway order id for one merchant order.
type GenerateRequest struct {
	OrderID uint `json:"orderId"`
}

type GenerateResponse struct {
	RazorpayOrderID string `json:"razorpayOrderId"`
}

// ConfirmRequest is the shape the storefront posts after the shopper
// completes checkout at the gateway.
type ConfirmRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type ConfirmResponse struct {
	Status            string `json:"status"`
	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpayPaymentID string `json:"razorpayPaymentId"`
}

type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// Handler exposes the two payment operations over HTTP.
type Handler struct {
	Svc payment.Service
}

func NewHandler(svc payment.Service) *Handler {
	return &Handler{Svc: svc}
}

// GenerateOrderHandler handles POST /payment/razorpay/order.
func (h *Handler) GenerateOrderHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == 0 {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	gatewayOrderID, err := h.Svc.InitiateGatewayOrder(r.Context(), req.OrderID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{RazorpayOrderID: gatewayOrderID})
}

// ConfirmHandler handles POST /payment/razorpay/confirm.
func (h *Handler) ConfirmHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" {
		http.Error(w, "missing gateway identifiers", http.StatusBadRequest)
		return
	}

	p, err := h.Svc.ConfirmPayment(r.Context(), payment.Confirmation{
		GatewayOrderID:   req.RazorpayOrderID,
		GatewayPaymentID: req.RazorpayPaymentID,
		Signature:        req.RazorpaySignature,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ConfirmResponse{
		Status:            "settled",
		RazorpayOrderID:   p.GatewayOrderID,
		RazorpayPaymentID: p.GatewayPaymentID,
	})
}

// Fixed wire messages per error code. Internal detail, and in particular
// the reason a signature failed, never leaves this boundary.
var wireMessages = map[string]string{
	"ORDER_NOT_FOUND_ERROR":     "The order id you have provided is invalid",
	"INVALID_ORDER_STATE_ERROR": "The order must be awaiting payment to generate a gateway order id for it",
	"CONFIGURATION_ERROR":       "Payment method is not configured",
	"GATEWAY_UNAVAILABLE_ERROR": "Payment gateway is unavailable, try again later",
	"PERSISTENCE_ERROR":         "Payment state could not be saved",
	"SIGNATURE_MISMATCH_ERROR":  "Payment confirmation rejected",
	"PAYMENT_NOT_FOUND_ERROR":   "No payment has been captured for this order yet",
	"AMOUNT_MISMATCH_ERROR":     "Captured amount does not settle this order",
	"INTERNAL_SERVER_ERROR":     "Internal server error",
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, payment.ErrOrderNotEligible):
		return http.StatusNotFound
	case errors.Is(err, payment.ErrInvalidOrderState):
		return http.StatusConflict
	case errors.Is(err, payment.ErrSignatureMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, payment.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, payment.ErrAmountMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, payment.ErrGatewayUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := payment.Code(err)

	logger.FromCtx(r.Context()).Warn("payment operation failed",
		zap.String("error_code", code),
		zap.Error(err),
	)

	writeJSON(w, statusFor(err), ErrorResponse{
		ErrorCode: code,
		Message:   wireMessages[code],
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
