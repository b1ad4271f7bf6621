package payment

import (
	"context"
	"errors"
	"fmt"

	"vastra-be/internal/logger"
	"vastra-be/internal/order"
	"vastra-be/internal/razorpay"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GatewayFactory builds a gateway client for one credentials set. The
// orchestrator never holds a process-global client; credentials are resolved
// per call and the client constructed from them.
type GatewayFactory func(creds razorpay.Credentials) razorpay.Client

type Service interface {
	// InitiateGatewayOrder creates a remote gateway order for an order that
	// is awaiting payment and persists the returned gateway order id onto
	// the order exactly once. Returns the gateway order id.
	InitiateGatewayOrder(ctx context.Context, orderID uint) (string, error)

	// ConfirmPayment verifies a client-submitted payment confirmation
	// against the gateway, reconciles the captured amount with the amount
	// owed and settles the order. Idempotent for an already settled order.
	ConfirmPayment(ctx context.Context, conf Confirmation) (*Payment, error)
}

type service struct {
	orders     order.Repository
	payments   Repository
	newGateway GatewayFactory
	methodCode string
	currency   string
}

func NewService(
	orders order.Repository,
	payments Repository,
	newGateway GatewayFactory,
	methodCode string,
	currency string,
) Service {
	return &service{
		orders:     orders,
		payments:   payments,
		newGateway: newGateway,
		methodCode: methodCode,
		currency:   currency,
	}
}

func (s *service) InitiateGatewayOrder(ctx context.Context, orderID uint) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "InitiateGatewayOrder"),
		zap.Uint("order_id", orderID),
	)

	ord, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			log.Warn("order not found")
			return "", ErrOrderNotEligible
		}
		return "", fmt.Errorf("load order: %w", err)
	}

	if ord.CustomerID == nil {
		log.Warn("order has no customer")
		return "", ErrOrderNotEligible
	}

	// One-shot guard: never regenerate a gateway order id for an order that
	// has moved on. Checked before any remote call.
	if ord.State != order.StatusArrangingPayment {
		log.Warn("order is not arranging payment", zap.String("state", string(ord.State)))
		return "", ErrInvalidOrderState
	}

	// An id persisted by an earlier attempt stays current; reuse it instead
	// of creating a second collectible remote order.
	if ord.GatewayOrderID != nil {
		log.Info("reusing persisted gateway order id",
			zap.String("gateway_order_id", *ord.GatewayOrderID),
		)
		return *ord.GatewayOrderID, nil
	}

	method, err := s.payments.GetMethodByCode(ctx, s.methodCode)
	if err != nil {
		if errors.Is(err, ErrConfiguration) {
			log.Error("payment method not configured", zap.String("code", s.methodCode))
			return "", ErrConfiguration
		}
		return "", fmt.Errorf("resolve payment method: %w", err)
	}

	client := s.newGateway(razorpay.Credentials{
		KeyID:     method.KeyID,
		KeySecret: method.KeySecret,
	})

	receipt := "rcpt-" + uuid.NewString()

	gw, err := client.CreateOrder(ctx, ord.Total, s.currency, receipt)
	if err != nil {
		if errors.Is(err, razorpay.ErrInvalidAmount) {
			log.Warn("order total is not chargeable", zap.Int64("total", ord.Total))
			return "", ErrOrderNotEligible
		}
		log.Error("gateway order creation failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	ok, err := s.orders.SetGatewayOrderID(ctx, orderID, gw.ID)
	if err != nil {
		// The remote order exists but was not persisted locally. Remote
		// orders are fetch-idempotent, so nothing is cancelled here; the
		// operator must reconcile.
		log.Error("failed to persist gateway order id; manual reconciliation required",
			zap.String("gateway_order_id", gw.ID),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if !ok {
		return s.resolveLostInitiation(ctx, log, orderID, gw.ID)
	}

	log.Info("gateway order id persisted", zap.String("gateway_order_id", gw.ID))
	return gw.ID, nil
}

// resolveLostInitiation handles a guarded update that matched no row: a
// concurrent initiation won, or the order state moved on mid-flight.
func (s *service) resolveLostInitiation(ctx context.Context, log *zap.Logger, orderID uint, createdID string) (string, error) {
	cur, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		log.Error("failed to re-read order after lost update",
			zap.String("gateway_order_id", createdID),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if cur.State == order.StatusArrangingPayment && cur.GatewayOrderID != nil {
		// A concurrent initiation persisted first; its id is the current
		// one. Our remote order is left orphaned and uncollected.
		log.Warn("concurrent initiation won; returning persisted gateway order id",
			zap.String("gateway_order_id", *cur.GatewayOrderID),
			zap.String("orphaned_gateway_order_id", createdID),
		)
		return *cur.GatewayOrderID, nil
	}

	if cur.State != order.StatusArrangingPayment {
		log.Warn("order state changed during initiation", zap.String("state", string(cur.State)))
		return "", ErrInvalidOrderState
	}

	log.Error("gateway order id missing after lost update",
		zap.String("gateway_order_id", createdID),
	)
	return "", ErrPersistence
}

func (s *service) ConfirmPayment(ctx context.Context, conf Confirmation) (*Payment, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ConfirmPayment"),
		zap.String("gateway_order_id", conf.GatewayOrderID),
		zap.String("gateway_payment_id", conf.GatewayPaymentID),
	)

	method, err := s.payments.GetMethodByCode(ctx, s.methodCode)
	if err != nil {
		if errors.Is(err, ErrConfiguration) {
			log.Error("payment method not configured", zap.String("code", s.methodCode))
			return nil, ErrConfiguration
		}
		return nil, fmt.Errorf("resolve payment method: %w", err)
	}

	valid := razorpay.VerifyPaymentSignature(
		conf.GatewayOrderID,
		conf.GatewayPaymentID,
		conf.Signature,
		method.KeySecret,
	)

	auditID := s.recordAttempt(ctx, log, conf, valid)

	if !valid {
		// Security event: possible forgery. No detail about why leaves
		// this boundary.
		log.Error("payment signature verification failed")
		s.markOutcome(ctx, log, auditID, OutcomeSignatureMismatch)
		return nil, ErrSignatureMismatch
	}

	ord, err := s.orders.GetByGatewayOrderID(ctx, conf.GatewayOrderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			log.Warn("no order carries this gateway order id")
			s.markOutcome(ctx, log, auditID, OutcomeError)
			return nil, ErrOrderNotEligible
		}
		s.markOutcome(ctx, log, auditID, OutcomeError)
		return nil, fmt.Errorf("load order: %w", err)
	}

	client := s.newGateway(razorpay.Credentials{
		KeyID:     method.KeyID,
		KeySecret: method.KeySecret,
	})

	gwPayments, err := client.FetchPayments(ctx, conf.GatewayOrderID)
	if err != nil {
		log.Error("failed to fetch payments from gateway", zap.Error(err))
		s.markOutcome(ctx, log, auditID, OutcomeError)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if len(gwPayments) == 0 {
		log.Info("no payment captured yet")
		s.markOutcome(ctx, log, auditID, OutcomePaymentNotFound)
		return nil, ErrPaymentNotFound
	}

	// Gateway orders accept at most one successful payment; the first
	// record is authoritative.
	captured := gwPayments[0]

	if !razorpay.AmountsMatch(captured.Amount, ord.Total) {
		log.Error("captured amount does not reconcile with order total",
			zap.Int64("captured", captured.Amount),
			zap.Int64("owed", ord.Total),
		)
		s.markOutcome(ctx, log, auditID, OutcomeAmountMismatch)
		return nil, ErrAmountMismatch
	}

	p := &Payment{
		OrderID:          ord.ID,
		GatewayOrderID:   conf.GatewayOrderID,
		GatewayPaymentID: captured.ID,
		Amount:           captured.Amount,
		Currency:         captured.Currency,
		Status:           "SETTLED",
		Method:           captured.Method,
	}

	ok, err := s.orders.SettlePayment(ctx, ord.ID)
	if err != nil {
		log.Error("failed to settle order", zap.Error(err))
		s.markOutcome(ctx, log, auditID, OutcomeError)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if !ok {
		cur, err := s.orders.GetByID(ctx, ord.ID)
		if err != nil {
			s.markOutcome(ctx, log, auditID, OutcomeError)
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if cur.State == order.StatusPaymentSettled {
			// Duplicate confirmation of a settled order is a no-op success,
			// not a second transition.
			log.Info("order already settled; confirmation is a no-op")
			s.markOutcome(ctx, log, auditID, OutcomeAlreadySettled)
			return p, nil
		}
		log.Warn("order left arranging payment before settlement", zap.String("state", string(cur.State)))
		s.markOutcome(ctx, log, auditID, OutcomeError)
		return nil, ErrInvalidOrderState
	}

	if err := s.payments.SavePayment(ctx, p); err != nil {
		// The order is settled; the payment row is bookkeeping. Log and
		// report success so the caller does not re-drive a settled order.
		log.Error("order settled but payment record not saved", zap.Error(err))
	}

	s.markOutcome(ctx, log, auditID, OutcomeSettled)

	log.Info("order settled",
		zap.Int64("amount", captured.Amount),
		zap.Uint("order_id", ord.ID),
	)
	return p, nil
}

// recordAttempt appends to the confirmation audit log. Audit failures are
// logged but never block the protocol.
func (s *service) recordAttempt(ctx context.Context, log *zap.Logger, conf Confirmation, valid bool) int64 {
	id, err := s.payments.RecordConfirmation(ctx, conf.GatewayOrderID, conf.GatewayPaymentID, valid)
	if err != nil {
		log.Warn("failed to record confirmation attempt", zap.Error(err))
		return 0
	}
	return id
}

func (s *service) markOutcome(ctx context.Context, log *zap.Logger, auditID int64, outcome string) {
	if auditID == 0 {
		return
	}
	if err := s.payments.MarkConfirmationOutcome(ctx, auditID, outcome); err != nil {
		log.Warn("failed to mark confirmation outcome", zap.Error(err))
	}
}
