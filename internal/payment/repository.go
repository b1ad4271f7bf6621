package payment

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	// GetMethodByCode resolves the credentials configured for one payment
	// method. Returns ErrConfiguration when no enabled row exists.
	GetMethodByCode(ctx context.Context, code string) (*Method, error)

	// SavePayment records the captured payment once an order settles.
	// Duplicate gateway payment ids are ignored (idempotent confirmations).
	SavePayment(ctx context.Context, p *Payment) error

	// RecordConfirmation appends one confirmation attempt to the audit log.
	RecordConfirmation(ctx context.Context, gatewayOrderID, gatewayPaymentID string, signatureValid bool) (int64, error)

	// MarkConfirmationOutcome stores the final outcome of an attempt.
	MarkConfirmationOutcome(ctx context.Context, confirmationID int64, outcome string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetMethodByCode(ctx context.Context, code string) (*Method, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT code, key_id, key_secret, enabled
		FROM payment_methods WHERE code = $1 AND enabled = TRUE
	`, code)

	var m Method
	err := row.Scan(&m.Code, &m.KeyID, &m.KeySecret, &m.Enabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConfiguration
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) SavePayment(ctx context.Context, p *Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (order_id,
		gateway_order_id,
		gateway_payment_id,
		amount,
		currency,
		status,
		method,
		provider)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (gateway_payment_id) DO NOTHING
	`,
		p.OrderID, p.GatewayOrderID, p.GatewayPaymentID, p.Amount,
		p.Currency, p.Status, p.Method, "RAZORPAY",
	)
	return err
}

func (r *repository) RecordConfirmation(
	ctx context.Context,
	gatewayOrderID string,
	gatewayPaymentID string,
	signatureValid bool,
) (int64, error) {

	const q = `
	INSERT INTO payment_confirmations (
		provider,
		gateway_order_id,
		gateway_payment_id,
		signature_valid
	)
	VALUES ($1, $2, $3, $4)
	RETURNING id;
	`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		q,
		"RAZORPAY",
		gatewayOrderID,
		gatewayPaymentID,
		signatureValid,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (r *repository) MarkConfirmationOutcome(
	ctx context.Context,
	confirmationID int64,
	outcome string,
) error {

	const q = `
	UPDATE payment_confirmations
	SET outcome = $2, processed_at = now()
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, confirmationID, outcome)
	return err
}
