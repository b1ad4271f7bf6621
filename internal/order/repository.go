package order

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	GetByID(ctx context.Context, orderID uint) (*Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*Order, error)

	// SetGatewayOrderID persists the gateway order id onto the order as a
	// single conditional update: it only succeeds while the order is still
	// ARRANGING_PAYMENT and no id has been persisted yet. Returns false
	// when the guard did not match (concurrent writer won, or the order
	// moved on).
	SetGatewayOrderID(ctx context.Context, orderID uint, gatewayOrderID string) (bool, error)

	// SettlePayment transitions ARRANGING_PAYMENT -> PAYMENT_SETTLED as a
	// single conditional update. Returns false when the order was not in
	// ARRANGING_PAYMENT (e.g. already settled).
	SettlePayment(ctx context.Context, orderID uint) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, customer_id, state, total, currency, gateway_order_id, created_at, updated_at, settled_at`

func (r *repository) scanOrder(row *sql.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.State, &o.Total, &o.Currency,
		&o.GatewayOrderID, &o.CreatedAt, &o.UpdatedAt, &o.SettledAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE id = $1
	`, orderID)
	return r.scanOrder(row)
}

func (r *repository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE gateway_order_id = $1
	`, gatewayOrderID)
	return r.scanOrder(row)
}

func (r *repository) SetGatewayOrderID(ctx context.Context, orderID uint, gatewayOrderID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET gateway_order_id = $1, updated_at = now()
		WHERE id = $2
		  AND state = $3
		  AND gateway_order_id IS NULL
	`, gatewayOrderID, orderID, StatusArrangingPayment)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *repository) SettlePayment(ctx context.Context, orderID uint) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET state = $1, settled_at = now(), updated_at = now()
		WHERE id = $2
		  AND state = $3
	`, StatusPaymentSettled, orderID, StatusArrangingPayment)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
