package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetMethodByCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"code", "key_id", "key_secret", "enabled"}).
			AddRow("razorpay", "rzp_test_key", "rzp_test_secret", true)

		mock.ExpectQuery(`SELECT code, key_id, key_secret, enabled FROM payment_methods`).
			WithArgs("razorpay").
			WillReturnRows(rows)

		m, err := repo.GetMethodByCode(ctx, "razorpay")
		assert.NoError(t, err)
		assert.Equal(t, "rzp_test_key", m.KeyID)
		assert.Equal(t, "rzp_test_secret", m.KeySecret)
		assert.True(t, m.Enabled)
	})

	t.Run("NotConfigured", func(t *testing.T) {
		mock.ExpectQuery(`SELECT code, key_id, key_secret, enabled FROM payment_methods`).
			WithArgs("razorpay").
			WillReturnRows(sqlmock.NewRows([]string{"code"}))

		m, err := repo.GetMethodByCode(ctx, "razorpay")
		assert.ErrorIs(t, err, ErrConfiguration)
		assert.Nil(t, m)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT code, key_id, key_secret, enabled FROM payment_methods`).
			WithArgs("razorpay").
			WillReturnError(errors.New("db error"))

		_, err := repo.GetMethodByCode(ctx, "razorpay")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrConfiguration)
	})
}

func TestRepository_SavePayment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	p := &Payment{
		OrderID:          42,
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_xyz",
		Amount:           50000,
		Currency:         "INR",
		Status:           "SETTLED",
		Method:           "upi",
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO payments`).
			WithArgs(
				p.OrderID, p.GatewayOrderID, p.GatewayPaymentID, p.Amount,
				p.Currency, p.Status, p.Method, "RAZORPAY",
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.SavePayment(context.Background(), p)
		assert.NoError(t, err)
	})

	t.Run("DuplicateIsIgnored", func(t *testing.T) {
		// ON CONFLICT DO NOTHING: zero rows affected, no error.
		mock.ExpectExec(`INSERT INTO payments`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SavePayment(context.Background(), p)
		assert.NoError(t, err)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO payments`).
			WillReturnError(errors.New("database error"))

		err := repo.SavePayment(context.Background(), p)
		assert.Error(t, err)
	})
}

func TestRepository_RecordConfirmation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO payment_confirmations`).
			WithArgs("RAZORPAY", "order_abc", "pay_xyz", true).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

		id, err := repo.RecordConfirmation(ctx, "order_abc", "pay_xyz", true)
		assert.NoError(t, err)
		assert.Equal(t, int64(10), id)
	})

	t.Run("InvalidSignatureIsStillRecorded", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO payment_confirmations`).
			WithArgs("RAZORPAY", "order_abc", "pay_forged", false).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		id, err := repo.RecordConfirmation(ctx, "order_abc", "pay_forged", false)
		assert.NoError(t, err)
		assert.Equal(t, int64(11), id)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO payment_confirmations`).
			WillReturnError(errors.New("db error"))

		id, err := repo.RecordConfirmation(ctx, "order_abc", "pay_xyz", true)
		assert.Error(t, err)
		assert.Equal(t, int64(0), id)
	})
}

func TestRepository_MarkConfirmationOutcome(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE payment_confirmations`).
			WithArgs(int64(10), OutcomeSettled).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkConfirmationOutcome(ctx, 10, OutcomeSettled)
		assert.NoError(t, err)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectExec(`UPDATE payment_confirmations`).
			WithArgs(int64(10), OutcomeError).
			WillReturnError(errors.New("db error"))

		err := repo.MarkConfirmationOutcome(ctx, 10, OutcomeError)
		assert.Error(t, err)
	})
}
