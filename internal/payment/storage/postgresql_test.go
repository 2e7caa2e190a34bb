package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/logger"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/models"
)

func setupMockStore(t *testing.T) (*PostgreSQLStore, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	// NewPostgreSQLStoreWithDB runs the DDL, so expect it up front.
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS payments").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_payments_gateway_order_id").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_payments_status").WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := NewPostgreSQLStoreWithDB(db, logger.NewLogger())
	require.NoError(t, err)

	return store, mock, db
}

func testPayment() *models.Payment {
	return &models.Payment{
		PaymentID:      "pay_123",
		OrderID:        "order-1",
		GatewayOrderID: "order_rzp_1",
		Amount:         14950,
		Currency:       "INR",
		Status:         models.PaymentPending,
		Email:          "asha@example.com",
		Contact:        "+919876543210",
		CreatedDate:    time.Now(),
	}
}

func TestSavePayment(t *testing.T) {
	store, mock, db := setupMockStore(t)
	defer db.Close()

	p := testPayment()
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(p.PaymentID, p.OrderID, p.GatewayOrderID, p.Amount,
			p.Currency, p.Status, p.Email, p.Contact, p.CreatedDate).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.SavePayment(context.Background(), p)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPaymentByOrderID(t *testing.T) {
	store, mock, db := setupMockStore(t)
	defer db.Close()

	p := testPayment()
	rows := sqlmock.NewRows([]string{
		"payment_id", "order_id", "gateway_order_id", "amount",
		"currency", "status", "email", "contact", "created_date",
	}).AddRow(p.PaymentID, p.OrderID, p.GatewayOrderID, p.Amount,
		p.Currency, string(p.Status), p.Email, p.Contact, p.CreatedDate)

	mock.ExpectQuery("SELECT (.+) FROM payments WHERE order_id").
		WithArgs("order-1").
		WillReturnRows(rows)

	got, err := store.GetPaymentByOrderID(context.Background(), "order-1")

	require.NoError(t, err)
	assert.Equal(t, "pay_123", got.PaymentID)
	assert.Equal(t, int64(14950), got.Amount)
	assert.Equal(t, models.PaymentPending, got.Status)
	assert.Equal(t, "asha@example.com", got.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPaymentByOrderID_NoRows(t *testing.T) {
	store, mock, db := setupMockStore(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM payments WHERE order_id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	got, err := store.GetPaymentByOrderID(context.Background(), "missing")

	// The raw sentinel passes through so callers can errors.Is on it.
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Nil(t, got)
}

func TestUpdatePayment(t *testing.T) {
	store, mock, db := setupMockStore(t)
	defer db.Close()

	p := testPayment()
	p.GatewayOrderID = "order_rzp_2"
	p.UpdatedDate = time.Now()

	mock.ExpectExec("UPDATE payments SET").
		WithArgs(p.GatewayOrderID, p.Amount, p.Currency, p.Status,
			p.Email, p.Contact, p.UpdatedDate, p.PaymentID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdatePayment(context.Background(), p)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
