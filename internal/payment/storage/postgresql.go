package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/logger"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/models"
)

// PostgreSQLStore keeps payments in a plain-SQL table, separate from
// the bun-managed order tables.
type PostgreSQLStore struct {
	db  *sql.DB
	log *logger.Logger
}

// NewPostgreSQLStoreWithDB wraps an existing connection, shared with
// the bun order store.
func NewPostgreSQLStoreWithDB(db *sql.DB, log *logger.Logger) (*PostgreSQLStore, error) {
	store := &PostgreSQLStore{
		db:  db,
		log: log,
	}

	if err := store.initTables(); err != nil {
		log.Error("DATABASE", "Failed to initialize payment tables: "+err.Error())
		return nil, fmt.Errorf("failed to initialize payment tables: %w", err)
	}

	log.LogDatabase("READY", "payments", "Payment storage initialized")
	return store, nil
}

func (s *PostgreSQLStore) initTables() error {
	paymentsQuery := `
    CREATE TABLE IF NOT EXISTS payments (
        payment_id VARCHAR(64) PRIMARY KEY,
        order_id VARCHAR(36) NOT NULL UNIQUE,
        gateway_order_id VARCHAR(64) NOT NULL,
        amount BIGINT NOT NULL,
        currency VARCHAR(8) NOT NULL,
        status VARCHAR(20) NOT NULL,
        email VARCHAR(255),
        contact VARCHAR(32),
        created_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_date TIMESTAMP
    );
    `
	if _, err := s.db.Exec(paymentsQuery); err != nil {
		return fmt.Errorf("failed to create payments table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_payments_gateway_order_id ON payments(gateway_order_id);",
		"CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status);",
	}
	for _, indexQuery := range indexes {
		if _, err := s.db.Exec(indexQuery); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// SavePayment inserts a new payment record.
func (s *PostgreSQLStore) SavePayment(ctx context.Context, payment *models.Payment) error {
	s.log.LogDatabase("INSERT", "payments", fmt.Sprintf("Saving payment %s", payment.PaymentID))

	query := `
    INSERT INTO payments (
        payment_id, order_id, gateway_order_id, amount, currency, status, email, contact, created_date
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := s.db.ExecContext(ctx, query,
		payment.PaymentID, payment.OrderID, payment.GatewayOrderID, payment.Amount,
		payment.Currency, payment.Status, payment.Email, payment.Contact, payment.CreatedDate,
	)
	if err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Failed to save payment %s: %s", payment.PaymentID, err.Error()))
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

// GetPaymentByOrderID returns the order's payment record, or
// sql.ErrNoRows when none exists yet.
func (s *PostgreSQLStore) GetPaymentByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	query := `
    SELECT payment_id, order_id, gateway_order_id, amount, currency, status, email, contact, created_date
    FROM payments WHERE order_id = $1
    `

	payment := &models.Payment{}
	err := s.db.QueryRowContext(ctx, query, orderID).Scan(
		&payment.PaymentID, &payment.OrderID, &payment.GatewayOrderID, &payment.Amount,
		&payment.Currency, &payment.Status, &payment.Email, &payment.Contact, &payment.CreatedDate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		s.log.Error("DATABASE", fmt.Sprintf("Failed to get payment for order %s: %s", orderID, err.Error()))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// UpdatePayment rewrites the mutable fields of an existing record.
func (s *PostgreSQLStore) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	s.log.LogDatabase("UPDATE", "payments", fmt.Sprintf("Updating payment %s", payment.PaymentID))

	query := `
    UPDATE payments SET
        gateway_order_id = $1, amount = $2, currency = $3, status = $4, email = $5, contact = $6, updated_date = $7
    WHERE payment_id = $8
    `
	_, err := s.db.ExecContext(ctx, query,
		payment.GatewayOrderID, payment.Amount, payment.Currency, payment.Status,
		payment.Email, payment.Contact, payment.UpdatedDate, payment.PaymentID,
	)
	if err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Failed to update payment %s: %s", payment.PaymentID, err.Error()))
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}

func (s *PostgreSQLStore) HealthCheck() error {
	return s.db.Ping()
}

func (s *PostgreSQLStore) Close() error {
	return s.db.Close()
}
