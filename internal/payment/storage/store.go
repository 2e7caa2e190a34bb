package storage

import (
	"context"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/models"
)

// Store is the persistence surface for payment records.
type Store interface {
	SavePayment(ctx context.Context, payment *models.Payment) error
	GetPaymentByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	UpdatePayment(ctx context.Context, payment *models.Payment) error
	HealthCheck() error
	Close() error
}
