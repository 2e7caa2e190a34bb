package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/logger"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/models"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/utils"
)

var (
	// ErrNotFound covers a missing order and an order owned by someone
	// else, same conflation as the order service.
	ErrNotFound = errors.New("order not found")

	// ErrAlreadyPaid is returned when the order's payment status is
	// already COMPLETED.
	ErrAlreadyPaid = errors.New("order is already paid")

	// ErrInProgress is returned when another request is minting a
	// payment for the same order right now.
	ErrInProgress = errors.New("payment creation already in progress for this order")

	// ErrGatewayUnavailable is returned when the payment gateway call
	// fails; the caller should retry.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

type OrderStore interface {
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type PaymentStore interface {
	GetPaymentByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	SavePayment(ctx context.Context, payment *models.Payment) error
	UpdatePayment(ctx context.Context, payment *models.Payment) error
}

// Gateway mints a gateway-side order reference for client checkout.
type Gateway interface {
	CreateOrder(amountMinorUnits int64, currency, receipt string, notes map[string]interface{}) (*GatewayOrder, error)
}

type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
}

// CreateLock serializes payment creation per order.
type CreateLock interface {
	Acquire(ctx context.Context, orderID string) (bool, error)
	Release(ctx context.Context, orderID string) error
}

type KafkaPublisher interface {
	PublishPaymentCreated(payment models.Payment) error
}

// Service is the payment coordinator: it mints gateway order
// references and tracks the local payment record. It never marks a
// payment COMPLETED; the gateway webhook consumer does that.
type Service struct {
	Orders   OrderStore
	Payments PaymentStore
	Gateway  Gateway
	Lock     CreateLock
	Kafka    KafkaPublisher

	keyID    string
	currency string
	logger   *logger.Logger
}

func NewService(orders OrderStore, payments PaymentStore, gateway Gateway, lock CreateLock, kafka KafkaPublisher, keyID, currency string, log *logger.Logger) *Service {
	return &Service{
		Orders:   orders,
		Payments: payments,
		Gateway:  gateway,
		Lock:     lock,
		Kafka:    kafka,
		keyID:    keyID,
		currency: currency,
		logger:   log,
	}
}

// MinorUnits converts a decimal currency amount into the gateway's
// integer minor units (paise for INR), rounding to the nearest unit.
func MinorUnits(total decimal.Decimal) int64 {
	return total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateIntent mints a gateway order for the caller's order and
// records a local PENDING payment with a snapshot of the payer's
// contact details.
func (s *Service) CreateIntent(ctx context.Context, orderID, callerUserID string) (*models.PaymentIntentResponse, error) {
	ok, err := s.Lock.Acquire(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire payment lock for order %s: %w", orderID, err)
	}
	if !ok {
		return nil, ErrInProgress
	}
	defer func() {
		if err := s.Lock.Release(ctx, orderID); err != nil {
			s.logger.Error("PAYMENT", fmt.Sprintf("Failed to release payment lock for order %s: %v", orderID, err))
		}
	}()

	ord, err := s.Orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	if ord.UserID != callerUserID {
		return nil, ErrNotFound
	}
	if ord.PaymentStatus == models.PaymentCompleted {
		return nil, ErrAlreadyPaid
	}

	user, err := s.Orders.GetUserByID(ctx, ord.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payer for order %s: %w", orderID, err)
	}

	amount := MinorUnits(ord.Total)

	gatewayOrder, err := s.Gateway.CreateOrder(amount, s.currency, ord.OrderNumber, map[string]interface{}{
		"order_id": ord.ID,
		"user_id":  ord.UserID,
	})
	if err != nil {
		s.logger.Error("PAYMENT", fmt.Sprintf("Gateway order create failed for order %s: %v", orderID, err))
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	existing, err := s.Payments.GetPaymentByOrderID(ctx, orderID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up payment for order %s: %w", orderID, err)
	}

	now := time.Now()
	if existing != nil {
		// One payment row per order: a retried checkout replaces the
		// gateway reference on the existing row.
		existing.GatewayOrderID = gatewayOrder.ID
		existing.Amount = amount
		existing.Currency = gatewayOrder.Currency
		existing.Status = models.PaymentPending
		existing.Email = user.Email
		existing.Contact = user.Phone
		existing.UpdatedDate = now
		if err := s.Payments.UpdatePayment(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update payment for order %s: %w", orderID, err)
		}
	} else {
		existing = &models.Payment{
			PaymentID:      utils.GeneratePaymentID(),
			OrderID:        ord.ID,
			GatewayOrderID: gatewayOrder.ID,
			Amount:         amount,
			Currency:       gatewayOrder.Currency,
			Status:         models.PaymentPending,
			Email:          user.Email,
			Contact:        user.Phone,
			CreatedDate:    now,
		}
		if err := s.Payments.SavePayment(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to save payment for order %s: %w", orderID, err)
		}
	}

	s.logger.LogPayment("CREATE", orderID, fmt.Sprintf("gateway order %s for %d %s", gatewayOrder.ID, amount, gatewayOrder.Currency))

	if err := s.Kafka.PublishPaymentCreated(*existing); err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("Publish failed (payment created) for order %s: %v", orderID, err))
	}

	return &models.PaymentIntentResponse{
		GatewayOrderID: gatewayOrder.ID,
		Amount:         amount,
		Currency:       gatewayOrder.Currency,
		KeyID:          s.keyID,
	}, nil
}
