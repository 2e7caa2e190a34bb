package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/auth"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/logger"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/models"
	orderdb "github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/order/db"
)

// DefaultCancelReason is stored when the customer gives none.
const DefaultCancelReason = "Cancelled by customer"

type DBLayer interface {
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	GetOrderWithItems(ctx context.Context, id string) (*models.Order, error)
	CancelOrderTx(ctx context.Context, order *models.Order, historyNotes string) error
	ApplyOrderPatch(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error)
	GetHistoryByOrder(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error)
}

type Notifier interface {
	Emit(ctx context.Context, userID, title, message string, typ models.NotificationType, link string) error
}

type KafkaPublisher interface {
	PublishOrderCancelled(order models.Order) error
	PublishOrderUpdated(order models.Order) error
}

// OrderService owns the order status state machine: the customer-facing
// checked cancel, the admin override, and the history trail.
type OrderService struct {
	DB     DBLayer
	Notify Notifier
	Kafka  KafkaPublisher
	logger *logger.Logger
}

func NewOrderService(db DBLayer, notify Notifier, kafka KafkaPublisher, log *logger.Logger) *OrderService {
	return &OrderService{DB: db, Notify: notify, Kafka: kafka, logger: log}
}

// Cancel moves an order the caller owns from PENDING/PROCESSING to
// CANCELLED, appending exactly one history row. The order update and
// the history append commit together; the notification and the kafka
// event are emitted after commit and never fail the transition.
func (s *OrderService) Cancel(ctx context.Context, orderID, callerUserID, reason string) (*models.Order, error) {
	ord, err := s.DB.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	if ord.UserID != callerUserID {
		return nil, ErrNotFound
	}
	if !ord.Status.Cancellable() {
		return nil, fmt.Errorf("%w: cannot cancel an order in status %s", ErrInvalidTransition, ord.Status)
	}

	if reason == "" {
		reason = DefaultCancelReason
	}

	now := time.Now()
	ord.Status = models.OrderCancelled
	ord.CancelledAt = now
	ord.CancelReason = reason
	ord.UpdatedAt = now

	historyNotes := "cancelled by customer: " + reason
	if err := s.DB.CancelOrderTx(ctx, ord, historyNotes); err != nil {
		if errors.Is(err, orderdb.ErrNoRowsAffected) {
			// The status changed under us between the read and the
			// update; the in-transaction guard rejected the write.
			return nil, fmt.Errorf("%w: order %s is no longer cancellable", ErrInvalidTransition, orderID)
		}
		return nil, fmt.Errorf("failed to cancel order %s: %w", orderID, err)
	}
	s.logger.LogOrder("CANCEL", orderID, "order cancelled: "+reason)

	if err := s.Notify.Emit(ctx, ord.UserID,
		"Order Cancelled",
		fmt.Sprintf("Your order %s has been cancelled.", ord.OrderNumber),
		models.NotificationOrder,
		"/orders/"+ord.ID,
	); err != nil {
		s.logger.Error("ORDER", fmt.Sprintf("Notification emit failed for order %s: %v", orderID, err))
	}

	if err := s.Kafka.PublishOrderCancelled(*ord); err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("Publish failed (order cancelled) for %s: %v", orderID, err))
	}

	return ord, nil
}

// AdminTransition applies a partial update to any order. It is a direct
// administrative override: no ownership check, no state-machine check,
// and no history row. Admins are trusted to set any status directly,
// e.g. for corrections.
func (s *OrderService) AdminTransition(ctx context.Context, orderID, callerRole string, patch models.OrderPatch) (*models.Order, error) {
	if callerRole != auth.RoleAdmin {
		return nil, ErrForbidden
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
	}
	if patch.Empty() {
		return nil, fmt.Errorf("%w: no fields supplied", ErrInvalidStatus)
	}

	ord, err := s.DB.ApplyOrderPatch(ctx, orderID, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update order %s: %w", orderID, err)
	}
	s.logger.LogOrder("ADMIN_UPDATE", orderID, "admin override applied")

	if err := s.Kafka.PublishOrderUpdated(*ord); err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("Publish failed (order updated) for %s: %v", orderID, err))
	}

	return ord, nil
}

// GetHistory returns the order's status trail, oldest first.
func (s *OrderService) GetHistory(ctx context.Context, orderID, callerUserID string) ([]models.OrderStatusHistory, error) {
	ord, err := s.DB.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	if ord.UserID != callerUserID {
		return nil, ErrNotFound
	}

	history, err := s.DB.GetHistoryByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for order %s: %w", orderID, err)
	}
	return history, nil
}

// GetOrder returns one order with its item snapshots.
func (s *OrderService) GetOrder(ctx context.Context, orderID, callerUserID string) (*models.Order, error) {
	ord, err := s.DB.GetOrderWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	if ord.UserID != callerUserID {
		return nil, ErrNotFound
	}
	return ord, nil
}
