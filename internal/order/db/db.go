package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/models"
)

// ErrNoRowsAffected is returned when a guarded update matched no rows,
// usually because the row's status changed since it was read.
var ErrNoRowsAffected = errors.New("no rows affected")

type DB struct {
	Bun *bun.DB
}

// ---------------- ORDERS ----------------

func (d *DB) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var ord models.Order
	err := d.Bun.NewSelect().
		Model(&ord).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

func (d *DB) GetOrderWithItems(ctx context.Context, id string) (*models.Order, error) {
	var ord models.Order
	err := d.Bun.NewSelect().
		Model(&ord).
		Relation("Items").
		Where("\"order\".id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

// CancelOrderTx commits the order's cancellation fields and the history
// row in one transaction. The update re-checks the status guard so a
// concurrent transition cannot produce a second history row; history
// is never visible before the status column changes.
func (d *DB) CancelOrderTx(ctx context.Context, order *models.Order, historyNotes string) error {
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(order).
			Column("status", "cancelled_at", "cancel_reason", "updated_at").
			Where("id = ?", order.ID).
			Where("status IN (?)", bun.In([]models.OrderStatus{models.OrderPending, models.OrderProcessing})).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNoRowsAffected
		}

		history := &models.OrderStatusHistory{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			Status:    order.Status,
			Notes:     historyNotes,
			CreatedAt: time.Now(),
		}
		_, err = tx.NewInsert().Model(history).Exec(ctx)
		return err
	})
}

// ApplyOrderPatch updates only the supplied fields and returns the
// fresh row.
func (d *DB) ApplyOrderPatch(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error) {
	q := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id)

	if patch.Status != nil {
		q = q.Set("status = ?", *patch.Status)
	}
	if patch.TrackingNumber != nil {
		q = q.Set("tracking_number = ?", *patch.TrackingNumber)
	}
	if patch.Notes != nil {
		q = q.Set("notes = ?", *patch.Notes)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, sql.ErrNoRows
	}

	return d.GetOrderByID(ctx, id)
}

// ---------------- HISTORY ----------------

// AppendHistory writes one history row outside of any transition
// transaction.
func (d *DB) AppendHistory(ctx context.Context, orderID string, status models.OrderStatus, notes string) error {
	history := &models.OrderStatusHistory{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Status:    status,
		Notes:     notes,
		CreatedAt: time.Now(),
	}
	_, err := d.Bun.NewInsert().Model(history).Exec(ctx)
	return err
}

// GetHistoryByOrder returns history rows oldest first, the display
// order for the customer's tracking view.
func (d *DB) GetHistoryByOrder(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	var history []models.OrderStatusHistory
	err := d.Bun.NewSelect().
		Model(&history).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return history, nil
}

// ---------------- USERS ----------------

func (d *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
