package db

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateNotification(ctx context.Context, n models.Notification) error {
	_, err := d.Bun.NewInsert().Model(&n).Exec(ctx)
	return err
}

func (d *DB) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := d.Bun.NewSelect().
		Model(&notifications).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (d *DB) CountUnread(ctx context.Context, userID string) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Notification)(nil)).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Count(ctx)
}

// MarkRead flips is_read for a row the recipient owns. Rows of other
// users look like missing rows.
func (d *DB) MarkRead(ctx context.Context, id, userID string) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.Notification)(nil)).
		Set("is_read = ?", true).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (d *DB) MarkAllRead(ctx context.Context, userID string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Notification)(nil)).
		Set("is_read = ?", true).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Exec(ctx)
	return err
}

func (d *DB) DeleteNotification(ctx context.Context, id, userID string) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Notification)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
