package db

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/models"
)

// CreateTables creates the bun-managed tables. Used by local setups and
// tests; production schemas go through the SQL migrations.
func CreateTables(ctx context.Context, bunDB *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Order)(nil),
		(*models.OrderItem)(nil),
		(*models.OrderStatusHistory)(nil),
		(*models.Notification)(nil),
	}
	for _, model := range tables {
		if _, err := bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
