package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Cancellable reports whether a customer may still cancel an order in
// this status. Orders that have shipped (or are already terminal) cannot
// be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s == OrderPending || s == OrderProcessing
}

type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID             string          `bun:"id,pk" json:"id"`
	OrderNumber    string          `bun:"order_number,notnull" json:"order_number"`
	UserID         string          `bun:"user_id,notnull" json:"user_id"`
	Status         OrderStatus     `bun:"status,notnull" json:"status"`
	PaymentStatus  PaymentStatus   `bun:"payment_status,notnull" json:"payment_status"`
	Total          decimal.Decimal `bun:"total,notnull" json:"total"`
	TrackingNumber string          `bun:"tracking_number,nullzero" json:"tracking_number,omitempty"`
	CancelledAt    time.Time       `bun:"cancelled_at,nullzero" json:"cancelled_at,omitempty"`
	CancelReason   string          `bun:"cancel_reason,nullzero" json:"cancel_reason,omitempty"`
	Notes          string          `bun:"notes,nullzero" json:"notes,omitempty"`
	CreatedAt      time.Time       `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt      time.Time       `bun:"updated_at,nullzero" json:"updated_at,omitempty"`

	Items []OrderItem `bun:"rel:has-many,join:id=order_id" json:"items,omitempty"`
}

// OrderItem is a snapshot of a product at the moment the order was
// placed. Later catalog edits never change what the customer bought.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items"`

	ID          string          `bun:"id,pk" json:"id"`
	OrderID     string          `bun:"order_id,notnull" json:"order_id"`
	ProductID   string          `bun:"product_id,notnull" json:"product_id"`
	ProductName string          `bun:"product_name,notnull" json:"product_name"`
	UnitPrice   decimal.Decimal `bun:"unit_price,notnull" json:"unit_price"`
	Quantity    int             `bun:"quantity,notnull" json:"quantity"`
}

// OrderStatusHistory rows are append-only. Nothing updates or deletes
// them once written.
type OrderStatusHistory struct {
	bun.BaseModel `bun:"table:order_status_history"`

	ID        string      `bun:"id,pk" json:"id"`
	OrderID   string      `bun:"order_id,notnull" json:"order_id"`
	Status    OrderStatus `bun:"status,notnull" json:"status"`
	Notes     string      `bun:"notes,nullzero" json:"notes,omitempty"`
	CreatedAt time.Time   `bun:"created_at,notnull" json:"created_at"`
}

// OrderPatch carries the admin override fields. Only non-nil fields are
// applied; the override deliberately skips the customer state machine.
type OrderPatch struct {
	Status         *OrderStatus
	TrackingNumber *string
	Notes          *string
}

func (p OrderPatch) Empty() bool {
	return p.Status == nil && p.TrackingNumber == nil && p.Notes == nil
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type AdminOrderUpdateRequest struct {
	Status         *string `json:"status"`
	TrackingNumber *string `json:"tracking_number"`
	Notes          *string `json:"notes"`
}
