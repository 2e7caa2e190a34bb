package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Payment is the local record of a gateway payment intent. At most one
// exists per order. Email and Contact are snapshots of the payer's
// details at creation time, not live references.
type Payment struct {
	PaymentID      string        `json:"payment_id"`
	OrderID        string        `json:"order_id"`
	GatewayOrderID string        `json:"gateway_order_id"`
	Amount         int64         `json:"amount"` // minor currency units
	Currency       string        `json:"currency"`
	Status         PaymentStatus `json:"status"`
	Email          string        `json:"email"`
	Contact        string        `json:"contact"`
	CreatedDate    time.Time     `json:"created_date"`
	UpdatedDate    time.Time     `json:"updated_date,omitempty"`
}

type CreatePaymentRequest struct {
	OrderID string `json:"order_id"`
}

// PaymentIntentResponse is handed to the client for the gateway
// checkout handoff.
type PaymentIntentResponse struct {
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	KeyID          string `json:"key_id"`
}
