package models

import (
	"time"

	"github.com/uptrace/bun"
)

type NotificationType string

const (
	NotificationOrder   NotificationType = "ORDER"
	NotificationPayment NotificationType = "PAYMENT"
	NotificationSystem  NotificationType = "SYSTEM"
)

type Notification struct {
	bun.BaseModel `bun:"table:notifications"`

	ID        string           `bun:"id,pk" json:"id"`
	UserID    string           `bun:"user_id,notnull" json:"user_id"`
	Title     string           `bun:"title,notnull" json:"title"`
	Message   string           `bun:"message,notnull" json:"message"`
	Type      NotificationType `bun:"type,notnull" json:"type"`
	Link      string           `bun:"link,nullzero" json:"link,omitempty"`
	IsRead    bool             `bun:"is_read,notnull,default:false" json:"is_read"`
	CreatedAt time.Time        `bun:"created_at,notnull" json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}
