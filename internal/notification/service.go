package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/logger"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/models"
)

type DBLayer interface {
	CreateNotification(ctx context.Context, n models.Notification) error
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, id, userID string) error
}

// Service writes and serves per-user notifications. Emit is the
// fire-and-forget producer used by lifecycle transitions; the rest is
// recipient CRUD.
type Service struct {
	DB     DBLayer
	logger *logger.Logger
}

func NewService(db DBLayer, log *logger.Logger) *Service {
	return &Service{DB: db, logger: log}
}

// Emit writes one unread notification row for the recipient.
func (s *Service) Emit(ctx context.Context, userID, title, message string, typ models.NotificationType, link string) error {
	n := models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		Link:      link,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := s.DB.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification for user %s: %w", userID, err)
	}
	s.logger.Info("NOTIFY", fmt.Sprintf("[%s] %s -> %s", typ, title, userID))
	return nil
}

// ListForUser returns the recipient's notifications newest first plus
// the unread count.
func (s *Service) ListForUser(ctx context.Context, userID string) (*models.NotificationListResponse, error) {
	notifications, err := s.DB.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %s: %w", userID, err)
	}
	unread, err := s.DB.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications for user %s: %w", userID, err)
	}
	return &models.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

// MarkRead marks one of the recipient's notifications as read.
func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	return s.DB.MarkRead(ctx, id, userID)
}

// MarkAllRead marks every notification of the recipient as read.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.DB.MarkAllRead(ctx, userID)
}

// Delete removes one of the recipient's notifications.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	return s.DB.DeleteNotification(ctx, id, userID)
}
