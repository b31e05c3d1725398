package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/anirudhb/achievehub/internal/app/models"
	"github.com/anirudhb/achievehub/internal/pkg/apperrors"
)

// notificationReader is the recipient-facing slice of NotificationRepository.
type notificationReader interface {
	GetByUser(ctx context.Context, userID int64) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	Delete(ctx context.Context, id, userID int64) error
}

// NotificationService handles a recipient's notification inbox
type NotificationService struct {
	notificationRepo notificationReader
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo notificationReader, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID int64) ([]models.Notification, error) {
	return s.notificationRepo.GetByUser(ctx, userID)
}

// UnreadCount returns how many of the caller's notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

// MarkRead flags one of the caller's notifications as read. Repository
// queries are recipient scoped, so a foreign ID reads as not found rather
// than leaking another user's inbox.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	if err := s.notificationRepo.MarkRead(ctx, id, userID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// Delete removes one of the caller's notifications.
func (s *NotificationService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.notificationRepo.Delete(ctx, id, userID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotificationNotFound
		}
		return err
	}
	return nil
}
