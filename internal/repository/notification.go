package repository

import (
	"context"

	"wheelstrust/internal/domain"
)

// NotificationRepository defines the persistence operations for notifications.
type NotificationRepository interface {
	// InsertMany persists a batch of notifications in one statement.
	InsertMany(ctx context.Context, notifications []*domain.Notification) error

	// GetByUser retrieves all notifications for a user, newest first.
	GetByUser(ctx context.Context, userID string) ([]*domain.Notification, error)

	// MarkRead marks one of the user's notifications as read.
	MarkRead(ctx context.Context, id, userID string) error

	// MarkAllRead marks every notification for the user as read.
	MarkAllRead(ctx context.Context, userID string) error
}
