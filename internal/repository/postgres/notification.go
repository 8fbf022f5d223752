package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"wheelstrust/internal/domain"
	"wheelstrust/internal/repository"
)

// NotificationRepository is a PostgreSQL implementation of
// repository.NotificationRepository.
type NotificationRepository struct {
	q Querier
}

// NewNotificationRepository creates a new PostgreSQL notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{q: db}
}

// InsertMany persists a batch of notifications in a single statement so the
// batch commits or fails as one.
func (r *NotificationRepository) InsertMany(ctx context.Context, notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO notifications (id, user_id, title, description, type, read, created_at) VALUES `)

	args := make([]any, 0, len(notifications)*7)
	for i, n := range notifications {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 7
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args, n.ID, n.UserID, n.Title, n.Description, n.Type, n.Read, n.CreatedAt)
	}

	_, err := r.q.ExecContext(ctx, sb.String(), args...)
	return err
}

// GetByUser retrieves all notifications for a user, newest first.
func (r *NotificationRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, title, description, type, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.Type, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// MarkRead marks one of the user's notifications as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`

	result, err := r.q.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// MarkAllRead marks every notification for the user as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	query := `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`

	_, err := r.q.ExecContext(ctx, query, userID)
	return err
}
