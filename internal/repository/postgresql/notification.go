package postgresql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/reporthub/reporthub-backend-go/internal/domain/notification"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/database"
)

type notificationRepositoryImpl struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepositoryImpl{db: db}
}

// Append implements notification.Repository.
func (r *notificationRepositoryImpl) Append(ctx context.Context, n *notification.Notification) error {
	q := GetQuerier(ctx, r.db)

	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	query := `
		INSERT INTO notifications (id, user_id, message, is_read)
		VALUES ($1, $2, $3, FALSE)
		RETURNING created_at
	`
	return q.QueryRow(ctx, query, n.ID, n.UserID, n.Message).Scan(&n.CreatedAt)
}

// AppendToAll implements notification.Repository. One statement writes an
// entry into every existing user's mailbox.
func (r *notificationRepositoryImpl) AppendToAll(ctx context.Context, message string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (id, user_id, message, is_read)
		SELECT gen_random_uuid(), id, $1, FALSE FROM users
	`
	tag, err := q.Exec(ctx, query, message)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ListByUser implements notification.Repository.
func (r *notificationRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, message, is_read, read_at, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []notification.Notification
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// UnreadCount implements notification.Repository.
func (r *notificationRepositoryImpl) UnreadCount(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead implements notification.Repository. The lookup is owner-scoped and
// re-marking a read entry succeeds without touching read_at.
func (r *notificationRepositoryImpl) MarkRead(ctx context.Context, userID, notificationID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = COALESCE(read_at, NOW())
		WHERE id = $1 AND user_id = $2
	`
	tag, err := q.Exec(ctx, query, notificationID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notification.ErrNotificationNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

// ClearAll implements notification.Repository.
func (r *notificationRepositoryImpl) ClearAll(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	return err
}
