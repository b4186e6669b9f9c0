package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/Freeeeeet/agenda_service/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	*base.Repository
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{Repository: base.NewRepository(pool)}
}

// Append inserts the notifications as one batch, filling ids and timestamps
func (r *NotificationRepository) Append(ctx context.Context, notifications []*model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	query := `
		INSERT INTO notifications (user_id, title, message)
		VALUES ($1, $2, $3)
		RETURNING id, is_read, created_at
	`

	batch := &pgx.Batch{}
	for _, n := range notifications {
		batch.Queue(query, n.UserID, n.Title, n.Message)
	}

	results := r.Pool().SendBatch(ctx, batch)
	defer results.Close()

	for _, n := range notifications {
		if err := results.QueryRow().Scan(&n.ID, &n.IsRead, &n.CreatedAt); err != nil {
			return fmt.Errorf("insert notification for %s: %w", n.UserID, err)
		}
	}

	return nil
}

// ListByUser returns the user's latest notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error) {
	query := `
		SELECT id, user_id, title, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get notifications by user: %w", err)
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifications, nil
}
