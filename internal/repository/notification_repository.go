package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/Freeeeeet/booking_platform/internal/repository/base"
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

func scanNotification(row pgx.Row) (model.AppointmentNotification, error) {
	var (
		n   model.AppointmentNotification
		typ string
	)
	err := row.Scan(&n.ID, &n.UserID, &n.AppointmentID, &typ, &n.Title, &n.Message, &n.Read, &n.CreatedAt)
	n.Type = model.NotificationType(typ)
	return n, err
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.AppointmentNotification) error {
	query := `
		INSERT INTO appointment_notifications (user_id, appointment_id, type, title, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, read, created_at
	`

	err := r.QueryRow(ctx, query, n.UserID, n.AppointmentID, string(n.Type), n.Title, n.Message).
		Scan(&n.ID, &n.Read, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// GetByUserID возвращает не больше limit уведомлений, новые первыми.
func (r *NotificationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]model.AppointmentNotification, error) {
	query := `
		SELECT id, user_id, appointment_id, type, title, message, read, created_at
		FROM appointment_notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get notifications by user: %w", err)
	}
	notifications, err := base.Collect(rows, scanNotification)
	if err != nil {
		return nil, fmt.Errorf("scan notification: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.QueryRow(ctx, `SELECT COUNT(*) FROM appointment_notifications WHERE user_id = $1 AND read = false`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead отмечает уведомление прочитанным. Для чужого уведомления вернёт ErrNotFound.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	query := `
		UPDATE appointment_notifications
		SET read = true, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`

	n, err := r.ExecAffected(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mark notification read: %w", ErrNotFound)
	}
	return nil
}
