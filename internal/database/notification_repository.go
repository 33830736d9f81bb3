package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	db DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification for a user
func (r *NotificationRepository) Create(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}

	query := `
		INSERT INTO notifications (id, user_id, type, message, is_read)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING created_at`

	err := r.db.QueryRow(query,
		notification.ID, notification.UserID, notification.Type, notification.Message,
	).Scan(&notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListByUserID retrieves a user's notifications, newest first
func (r *NotificationRepository) ListByUserID(userID string) ([]models.Notification, error) {
	notifications := []models.Notification{}
	query := `
		SELECT id, user_id, type, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	if err := r.db.Select(&notifications, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead marks a notification as read for its owner
func (r *NotificationRepository) MarkRead(id, userID string) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check notification update: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("notification %s not found", id)
	}

	return nil
}
