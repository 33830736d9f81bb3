package models

import "time"

// NotificationType categorizes notifications sent to users
type NotificationType string

const (
	NotificationTypeBookingConfirmation NotificationType = "booking_confirmation"
	NotificationTypeBookingCancellation NotificationType = "booking_cancellation"
	NotificationTypeScheduleChange      NotificationType = "schedule_change"
	NotificationTypePaymentConfirmation NotificationType = "payment_confirmation"
	NotificationTypeReminder            NotificationType = "reminder"
)

// Notification represents an in-app message for a user
type Notification struct {
	ID        string           `json:"id" db:"id"`
	UserID    string           `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Message   string           `json:"message" db:"message"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
