package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/letsgo-transit/booking-backend/internal/database"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

// SMSSender delivers a text message to a phone number
type SMSSender interface {
	Send(phone, message string) (int64, error)
}

// NotificationService records in-app notifications for booking lifecycle
// events and, when a gateway is configured, mirrors them to the booking's
// contact phone. Failures are logged, never propagated: a missed
// notification must not fail a booking.
type NotificationService struct {
	repo   *database.NotificationRepository
	sms    SMSSender
	logger *logrus.Logger
}

// NewNotificationService creates a new notification service. sms may be nil
// when no gateway is configured.
func NewNotificationService(repo *database.NotificationRepository, sms SMSSender, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		sms:    sms,
		logger: logger,
	}
}

// BookingCreated records a booking-created notification
func (s *NotificationService) BookingCreated(booking *models.Booking) {
	s.record(booking.UserID, models.NotificationTypeBookingConfirmation,
		fmt.Sprintf("Booking %s created for %d seat(s). Complete payment to confirm.", booking.ID, len(booking.Seats)))
}

// BookingConfirmed records a booking-confirmed notification and texts the
// booking's contact phone
func (s *NotificationService) BookingConfirmed(booking *models.Booking) {
	s.record(booking.UserID, models.NotificationTypePaymentConfirmation,
		fmt.Sprintf("Booking %s confirmed. Payment received.", booking.ID))
	s.text(booking,
		fmt.Sprintf("Your LetsGo booking is confirmed. Seats: %d. Ref: %s", len(booking.Seats), booking.ID))
}

// BookingCancelled records a booking-cancelled notification and texts the
// booking's contact phone
func (s *NotificationService) BookingCancelled(booking *models.Booking) {
	s.record(booking.UserID, models.NotificationTypeBookingCancellation,
		fmt.Sprintf("Booking %s cancelled.", booking.ID))
	s.text(booking,
		fmt.Sprintf("Your LetsGo booking %s has been cancelled.", booking.ID))
}

// BookingExpired records a booking-expired notification
func (s *NotificationService) BookingExpired(booking *models.Booking) {
	s.record(booking.UserID, models.NotificationTypeBookingCancellation,
		fmt.Sprintf("Booking %s expired before payment and its seats were released.", booking.ID))
}

// BookingUpdated records a booking-updated notification
func (s *NotificationService) BookingUpdated(booking *models.Booking) {
	s.record(booking.UserID, models.NotificationTypeBookingConfirmation,
		fmt.Sprintf("Booking %s updated to %d seat(s).", booking.ID, len(booking.Seats)))
}

// ListForUser returns the user's notifications
func (s *NotificationService) ListForUser(userID string) ([]models.Notification, error) {
	return s.repo.ListByUserID(userID)
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(id, userID string) error {
	return s.repo.MarkRead(id, userID)
}

func (s *NotificationService) record(userID string, kind models.NotificationType, message string) {
	notification := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Message: message,
	}

	if err := s.repo.Create(notification); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"type":    kind,
		}).Warn("Failed to record notification")
	}
}

func (s *NotificationService) text(booking *models.Booking, message string) {
	if s.sms == nil || booking.ContactPhone == "" {
		return
	}

	if _, err := s.sms.Send(booking.ContactPhone, message); err != nil {
		s.logger.WithError(err).WithField("booking_id", booking.ID).Warn("Failed to send booking SMS")
	}
}
