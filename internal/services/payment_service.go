package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/letsgo-transit/booking-backend/internal/database"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

// PaymentService drives the intent-then-confirm payment flow for bookings.
// Confirmation never trusts the client: the intent's state is re-fetched
// from the gateway before the booking flips to confirmed.
type PaymentService struct {
	paymentRepo *database.PaymentRepository
	bookingRepo *database.BookingRepository
	stripe      *StripeService
	notifier    *NotificationService
	logger      *logrus.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo *database.PaymentRepository,
	bookingRepo *database.BookingRepository,
	stripe *StripeService,
	notifier *NotificationService,
	logger *logrus.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		stripe:      stripe,
		notifier:    notifier,
		logger:      logger,
	}
}

// GatewayConfig is the public client configuration for the payment gateway
type GatewayConfig struct {
	PublishableKey string `json:"publishable_key"`
	Currency       string `json:"currency"`
}

// Config returns the gateway settings a browser client needs to start a
// payment. The secret key never leaves the server.
func (s *PaymentService) Config() GatewayConfig {
	return GatewayConfig{
		PublishableKey: s.stripe.PublishableKey(),
		Currency:       s.stripe.Currency(),
	}
}

// ListForUser retrieves payments made against the caller's bookings
func (s *PaymentService) ListForUser(userID string) ([]models.Payment, error) {
	return s.paymentRepo.ListByUserID(userID)
}

// GetByID retrieves a payment, enforcing booking ownership for non-admins.
// Ownership failures surface as not-found.
func (s *PaymentService) GetByID(userID string, isAdmin bool, paymentID string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	if !isAdmin {
		booking, err := s.bookingRepo.GetByID(payment.BookingID)
		if err != nil {
			return nil, fmt.Errorf("failed to get booking: %w", err)
		}
		if booking.UserID != userID {
			return nil, ErrPaymentNotFound
		}
	}

	return payment, nil
}

// getOwnedBooking loads a booking and enforces ownership for non-admins
func (s *PaymentService) getOwnedBooking(userID string, isAdmin bool, bookingID string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	if !isAdmin && booking.UserID != userID {
		return nil, ErrBookingNotFound
	}

	return booking, nil
}

// CreateIntent creates a payment intent for a booking's total and records
// the attempt. The client completes payment against the returned secret.
func (s *PaymentService) CreateIntent(userID string, isAdmin bool, req *models.CreatePaymentIntentRequest) (*models.PaymentIntentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	booking, err := s.getOwnedBooking(userID, isAdmin, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.PaymentStatus == models.PaymentStatusCompleted {
		return nil, ErrPaymentAlreadyCompleted
	}

	if booking.BookingStatus == models.BookingStatusCancelled {
		return nil, ErrBookingNotModifiable
	}

	if booking.IsExpired(time.Now()) {
		return nil, ErrBookingExpired
	}

	// One open intent per booking: a pending or succeeded attempt blocks
	// minting another before the gateway is touched
	latest, err := s.paymentRepo.GetLatestByBookingID(booking.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check payment history: %w", err)
	}
	if latest != nil && latest.Status.IsOpen() {
		return nil, ErrPaymentExists
	}

	intent, err := s.stripe.CreateIntent(booking.TotalAmount, s.stripe.Currency(), booking.ID)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		BookingID:       booking.ID,
		PaymentIntentID: intent.ID,
		Amount:          booking.TotalAmount,
		Currency:        intent.Currency,
		Status:          models.PaymentIntentStatus(intent.Status),
	}

	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":        booking.ID,
		"payment_intent_id": intent.ID,
		"amount":            booking.TotalAmount,
	}).Info("Payment intent recorded")

	return &models.PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          booking.TotalAmount,
		Currency:        intent.Currency,
	}, nil
}

// ConfirmPayment verifies a payment against the gateway and confirms the
// booking the intent was minted for. The caller must own that booking and
// the gateway must report the intent succeeded. Confirming a booking the
// expiry sweep already cancelled fails with ErrBookingExpired.
func (s *PaymentService) ConfirmPayment(userID string, isAdmin bool, req *models.ConfirmPaymentRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.GetByIntentID(req.PaymentIntentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	booking, err := s.getOwnedBooking(userID, isAdmin, payment.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.PaymentStatus == models.PaymentStatusCompleted {
		return nil, ErrPaymentAlreadyCompleted
	}

	intent, err := s.stripe.RetrieveIntent(req.PaymentIntentID)
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.UpdateStatus(intent.ID, models.PaymentIntentStatus(intent.Status)); err != nil {
		s.logger.WithError(err).WithField("payment_intent_id", intent.ID).
			Warn("Failed to record gateway payment status")
	}

	if !intent.HasSucceeded() {
		s.logger.WithFields(logrus.Fields{
			"booking_id":        booking.ID,
			"payment_intent_id": intent.ID,
			"status":            intent.Status,
		}).Warn("Payment confirmation rejected by gateway state")
		return nil, fmt.Errorf("%w: gateway status %s", ErrPaymentNotSucceeded, intent.Status)
	}

	confirmed, err := s.bookingRepo.Confirm(booking.ID)
	if err != nil {
		return nil, err
	}

	if !confirmed {
		// The expiry sweep cancelled the booking before payment landed.
		// The gateway charge stands and needs a refund out of band.
		s.logger.WithFields(logrus.Fields{
			"booking_id":        booking.ID,
			"payment_intent_id": intent.ID,
		}).Error("Payment succeeded for a booking that is no longer pending")
		return nil, ErrBookingExpired
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":        booking.ID,
		"payment_intent_id": intent.ID,
	}).Info("Booking confirmed")

	updated, err := s.bookingRepo.GetByID(booking.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}

	s.notifier.BookingConfirmed(updated)

	return updated, nil
}
