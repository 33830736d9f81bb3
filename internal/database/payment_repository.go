package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

// PaymentRepository handles payment database operations
type PaymentRepository struct {
	db DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment record for a booking
func (r *PaymentRepository) Create(payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}

	query := `
		INSERT INTO payments (id, booking_id, payment_intent_id, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(query,
		payment.ID, payment.BookingID, payment.PaymentIntentID,
		payment.Amount, payment.Currency, payment.Status,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetByID retrieves a payment by its ID
func (r *PaymentRepository) GetByID(id string) (*models.Payment, error) {
	var payment models.Payment
	query := `
		SELECT id, booking_id, payment_intent_id, amount, currency, status, created_at, updated_at
		FROM payments
		WHERE id = $1`

	if err := r.db.Get(&payment, query, id); err != nil {
		return nil, err
	}

	return &payment, nil
}

// ListByUserID retrieves all payments made against a user's bookings,
// newest first
func (r *PaymentRepository) ListByUserID(userID string) ([]models.Payment, error) {
	payments := []models.Payment{}
	query := `
		SELECT p.id, p.booking_id, p.payment_intent_id, p.amount, p.currency, p.status,
		       p.created_at, p.updated_at
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		WHERE b.user_id = $1
		ORDER BY p.created_at DESC`

	if err := r.db.Select(&payments, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return payments, nil
}

// GetByIntentID retrieves a payment by its gateway intent ID
func (r *PaymentRepository) GetByIntentID(intentID string) (*models.Payment, error) {
	var payment models.Payment
	query := `
		SELECT id, booking_id, payment_intent_id, amount, currency, status, created_at, updated_at
		FROM payments
		WHERE payment_intent_id = $1`

	if err := r.db.Get(&payment, query, intentID); err != nil {
		return nil, err
	}

	return &payment, nil
}

// GetLatestByBookingID retrieves the most recent payment for a booking
func (r *PaymentRepository) GetLatestByBookingID(bookingID string) (*models.Payment, error) {
	var payment models.Payment
	query := `
		SELECT id, booking_id, payment_intent_id, amount, currency, status, created_at, updated_at
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	if err := r.db.Get(&payment, query, bookingID); err != nil {
		return nil, err
	}

	return &payment, nil
}

// UpdateStatus records the gateway-side status of a payment intent
func (r *PaymentRepository) UpdateStatus(intentID string, status models.PaymentIntentStatus) error {
	query := `
		UPDATE payments
		SET status = $2, updated_at = NOW()
		WHERE payment_intent_id = $1`

	result, err := r.db.Exec(query, intentID, status)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check payment update: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("payment intent %s not found", intentID)
	}

	return nil
}
