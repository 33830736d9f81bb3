package models

import (
	"errors"
	"strings"
	"time"
)

// PaymentIntentStatus mirrors the gateway-side status of a payment intent
type PaymentIntentStatus string

const (
	PaymentIntentStatusRequiresPayment PaymentIntentStatus = "requires_payment_method"
	PaymentIntentStatusProcessing      PaymentIntentStatus = "processing"
	PaymentIntentStatusSucceeded       PaymentIntentStatus = "succeeded"
	PaymentIntentStatusCanceled        PaymentIntentStatus = "canceled"
)

// IsOpen reports whether the intent may still take, or has already taken,
// the customer's money. Only a cancelled intent frees the booking for a
// fresh one.
func (s PaymentIntentStatus) IsOpen() bool {
	return s != PaymentIntentStatusCanceled
}

// Payment represents a payment attempt tracked against a booking
type Payment struct {
	ID              string              `json:"id" db:"id"`
	BookingID       string              `json:"booking_id" db:"booking_id"`
	PaymentIntentID string              `json:"payment_intent_id" db:"payment_intent_id"`
	Amount          float64             `json:"amount" db:"amount"`
	Currency        string              `json:"currency" db:"currency"`
	Status          PaymentIntentStatus `json:"status" db:"status"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
}

// CreatePaymentIntentRequest represents the request to start payment for a booking
type CreatePaymentIntentRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
}

// ConfirmPaymentRequest represents the request to confirm a completed
// payment. The booking is resolved from the intent server-side.
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

// PaymentIntentResponse is returned to the client after creating an intent
type PaymentIntentResponse struct {
	ClientSecret    string  `json:"client_secret"`
	PaymentIntentID string  `json:"payment_intent_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// Validate validates the CreatePaymentIntentRequest
func (r *CreatePaymentIntentRequest) Validate() error {
	if strings.TrimSpace(r.BookingID) == "" {
		return errors.New("booking_id is required")
	}
	return nil
}

// Validate validates the ConfirmPaymentRequest
func (r *ConfirmPaymentRequest) Validate() error {
	if strings.TrimSpace(r.PaymentIntentID) == "" {
		return errors.New("payment_intent_id is required")
	}
	return nil
}
