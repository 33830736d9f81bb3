package models

import (
	"errors"
	"strings"
	"time"

	"github.com/letsgo-transit/booking-backend/pkg/validator"
)

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingSeat represents one seat held by a booking
type BookingSeat struct {
	ID            string `json:"-" db:"id"`
	BookingID     string `json:"-" db:"booking_id"`
	SeatNumber    string `json:"seat_number" db:"seat_number"`
	PassengerName string `json:"passenger_name" db:"passenger_name"`
}

// Booking represents a seat reservation on a schedule
type Booking struct {
	ID            string        `json:"id" db:"id"`
	UserID        string        `json:"user_id" db:"user_id"`
	ScheduleID    string        `json:"schedule_id" db:"schedule_id"`
	Seats         []BookingSeat `json:"seats" db:"-"`
	ContactPhone  string        `json:"contact_phone,omitempty" db:"contact_phone"`
	TotalAmount   float64       `json:"total_amount" db:"total_amount"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	BookingStatus BookingStatus `json:"booking_status" db:"booking_status"`
	ExpiresAt     *time.Time    `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// SeatSelection is one requested seat in a booking create/update request
type SeatSelection struct {
	SeatNumber    string `json:"seat_number" binding:"required"`
	PassengerName string `json:"passenger_name" binding:"required"`
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	ScheduleID   string          `json:"schedule_id" binding:"required"`
	Seats        []SeatSelection `json:"seats" binding:"required,min=1,dive"`
	ContactPhone string          `json:"contact_phone,omitempty"`
}

// UpdateBookingRequest represents the request to change a booking's seats
type UpdateBookingRequest struct {
	Seats []SeatSelection `json:"seats" binding:"required,min=1,dive"`
}

// MaxSeatsPerBooking caps how many seats a single booking may hold
const MaxSeatsPerBooking = 6

// validateSeatSelections checks a seat selection list for emptiness,
// over-length and duplicates
func validateSeatSelections(seats []SeatSelection) error {
	if len(seats) == 0 {
		return errors.New("at least one seat is required")
	}

	if len(seats) > MaxSeatsPerBooking {
		return errors.New("maximum 6 seats can be booked at once")
	}

	seen := make(map[string]bool, len(seats))
	for _, s := range seats {
		number := strings.ToUpper(strings.TrimSpace(s.SeatNumber))
		if number == "" {
			return errors.New("seat_number is required for every seat")
		}
		if strings.TrimSpace(s.PassengerName) == "" {
			return errors.New("passenger_name is required for every seat")
		}
		if seen[number] {
			return errors.New("duplicate seat_number in request: " + number)
		}
		seen[number] = true
	}

	return nil
}

// Validate validates the create booking request. A contact phone is
// optional; when given it must be a valid mobile number and is normalized
// in place.
func (r *CreateBookingRequest) Validate() error {
	if strings.TrimSpace(r.ScheduleID) == "" {
		return errors.New("schedule_id is required")
	}

	if strings.TrimSpace(r.ContactPhone) != "" {
		sanitized, err := validator.NewPhoneValidator().Validate(r.ContactPhone)
		if err != nil {
			return err
		}
		r.ContactPhone = sanitized
	} else {
		r.ContactPhone = ""
	}

	return validateSeatSelections(r.Seats)
}

// Validate validates the update booking request
func (r *UpdateBookingRequest) Validate() error {
	return validateSeatSelections(r.Seats)
}

// NormalizedSeats returns the requested seats with seat numbers upper-cased
// and whitespace trimmed
func NormalizedSeats(seats []SeatSelection) []SeatSelection {
	out := make([]SeatSelection, len(seats))
	for i, s := range seats {
		out[i] = SeatSelection{
			SeatNumber:    strings.ToUpper(strings.TrimSpace(s.SeatNumber)),
			PassengerName: strings.TrimSpace(s.PassengerName),
		}
	}
	return out
}

// SeatNumbers returns just the seat numbers held by the booking
func (b *Booking) SeatNumbers() []string {
	numbers := make([]string, len(b.Seats))
	for i, s := range b.Seats {
		numbers[i] = s.SeatNumber
	}
	return numbers
}

// IsActive reports whether the booking still holds its seats
func (b *Booking) IsActive() bool {
	return b.BookingStatus != BookingStatusCancelled
}

// CanBeCancelled checks if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.BookingStatus == BookingStatusPending || b.BookingStatus == BookingStatusConfirmed
}

// CanBeModified checks if the booking's seats can still be changed
func (b *Booking) CanBeModified() bool {
	return b.BookingStatus == BookingStatusPending || b.BookingStatus == BookingStatusConfirmed
}

// IsExpired reports whether a pending booking has outlived its hold window
func (b *Booking) IsExpired(now time.Time) bool {
	return b.BookingStatus == BookingStatusPending &&
		b.ExpiresAt != nil && now.After(*b.ExpiresAt)
}
