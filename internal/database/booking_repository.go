package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

// BookingRepository handles booking database operations. Seat rows carry the
// schedule ID and an active flag so a partial unique index on
// (schedule_id, seat_number) WHERE is_active blocks double-booking at the
// database level.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create admits a booking against the schedule counter and inserts the
// booking with its seat claims, all in one transaction. The conditional
// decrement failing maps to ErrSeatsUnavailable and a unique violation on
// the claim index maps to ErrSeatConflict; either rolls the whole
// transaction back, so the counter never moves for a booking that was not
// created.
func (r *BookingRepository) Create(booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE schedules
		SET available_seats = available_seats - $2, updated_at = NOW()
		WHERE id = $1 AND available_seats >= $2`, booking.ScheduleID, len(booking.Seats))
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}

	reserved, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check reserve result: %w", err)
	}
	if reserved == 0 {
		return ErrSeatsUnavailable
	}

	query := `
		INSERT INTO bookings (id, user_id, schedule_id, contact_phone, total_amount, payment_status, booking_status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err = tx.QueryRow(query,
		booking.ID, booking.UserID, booking.ScheduleID, booking.ContactPhone,
		booking.TotalAmount, booking.PaymentStatus, booking.BookingStatus, booking.ExpiresAt,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if err := insertSeatClaims(tx, booking.ID, booking.ScheduleID, booking.Seats); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	for i := range booking.Seats {
		booking.Seats[i].BookingID = booking.ID
	}

	return nil
}

// insertSeatClaims inserts active seat claim rows for a booking inside tx
func insertSeatClaims(tx *sqlx.Tx, bookingID, scheduleID string, seats []models.BookingSeat) error {
	query := `
		INSERT INTO booking_seats (id, booking_id, schedule_id, seat_number, passenger_name, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)`

	for i := range seats {
		if seats[i].ID == "" {
			seats[i].ID = uuid.New().String()
		}
		_, err := tx.Exec(query, seats[i].ID, bookingID, scheduleID, seats[i].SeatNumber, seats[i].PassengerName)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("seat %s: %w", seats[i].SeatNumber, ErrSeatConflict)
			}
			return fmt.Errorf("failed to claim seat %s: %w", seats[i].SeatNumber, err)
		}
	}

	return nil
}

// GetByID retrieves a booking with its seats
func (r *BookingRepository) GetByID(id string) (*models.Booking, error) {
	var booking models.Booking
	query := `
		SELECT id, user_id, schedule_id, contact_phone, total_amount, payment_status, booking_status,
		       expires_at, created_at, updated_at
		FROM bookings
		WHERE id = $1`

	if err := r.db.Get(&booking, query, id); err != nil {
		return nil, err
	}

	seats, err := r.getSeats(booking.ID)
	if err != nil {
		return nil, err
	}
	booking.Seats = seats

	return &booking, nil
}

// getSeats loads the seat rows for a booking
func (r *BookingRepository) getSeats(bookingID string) ([]models.BookingSeat, error) {
	seats := []models.BookingSeat{}
	query := `
		SELECT id, booking_id, seat_number, passenger_name
		FROM booking_seats
		WHERE booking_id = $1
		ORDER BY seat_number`

	if err := r.db.Select(&seats, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to load booking seats: %w", err)
	}

	return seats, nil
}

// ListByUserID retrieves a user's bookings, newest first, seats included
func (r *BookingRepository) ListByUserID(userID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	query := `
		SELECT id, user_id, schedule_id, contact_phone, total_amount, payment_status, booking_status,
		       expires_at, created_at, updated_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC`

	if err := r.db.Select(&bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	if len(bookings) == 0 {
		return bookings, nil
	}

	ids := make([]string, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}

	seatQuery, args, err := sqlx.In(`
		SELECT id, booking_id, seat_number, passenger_name
		FROM booking_seats
		WHERE booking_id IN (?)
		ORDER BY seat_number`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build seat query: %w", err)
	}

	seats := []models.BookingSeat{}
	if err := r.db.Select(&seats, r.db.Rebind(seatQuery), args...); err != nil {
		return nil, fmt.Errorf("failed to load booking seats: %w", err)
	}

	byBooking := make(map[string][]models.BookingSeat, len(bookings))
	for _, s := range seats {
		byBooking[s.BookingID] = append(byBooking[s.BookingID], s)
	}
	for i := range bookings {
		bookings[i].Seats = byBooking[bookings[i].ID]
	}

	return bookings, nil
}

// GetActiveSeatNumbers returns the seat numbers currently claimed on a
// schedule by non-cancelled bookings
func (r *BookingRepository) GetActiveSeatNumbers(scheduleID string) ([]string, error) {
	numbers := []string{}
	query := `
		SELECT seat_number
		FROM booking_seats
		WHERE schedule_id = $1 AND is_active = TRUE
		ORDER BY seat_number`

	if err := r.db.Select(&numbers, query, scheduleID); err != nil {
		return nil, fmt.Errorf("failed to load claimed seats: %w", err)
	}

	return numbers, nil
}

// Confirm marks a pending booking as paid and confirmed and clears its
// expiry deadline. Returns false if the booking was no longer pending
// (already expired, cancelled, or confirmed).
func (r *BookingRepository) Confirm(bookingID string) (bool, error) {
	query := `
		UPDATE bookings
		SET payment_status = $2, booking_status = $3, expires_at = NULL, updated_at = NOW()
		WHERE id = $1 AND booking_status = $4`

	result, err := r.db.Exec(query, bookingID,
		models.PaymentStatusCompleted, models.BookingStatusConfirmed, models.BookingStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to confirm booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check confirm result: %w", err)
	}

	return rows > 0, nil
}

// CancelAndRelease cancels a booking, deactivates its seat claims, and
// returns the released seats to the schedule counter, all in one
// transaction. markRefunded also flips the payment status for bookings that
// were already paid. Returns the number of seats released; zero means the
// booking was already cancelled.
func (r *BookingRepository) CancelAndRelease(bookingID string, markRefunded bool) (int, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	released, err := cancelInTx(tx, bookingID, markRefunded)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	return released, nil
}

// cancelInTx flips a booking to cancelled, deactivates its seat claims, and
// credits the schedule counter. Returns 0 when the booking was already
// cancelled.
func cancelInTx(tx *sqlx.Tx, bookingID string, markRefunded bool) (int, error) {
	var scheduleID string
	statusQuery := `
		UPDATE bookings
		SET booking_status = $2,
		    payment_status = CASE WHEN $3 AND payment_status = 'completed' THEN 'refunded' ELSE payment_status END,
		    updated_at = NOW()
		WHERE id = $1 AND booking_status <> $2
		RETURNING schedule_id`

	err := tx.QueryRow(statusQuery, bookingID, models.BookingStatusCancelled, markRefunded).Scan(&scheduleID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to cancel booking: %w", err)
	}

	result, err := tx.Exec(`
		UPDATE booking_seats
		SET is_active = FALSE
		WHERE booking_id = $1 AND is_active = TRUE`, bookingID)
	if err != nil {
		return 0, fmt.Errorf("failed to release seat claims: %w", err)
	}

	released, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count released seats: %w", err)
	}

	if released > 0 {
		_, err = tx.Exec(`
			UPDATE schedules s
			SET available_seats = LEAST(s.available_seats + $2, b.total_seats), updated_at = NOW()
			FROM buses b
			WHERE s.id = $1 AND b.id = s.bus_id`, scheduleID, released)
		if err != nil {
			return 0, fmt.Errorf("failed to credit schedule counter: %w", err)
		}
	}

	return int(released), nil
}

// ReplaceSeats swaps a booking's seat claims for a new set in one
// transaction: old claims are deactivated, new claims inserted under the
// uniqueness index, the booking total updated, and the schedule counter
// adjusted by the seat-count difference. A positive difference is admitted
// through the same conditional decrement used at creation, so an oversell
// rolls the whole swap back with ErrSeatsUnavailable. A clash on a new seat
// rolls back with ErrSeatConflict.
func (r *BookingRepository) ReplaceSeats(bookingID, scheduleID string, seats []models.BookingSeat, newTotal float64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE booking_seats
		SET is_active = FALSE
		WHERE booking_id = $1 AND is_active = TRUE`, bookingID)
	if err != nil {
		return fmt.Errorf("failed to release previous seat claims: %w", err)
	}

	previous, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count previous seats: %w", err)
	}

	if err := insertSeatClaims(tx, bookingID, scheduleID, seats); err != nil {
		return err
	}

	diff := len(seats) - int(previous)
	switch {
	case diff > 0:
		res, err := tx.Exec(`
			UPDATE schedules
			SET available_seats = available_seats - $2, updated_at = NOW()
			WHERE id = $1 AND available_seats >= $2`, scheduleID, diff)
		if err != nil {
			return fmt.Errorf("failed to reserve additional seats: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check reserve result: %w", err)
		}
		if rows == 0 {
			return ErrSeatsUnavailable
		}
	case diff < 0:
		_, err := tx.Exec(`
			UPDATE schedules s
			SET available_seats = LEAST(s.available_seats + $2, b.total_seats), updated_at = NOW()
			FROM buses b
			WHERE s.id = $1 AND b.id = s.bus_id`, scheduleID, -diff)
		if err != nil {
			return fmt.Errorf("failed to credit schedule counter: %w", err)
		}
	}

	_, err = tx.Exec(`
		UPDATE bookings
		SET total_amount = $2, updated_at = NOW()
		WHERE id = $1`, bookingID, newTotal)
	if err != nil {
		return fmt.Errorf("failed to update booking total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seat change: %w", err)
	}

	return nil
}

// FindExpiredPending returns IDs of pending bookings whose hold window has
// lapsed
func (r *BookingRepository) FindExpiredPending(now time.Time, limit int) ([]string, error) {
	ids := []string{}
	query := `
		SELECT id
		FROM bookings
		WHERE booking_status = $1 AND expires_at IS NOT NULL AND expires_at < $2
		ORDER BY expires_at
		LIMIT $3`

	if err := r.db.Select(&ids, query, models.BookingStatusPending, now, limit); err != nil {
		return nil, fmt.Errorf("failed to find expired bookings: %w", err)
	}

	return ids, nil
}

// ExpireAndRelease cancels a pending booking whose hold lapsed and returns
// its seats. The pending-status guard makes it a no-op if a payment
// confirmation won the race. Returns true if the booking was expired.
func (r *BookingRepository) ExpireAndRelease(bookingID string, now time.Time) (bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var scheduleID string
	err = tx.QueryRow(`
		UPDATE bookings
		SET booking_status = $2, updated_at = NOW()
		WHERE id = $1 AND booking_status = $3 AND expires_at IS NOT NULL AND expires_at < $4
		RETURNING schedule_id`,
		bookingID, models.BookingStatusCancelled, models.BookingStatusPending, now,
	).Scan(&scheduleID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to expire booking: %w", err)
	}

	result, err := tx.Exec(`
		UPDATE booking_seats
		SET is_active = FALSE
		WHERE booking_id = $1 AND is_active = TRUE`, bookingID)
	if err != nil {
		return false, fmt.Errorf("failed to release seat claims: %w", err)
	}

	released, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count released seats: %w", err)
	}

	if released > 0 {
		_, err = tx.Exec(`
			UPDATE schedules s
			SET available_seats = LEAST(s.available_seats + $2, b.total_seats), updated_at = NOW()
			FROM buses b
			WHERE s.id = $1 AND b.id = s.bus_id`, scheduleID, released)
		if err != nil {
			return false, fmt.Errorf("failed to credit schedule counter: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit expiry: %w", err)
	}

	return true, nil
}
