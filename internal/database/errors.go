package database

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrSeatsUnavailable is returned when a schedule's seat counter cannot
	// cover the requested number of seats
	ErrSeatsUnavailable = errors.New("not enough available seats on schedule")

	// ErrSeatConflict is returned when a requested seat is already held by
	// an active booking
	ErrSeatConflict = errors.New("seat already booked for schedule")

	// ErrScheduleInUse is returned when deleting a schedule that still has
	// non-cancelled bookings
	ErrScheduleInUse = errors.New("schedule has active bookings")
)

// uniqueViolationCode is the PostgreSQL error code for unique constraint
// violations
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}
