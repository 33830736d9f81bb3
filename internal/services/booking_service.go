package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/letsgo-transit/booking-backend/internal/config"
	"github.com/letsgo-transit/booking-backend/internal/database"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

// BookingService orchestrates the booking lifecycle: seat admission through
// the schedule counter, per-seat claims, payment holds with TTL, and the
// release paths for cancellation, modification and expiry.
type BookingService struct {
	bookingRepo  *database.BookingRepository
	scheduleRepo *database.ScheduleRepository
	seatService  *SeatService
	notifier     *NotificationService
	config       config.BookingConfig
	logger       *logrus.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo *database.BookingRepository,
	scheduleRepo *database.ScheduleRepository,
	seatService *SeatService,
	notifier *NotificationService,
	cfg config.BookingConfig,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		seatService:  seatService,
		notifier:     notifier,
		config:       cfg,
		logger:       logger,
	}
}

// Create books seats on a schedule for a user. Admission happens in two
// steps: the schedule counter is decremented conditionally, then per-seat
// claims are inserted under the uniqueness index. If the claims fail the
// counter decrement is compensated, so the counter never understates real
// availability. The booking starts pending with a payment hold deadline.
func (s *BookingService) Create(userID string, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetByID(req.ScheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	if time.Now().After(schedule.DepartureTime) {
		return nil, ErrDepartedSchedule
	}

	seats := models.NormalizedSeats(req.Seats)
	numbers := make([]string, len(seats))
	for i, seat := range seats {
		numbers[i] = seat.SeatNumber
	}

	if err := s.seatService.ValidateSeatNumbers(schedule, numbers); err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.config.PendingTTL)
	booking := &models.Booking{
		UserID:        userID,
		ScheduleID:    schedule.ID,
		ContactPhone:  req.ContactPhone,
		TotalAmount:   schedule.Fare * float64(len(seats)),
		PaymentStatus: models.PaymentStatusPending,
		BookingStatus: models.BookingStatusPending,
		ExpiresAt:     &expiresAt,
	}
	for _, seat := range seats {
		booking.Seats = append(booking.Seats, models.BookingSeat{
			SeatNumber:    seat.SeatNumber,
			PassengerName: seat.PassengerName,
		})
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		if errors.Is(err, database.ErrSeatsUnavailable) {
			return nil, ErrSeatsUnavailable
		}
		if errors.Is(err, database.ErrSeatConflict) {
			return nil, fmt.Errorf("%w: %v", ErrSeatConflict, err)
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"schedule_id": schedule.ID,
		"user_id":     userID,
		"seats":       numbers,
		"expires_at":  expiresAt,
	}).Info("Booking created")

	s.notifier.BookingCreated(booking)

	return booking, nil
}

// GetByID retrieves a booking, enforcing ownership for non-admin callers.
// Ownership failures surface as not-found so booking IDs cannot be enumerated.
func (s *BookingService) GetByID(userID string, isAdmin bool, bookingID string) (*models.Booking, error) {
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

// ListForUser retrieves the caller's bookings
func (s *BookingService) ListForUser(userID string) ([]models.Booking, error) {
	return s.bookingRepo.ListByUserID(userID)
}

// Cancel cancels a booking and releases its seats. Paid bookings are marked
// refunded. Cancelling an already-cancelled booking fails.
func (s *BookingService) Cancel(userID string, isAdmin bool, bookingID string) (*models.Booking, error) {
	booking, err := s.GetByID(userID, isAdmin, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.CanBeCancelled() {
		return nil, ErrBookingNotCancellable
	}

	markRefunded := booking.PaymentStatus == models.PaymentStatusCompleted
	released, err := s.bookingRepo.CancelAndRelease(bookingID, markRefunded)
	if err != nil {
		return nil, err
	}

	if released == 0 {
		// Lost a race with another cancel or the expiry sweep
		return nil, ErrBookingNotCancellable
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":     bookingID,
		"seats_released": released,
		"refunded":       markRefunded,
	}).Info("Booking cancelled")

	updated, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}

	s.notifier.BookingCancelled(updated)

	return updated, nil
}

// UpdateSeats replaces a booking's seats with a new selection. The swap is
// atomic: old claims release and new claims insert in one transaction, with
// the schedule counter adjusted by the difference. The booking total is
// repriced at the schedule fare.
func (s *BookingService) UpdateSeats(userID string, isAdmin bool, bookingID string, req *models.UpdateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	booking, err := s.GetByID(userID, isAdmin, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.CanBeModified() {
		return nil, ErrBookingNotModifiable
	}

	if booking.IsExpired(time.Now()) {
		return nil, ErrBookingExpired
	}

	schedule, err := s.scheduleRepo.GetByID(booking.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	if time.Now().After(schedule.DepartureTime) {
		return nil, ErrDepartedSchedule
	}

	seats := models.NormalizedSeats(req.Seats)
	numbers := make([]string, len(seats))
	for i, seat := range seats {
		numbers[i] = seat.SeatNumber
	}

	if err := s.seatService.ValidateSeatNumbers(schedule, numbers); err != nil {
		return nil, err
	}

	newSeats := make([]models.BookingSeat, len(seats))
	for i, seat := range seats {
		newSeats[i] = models.BookingSeat{
			BookingID:     bookingID,
			SeatNumber:    seat.SeatNumber,
			PassengerName: seat.PassengerName,
		}
	}

	newTotal := schedule.Fare * float64(len(seats))
	if err := s.bookingRepo.ReplaceSeats(bookingID, booking.ScheduleID, newSeats, newTotal); err != nil {
		switch {
		case errors.Is(err, database.ErrSeatConflict):
			return nil, fmt.Errorf("%w: %v", ErrSeatConflict, err)
		case errors.Is(err, database.ErrSeatsUnavailable):
			return nil, ErrSeatsUnavailable
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"seats":      numbers,
		"new_total":  newTotal,
	}).Info("Booking seats updated")

	updated, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}

	s.notifier.BookingUpdated(updated)

	return updated, nil
}

// ExpireDueBookings cancels pending bookings whose payment hold lapsed and
// returns their seats. Called by the background sweep. Returns how many
// bookings were expired.
func (s *BookingService) ExpireDueBookings(now time.Time, batchSize int) (int, error) {
	ids, err := s.bookingRepo.FindExpiredPending(now, batchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		done, err := s.bookingRepo.ExpireAndRelease(id, now)
		if err != nil {
			s.logger.WithError(err).WithField("booking_id", id).Error("Failed to expire booking")
			continue
		}
		if !done {
			// Payment confirmation won the race
			continue
		}

		expired++
		if booking, err := s.bookingRepo.GetByID(id); err == nil {
			s.notifier.BookingExpired(booking)
		}
	}

	if expired > 0 {
		s.logger.WithField("count", expired).Info("Expired pending bookings")
	}

	return expired, nil
}
