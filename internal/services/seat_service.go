package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/letsgo-transit/booking-backend/internal/database"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

// SeatService projects per-seat availability for a schedule from the bus
// seat template and the active bookings against it
type SeatService struct {
	scheduleRepo *database.ScheduleRepository
	busRepo      *database.BusRepository
	bookingRepo  *database.BookingRepository
	logger       *logrus.Logger
}

// NewSeatService creates a new seat service
func NewSeatService(
	scheduleRepo *database.ScheduleRepository,
	busRepo *database.BusRepository,
	bookingRepo *database.BookingRepository,
	logger *logrus.Logger,
) *SeatService {
	return &SeatService{
		scheduleRepo: scheduleRepo,
		busRepo:      busRepo,
		bookingRepo:  bookingRepo,
		logger:       logger,
	}
}

// GetSeatMap returns the seat availability projection for a schedule. Seats
// come from the bus template; a bus with no stored template falls back to
// the generated default grid. A seat is booked when any non-cancelled
// booking holds it.
func (s *SeatService) GetSeatMap(scheduleID string) (*models.ScheduleSeatMap, error) {
	schedule, err := s.scheduleRepo.GetByID(scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	bus, err := s.busRepo.GetByID(schedule.BusID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bus for schedule: %w", err)
	}

	numbers, err := s.seatNumbersForBus(bus)
	if err != nil {
		return nil, err
	}

	claimed, err := s.bookingRepo.GetActiveSeatNumbers(scheduleID)
	if err != nil {
		return nil, err
	}

	claimedSet := make(map[string]bool, len(claimed))
	for _, n := range claimed {
		claimedSet[n] = true
	}

	seatMap := &models.ScheduleSeatMap{
		ScheduleID:     scheduleID,
		TotalSeats:     bus.TotalSeats,
		AvailableSeats: schedule.AvailableSeats,
		BookedSeats:    []string{},
		Seats:          make([]models.SeatView, 0, len(numbers)),
	}

	for _, number := range numbers {
		status := models.SeatStatusAvailable
		if claimedSet[number] {
			status = models.SeatStatusBooked
			seatMap.BookedSeats = append(seatMap.BookedSeats, number)
		}
		seatMap.Seats = append(seatMap.Seats, models.SeatView{
			SeatNumber: number,
			Status:     status,
		})
	}

	return seatMap, nil
}

// ValidateSeatNumbers checks that every requested seat exists in the bus
// layout serving the schedule
func (s *SeatService) ValidateSeatNumbers(schedule *models.Schedule, requested []string) error {
	bus, err := s.busRepo.GetByID(schedule.BusID)
	if err != nil {
		return fmt.Errorf("failed to get bus for schedule: %w", err)
	}

	numbers, err := s.seatNumbersForBus(bus)
	if err != nil {
		return err
	}

	valid := make(map[string]bool, len(numbers))
	for _, n := range numbers {
		valid[n] = true
	}

	for _, n := range requested {
		if !valid[n] {
			return fmt.Errorf("%w: %s", ErrUnknownSeat, n)
		}
	}

	return nil
}

// seatNumbersForBus returns the bus seat numbers, generating the default
// grid when no template rows exist
func (s *SeatService) seatNumbersForBus(bus *models.Bus) ([]string, error) {
	template, err := s.busRepo.GetSeatTemplate(bus.ID)
	if err != nil {
		return nil, err
	}

	if len(template) == 0 {
		s.logger.WithField("bus_id", bus.ID).Debug("Bus has no seat template, using generated grid")
		return models.GenerateSeatNumbers(bus.TotalSeats, bus.SeatsPerRow), nil
	}

	numbers := make([]string, len(template))
	for i, seat := range template {
		numbers[i] = seat.SeatNumber
	}
	return numbers, nil
}
