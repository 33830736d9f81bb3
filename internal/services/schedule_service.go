package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/letsgo-transit/booking-backend/internal/database"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

// ScheduleService handles schedule search and administration
type ScheduleService struct {
	scheduleRepo *database.ScheduleRepository
	routeRepo    *database.RouteRepository
	busRepo      *database.BusRepository
	logger       *logrus.Logger
}

// NewScheduleService creates a new schedule service
func NewScheduleService(
	scheduleRepo *database.ScheduleRepository,
	routeRepo *database.RouteRepository,
	busRepo *database.BusRepository,
	logger *logrus.Logger,
) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		routeRepo:    routeRepo,
		busRepo:      busRepo,
		logger:       logger,
	}
}

// ParseSearchQuery validates raw search parameters. Date is a calendar day
// in YYYY-MM-DD form.
func (s *ScheduleService) ParseSearchQuery(source, destination, date string) (*models.ScheduleSearchQuery, error) {
	source = strings.TrimSpace(source)
	destination = strings.TrimSpace(destination)
	date = strings.TrimSpace(date)

	if source == "" || destination == "" || date == "" {
		return nil, errors.New("source, destination and date are required")
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, errors.New("date must be in YYYY-MM-DD format")
	}

	return &models.ScheduleSearchQuery{
		Source:      source,
		Destination: destination,
		Date:        day,
	}, nil
}

// Search returns schedules matching the route on the given calendar day.
// An empty result is not an error.
func (s *ScheduleService) Search(query *models.ScheduleSearchQuery) ([]models.ScheduleSearchResult, error) {
	dayStart := query.Date
	dayEnd := dayStart.AddDate(0, 0, 1)

	results, err := s.scheduleRepo.Search(query.Source, query.Destination, dayStart, dayEnd)
	if err != nil {
		s.logger.WithError(err).Error("Schedule search failed")
		return nil, fmt.Errorf("failed to search schedules: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"source":      query.Source,
		"destination": query.Destination,
		"date":        query.Date.Format("2006-01-02"),
		"results":     len(results),
	}).Info("Schedule search completed")

	return results, nil
}

// GetByID retrieves a schedule
func (s *ScheduleService) GetByID(id string) (*models.Schedule, error) {
	schedule, err := s.scheduleRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	return schedule, nil
}

// Create creates a schedule for a route and bus. The seat counter is seeded
// from the bus capacity.
func (s *ScheduleService) Create(req *models.CreateScheduleRequest) (*models.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	departure, arrival, err := req.ParsedTimes()
	if err != nil {
		return nil, err
	}

	if _, err := s.routeRepo.GetByID(req.RouteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	if _, err := s.busRepo.GetByID(req.BusID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBusNotFound
		}
		return nil, fmt.Errorf("failed to get bus: %w", err)
	}

	schedule := &models.Schedule{
		RouteID:       req.RouteID,
		BusID:         req.BusID,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		Fare:          req.Fare,
	}

	if err := s.scheduleRepo.Create(schedule); err != nil {
		s.logger.WithError(err).Error("Failed to create schedule")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"schedule_id": schedule.ID,
		"route_id":    schedule.RouteID,
		"bus_id":      schedule.BusID,
		"departure":   schedule.DepartureTime,
	}).Info("Schedule created")

	return schedule, nil
}

// Update applies a partial update to a schedule's times and fare
func (s *ScheduleService) Update(id string, req *models.UpdateScheduleRequest) (*models.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	schedule, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.DepartureTime != nil {
		departure, err := time.Parse(time.RFC3339, *req.DepartureTime)
		if err != nil {
			return nil, errors.New("departure_time must be RFC 3339")
		}
		schedule.DepartureTime = departure
	}

	if req.ArrivalTime != nil {
		arrival, err := time.Parse(time.RFC3339, *req.ArrivalTime)
		if err != nil {
			return nil, errors.New("arrival_time must be RFC 3339")
		}
		schedule.ArrivalTime = arrival
	}

	if !schedule.ArrivalTime.After(schedule.DepartureTime) {
		return nil, ErrInvalidScheduleTimes
	}

	if req.Fare != nil {
		schedule.Fare = *req.Fare
	}

	if err := s.scheduleRepo.Update(schedule); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	s.logger.WithField("schedule_id", id).Info("Schedule updated")

	return schedule, nil
}

// Delete removes a schedule that has no active bookings
func (s *ScheduleService) Delete(id string) error {
	err := s.scheduleRepo.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrScheduleNotFound
		case errors.Is(err, database.ErrScheduleInUse):
			return ErrScheduleInUse
		}
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	s.logger.WithField("schedule_id", id).Info("Schedule deleted")

	return nil
}
