package models

import (
	"errors"
	"time"
)

// Schedule represents one departure of a bus on a route
type Schedule struct {
	ID             string    `json:"id" db:"id"`
	RouteID        string    `json:"route_id" db:"route_id"`
	BusID          string    `json:"bus_id" db:"bus_id"`
	DepartureTime  time.Time `json:"departure_time" db:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time" db:"arrival_time"`
	Fare           float64   `json:"fare" db:"fare"`
	AvailableSeats int       `json:"available_seats" db:"available_seats"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ScheduleSearchResult is a schedule joined with its route and bus details
// for search responses
type ScheduleSearchResult struct {
	Schedule
	Source      string  `json:"source" db:"source"`
	Destination string  `json:"destination" db:"destination"`
	BusNumber   string  `json:"bus_number" db:"bus_number"`
	BusType     BusType `json:"bus_type" db:"bus_type"`
	TotalSeats  int     `json:"total_seats" db:"total_seats"`
}

// CreateScheduleRequest represents the request to create a new schedule
type CreateScheduleRequest struct {
	RouteID       string  `json:"route_id" binding:"required"`
	BusID         string  `json:"bus_id" binding:"required"`
	DepartureTime string  `json:"departure_time" binding:"required"` // RFC 3339
	ArrivalTime   string  `json:"arrival_time" binding:"required"`   // RFC 3339
	Fare          float64 `json:"fare" binding:"required,gt=0"`
}

// UpdateScheduleRequest represents a partial update to a schedule. Omitted
// fields keep their current value.
type UpdateScheduleRequest struct {
	DepartureTime *string  `json:"departure_time,omitempty"` // RFC 3339
	ArrivalTime   *string  `json:"arrival_time,omitempty"`   // RFC 3339
	Fare          *float64 `json:"fare,omitempty"`
}

// Validate validates the UpdateScheduleRequest
func (req *UpdateScheduleRequest) Validate() error {
	if req.DepartureTime == nil && req.ArrivalTime == nil && req.Fare == nil {
		return errors.New("at least one of departure_time, arrival_time or fare is required")
	}

	if req.DepartureTime != nil {
		if _, err := time.Parse(time.RFC3339, *req.DepartureTime); err != nil {
			return errors.New("departure_time must be RFC 3339")
		}
	}

	if req.ArrivalTime != nil {
		if _, err := time.Parse(time.RFC3339, *req.ArrivalTime); err != nil {
			return errors.New("arrival_time must be RFC 3339")
		}
	}

	if req.Fare != nil && *req.Fare <= 0 {
		return errors.New("fare must be greater than 0")
	}

	return nil
}

// ScheduleSearchQuery represents the parsed search parameters
type ScheduleSearchQuery struct {
	Source      string
	Destination string
	Date        time.Time
}

// ParsedTimes parses and validates the departure and arrival timestamps
func (req *CreateScheduleRequest) ParsedTimes() (departure, arrival time.Time, err error) {
	departure, err = time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("departure_time must be RFC 3339")
	}

	arrival, err = time.Parse(time.RFC3339, req.ArrivalTime)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("arrival_time must be RFC 3339")
	}

	if !arrival.After(departure) {
		return time.Time{}, time.Time{}, errors.New("arrival_time must be after departure_time")
	}

	return departure, arrival, nil
}

// Validate validates the CreateScheduleRequest
func (req *CreateScheduleRequest) Validate() error {
	if req.Fare <= 0 {
		return errors.New("fare must be greater than 0")
	}

	_, _, err := req.ParsedTimes()
	return err
}
