package models

import (
	"errors"
	"strings"
	"time"
)

// Route represents a source-destination pair served by scheduled buses
type Route struct {
	ID          string    `json:"id" db:"id"`
	Source      string    `json:"source" db:"source"`
	Destination string    `json:"destination" db:"destination"`
	DistanceKM  float64   `json:"distance_km" db:"distance_km"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreateRouteRequest represents the request to create a new route
type CreateRouteRequest struct {
	Source      string  `json:"source" binding:"required"`
	Destination string  `json:"destination" binding:"required"`
	DistanceKM  float64 `json:"distance_km"`
}

// Validate validates the CreateRouteRequest
func (req *CreateRouteRequest) Validate() error {
	req.Source = strings.TrimSpace(req.Source)
	req.Destination = strings.TrimSpace(req.Destination)

	if req.Source == "" || req.Destination == "" {
		return errors.New("source and destination are required")
	}

	if strings.EqualFold(req.Source, req.Destination) {
		return errors.New("source and destination must differ")
	}

	if req.DistanceKM < 0 {
		return errors.New("distance_km must not be negative")
	}

	return nil
}
