package models

import (
	"errors"
	"time"
)

// BusType represents the type/category of bus
type BusType string

const (
	BusTypeStandard BusType = "standard"
	BusTypeAC       BusType = "ac"
	BusTypeSleeper  BusType = "sleeper"
	BusTypeLuxury   BusType = "luxury"
)

// Bus represents a vehicle that operates scheduled trips
type Bus struct {
	ID          string    `json:"id" db:"id"`
	BusNumber   string    `json:"bus_number" db:"bus_number"`
	BusType     BusType   `json:"bus_type" db:"bus_type"`
	TotalSeats  int       `json:"total_seats" db:"total_seats"`
	SeatsPerRow int       `json:"seats_per_row" db:"seats_per_row"`
	HasWifi     bool      `json:"has_wifi" db:"has_wifi"`
	HasAC       bool      `json:"has_ac" db:"has_ac"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreateBusRequest represents the request to create a new bus
type CreateBusRequest struct {
	BusNumber   string `json:"bus_number" binding:"required"`
	BusType     string `json:"bus_type" binding:"required"`
	TotalSeats  int    `json:"total_seats" binding:"required,gt=0"`
	SeatsPerRow int    `json:"seats_per_row"`
	HasWifi     bool   `json:"has_wifi"`
	HasAC       bool   `json:"has_ac"`
}

// Validate validates the CreateBusRequest
func (req *CreateBusRequest) Validate() error {
	busType := BusType(req.BusType)
	if busType != BusTypeStandard && busType != BusTypeAC &&
		busType != BusTypeSleeper && busType != BusTypeLuxury {
		return errors.New("invalid bus_type: must be standard, ac, sleeper, or luxury")
	}

	if req.TotalSeats <= 0 {
		return errors.New("total_seats must be greater than 0")
	}

	if req.SeatsPerRow < 0 {
		return errors.New("seats_per_row must not be negative")
	}

	if req.SeatsPerRow > 0 && req.TotalSeats%req.SeatsPerRow != 0 {
		return errors.New("total_seats must be divisible by seats_per_row")
	}

	return nil
}
