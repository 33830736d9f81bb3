package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

// RouteRepository handles route database operations
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create inserts a new route
func (r *RouteRepository) Create(route *models.Route) error {
	if route.ID == "" {
		route.ID = uuid.New().String()
	}

	query := `
		INSERT INTO routes (id, source, destination, distance_km)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(query, route.ID, route.Source, route.Destination, route.DistanceKM).
		Scan(&route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}

	return nil
}

// GetByID retrieves a route by its ID
func (r *RouteRepository) GetByID(id string) (*models.Route, error) {
	var route models.Route
	query := `
		SELECT id, source, destination, distance_km, created_at, updated_at
		FROM routes
		WHERE id = $1`

	if err := r.db.Get(&route, query, id); err != nil {
		return nil, err
	}

	return &route, nil
}

// List retrieves all routes ordered by source then destination
func (r *RouteRepository) List() ([]models.Route, error) {
	routes := []models.Route{}
	query := `
		SELECT id, source, destination, distance_km, created_at, updated_at
		FROM routes
		ORDER BY source, destination`

	if err := r.db.Select(&routes, query); err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	return routes, nil
}
