package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

// BusRepository handles bus and seat template database operations
type BusRepository struct {
	db *sqlx.DB
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db *sqlx.DB) *BusRepository {
	return &BusRepository{db: db}
}

// Create inserts a new bus and seeds its seat template in one transaction.
// Seat numbers are generated from the bus capacity and row width.
func (r *BusRepository) Create(bus *models.Bus) error {
	if bus.ID == "" {
		bus.ID = uuid.New().String()
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO buses (id, bus_number, bus_type, total_seats, seats_per_row, has_wifi, has_ac)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err = tx.QueryRow(query,
		bus.ID, bus.BusNumber, bus.BusType, bus.TotalSeats,
		bus.SeatsPerRow, bus.HasWifi, bus.HasAC,
	).Scan(&bus.CreatedAt, &bus.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("bus number %s already exists: %w", bus.BusNumber, err)
		}
		return fmt.Errorf("failed to create bus: %w", err)
	}

	seatInsert := `
		INSERT INTO seats (id, bus_id, seat_number, row_letter, position)
		VALUES ($1, $2, $3, $4, $5)`

	for _, seat := range models.GenerateSeatTemplate(bus.TotalSeats, bus.SeatsPerRow) {
		if _, err := tx.Exec(seatInsert, uuid.New().String(), bus.ID, seat.SeatNumber, seat.RowLetter, seat.Position); err != nil {
			return fmt.Errorf("failed to seed seat %s: %w", seat.SeatNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bus creation: %w", err)
	}

	return nil
}

// GetByID retrieves a bus by its ID
func (r *BusRepository) GetByID(id string) (*models.Bus, error) {
	var bus models.Bus
	query := `
		SELECT id, bus_number, bus_type, total_seats, seats_per_row, has_wifi, has_ac,
		       created_at, updated_at
		FROM buses
		WHERE id = $1`

	if err := r.db.Get(&bus, query, id); err != nil {
		return nil, err
	}

	return &bus, nil
}

// List retrieves all buses ordered by bus number
func (r *BusRepository) List() ([]models.Bus, error) {
	buses := []models.Bus{}
	query := `
		SELECT id, bus_number, bus_type, total_seats, seats_per_row, has_wifi, has_ac,
		       created_at, updated_at
		FROM buses
		ORDER BY bus_number`

	if err := r.db.Select(&buses, query); err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}

	return buses, nil
}

// GetSeatTemplate retrieves the seat template rows for a bus ordered by
// row then position
func (r *BusRepository) GetSeatTemplate(busID string) ([]models.Seat, error) {
	seats := []models.Seat{}
	query := `
		SELECT id, bus_id, seat_number, row_letter, position
		FROM seats
		WHERE bus_id = $1
		ORDER BY row_letter, position`

	if err := r.db.Select(&seats, query, busID); err != nil {
		return nil, fmt.Errorf("failed to get seat template: %w", err)
	}

	return seats, nil
}
