package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

// ScheduleRepository handles schedule database operations. The available-seat
// counter it seeds is adjusted by booking transactions, not here
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a new schedule. The available seat counter starts at the
// bus capacity.
func (r *ScheduleRepository) Create(schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}

	query := `
		INSERT INTO schedules (id, route_id, bus_id, departure_time, arrival_time, fare, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, (SELECT total_seats FROM buses WHERE id = $3))
		RETURNING available_seats, created_at, updated_at`

	err := r.db.QueryRow(query,
		schedule.ID, schedule.RouteID, schedule.BusID,
		schedule.DepartureTime, schedule.ArrivalTime, schedule.Fare,
	).Scan(&schedule.AvailableSeats, &schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	return nil
}

// GetByID retrieves a schedule by its ID
func (r *ScheduleRepository) GetByID(id string) (*models.Schedule, error) {
	var schedule models.Schedule
	query := `
		SELECT id, route_id, bus_id, departure_time, arrival_time, fare, available_seats,
		       created_at, updated_at
		FROM schedules
		WHERE id = $1`

	if err := r.db.Get(&schedule, query, id); err != nil {
		return nil, err
	}

	return &schedule, nil
}

// Update persists changed departure, arrival and fare values
func (r *ScheduleRepository) Update(schedule *models.Schedule) error {
	query := `
		UPDATE schedules
		SET departure_time = $2, arrival_time = $3, fare = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(query,
		schedule.ID, schedule.DepartureTime, schedule.ArrivalTime, schedule.Fare,
	).Scan(&schedule.UpdatedAt)
	if err != nil {
		return err
	}

	return nil
}

// Delete removes a schedule. A schedule with non-cancelled bookings cannot
// be deleted; sql.ErrNoRows is returned when the schedule does not exist.
func (r *ScheduleRepository) Delete(id string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var active int
	err = tx.Get(&active, `
		SELECT COUNT(*)
		FROM bookings
		WHERE schedule_id = $1 AND booking_status <> $2`, id, models.BookingStatusCancelled)
	if err != nil {
		return fmt.Errorf("failed to check schedule bookings: %w", err)
	}

	if active > 0 {
		return ErrScheduleInUse
	}

	result, err := tx.Exec(`DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schedule delete: %w", err)
	}

	return nil
}

// Search finds schedules on a route departing within a day window,
// joined with route and bus details
func (r *ScheduleRepository) Search(source, destination string, dayStart, dayEnd time.Time) ([]models.ScheduleSearchResult, error) {
	results := []models.ScheduleSearchResult{}
	query := `
		SELECT s.id, s.route_id, s.bus_id, s.departure_time, s.arrival_time,
		       s.fare, s.available_seats, s.created_at, s.updated_at,
		       r.source, r.destination,
		       b.bus_number, b.bus_type, b.total_seats
		FROM schedules s
		JOIN routes r ON r.id = s.route_id
		JOIN buses b ON b.id = s.bus_id
		WHERE LOWER(r.source) = LOWER($1)
		  AND LOWER(r.destination) = LOWER($2)
		  AND s.departure_time >= $3
		  AND s.departure_time < $4
		ORDER BY s.departure_time`

	if err := r.db.Select(&results, query, source, destination, dayStart, dayEnd); err != nil {
		return nil, fmt.Errorf("failed to search schedules: %w", err)
	}

	return results, nil
}
