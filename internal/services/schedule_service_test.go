package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsgo-transit/booking-backend/internal/database"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

func newScheduleService(t *testing.T) (*ScheduleService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	logger := testLogger()

	return NewScheduleService(
		database.NewScheduleRepository(sqlxDB),
		database.NewRouteRepository(sqlxDB),
		database.NewBusRepository(sqlxDB),
		logger,
	), mock
}

func TestParseSearchQuery(t *testing.T) {
	service, _ := newScheduleService(t)

	t.Run("Valid", func(t *testing.T) {
		query, err := service.ParseSearchQuery("Colombo", "Kandy", "2026-09-10")
		require.NoError(t, err)
		assert.Equal(t, "Colombo", query.Source)
		assert.Equal(t, "Kandy", query.Destination)
		assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), query.Date)
	})

	t.Run("Trims Whitespace", func(t *testing.T) {
		query, err := service.ParseSearchQuery("  Colombo ", " Kandy", "2026-09-10")
		require.NoError(t, err)
		assert.Equal(t, "Colombo", query.Source)
		assert.Equal(t, "Kandy", query.Destination)
	})

	t.Run("Missing Parameter", func(t *testing.T) {
		_, err := service.ParseSearchQuery("Colombo", "", "2026-09-10")
		assert.Error(t, err)
	})

	t.Run("Bad Date Format", func(t *testing.T) {
		_, err := service.ParseSearchQuery("Colombo", "Kandy", "10/09/2026")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "YYYY-MM-DD")
	})
}

func TestScheduleSearchService(t *testing.T) {
	service, mock := newScheduleService(t)

	dayStart := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM schedules s`).
		WithArgs("Colombo", "Kandy", dayStart, dayStart.AddDate(0, 0, 1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "route_id", "bus_id", "departure_time", "arrival_time",
			"fare", "available_seats", "created_at", "updated_at",
			"source", "destination", "bus_number", "bus_type", "total_seats",
		}).AddRow(
			"sched-1", "route-1", "bus-1", dayStart.Add(8*time.Hour), dayStart.Add(11*time.Hour),
			1500.0, 12, now, now,
			"Colombo", "Kandy", "NB-1234", "ac", 40,
		))

	query, err := service.ParseSearchQuery("Colombo", "Kandy", "2026-09-10")
	require.NoError(t, err)

	results, err := service.Search(query)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Kandy", results[0].Destination)
	assert.Equal(t, 12, results[0].AvailableSeats)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func scheduleRow(departure, arrival time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "route_id", "bus_id", "departure_time", "arrival_time",
		"fare", "available_seats", "created_at", "updated_at",
	}).AddRow("sched-1", "route-1", "bus-1", departure, arrival, 1500.0, 12, now, now)
}

func TestScheduleUpdate(t *testing.T) {
	departure := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	arrival := departure.Add(3 * time.Hour)

	t.Run("Success", func(t *testing.T) {
		service, mock := newScheduleService(t)

		mock.ExpectQuery(`SELECT (.+) FROM schedules`).
			WithArgs("sched-1").
			WillReturnRows(scheduleRow(departure, arrival))

		newFare := 1800.0
		newArrival := departure.Add(4 * time.Hour)
		newArrivalStr := newArrival.Format(time.RFC3339)

		mock.ExpectQuery(`UPDATE schedules`).
			WithArgs("sched-1", departure, newArrival, newFare).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

		updated, err := service.Update("sched-1", &models.UpdateScheduleRequest{
			ArrivalTime: &newArrivalStr,
			Fare:        &newFare,
		})
		require.NoError(t, err)
		assert.Equal(t, newFare, updated.Fare)
		assert.True(t, updated.ArrivalTime.Equal(newArrival))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Fields", func(t *testing.T) {
		service, _ := newScheduleService(t)

		_, err := service.Update("sched-1", &models.UpdateScheduleRequest{})
		assert.Error(t, err)
	})

	t.Run("Arrival Not After Departure", func(t *testing.T) {
		service, mock := newScheduleService(t)

		mock.ExpectQuery(`SELECT (.+) FROM schedules`).
			WithArgs("sched-1").
			WillReturnRows(scheduleRow(departure, arrival))

		badArrival := departure.Add(-time.Hour).Format(time.RFC3339)

		_, err := service.Update("sched-1", &models.UpdateScheduleRequest{
			ArrivalTime: &badArrival,
		})
		assert.ErrorIs(t, err, ErrInvalidScheduleTimes)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		service, mock := newScheduleService(t)

		mock.ExpectQuery(`SELECT (.+) FROM schedules`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		fare := 1200.0
		_, err := service.Update("missing", &models.UpdateScheduleRequest{Fare: &fare})
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})
}

func TestScheduleDelete(t *testing.T) {
	countQuery := `SELECT COUNT\(\*\)`

	t.Run("Success", func(t *testing.T) {
		service, mock := newScheduleService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(countQuery).
			WithArgs("sched-1", models.BookingStatusCancelled).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM schedules`).
			WithArgs("sched-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := service.Delete("sched-1")
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Active Bookings Block Delete", func(t *testing.T) {
		service, mock := newScheduleService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(countQuery).
			WithArgs("sched-1", models.BookingStatusCancelled).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectRollback()

		err := service.Delete("sched-1")
		assert.ErrorIs(t, err, ErrScheduleInUse)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		service, mock := newScheduleService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(countQuery).
			WithArgs("missing", models.BookingStatusCancelled).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM schedules`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := service.Delete("missing")
		assert.ErrorIs(t, err, ErrScheduleNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
