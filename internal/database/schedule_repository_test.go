package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsgo-transit/booking-backend/internal/models"
)

func newMockSqlxDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestScheduleSearch(t *testing.T) {
	sqlxDB, mock := newMockSqlxDB(t)
	repo := NewScheduleRepository(sqlxDB)

	dayStart := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	t.Run("Returns Matching Schedules", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`SELECT (.+) FROM schedules s`).
			WithArgs("Colombo", "Kandy", dayStart, dayEnd).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "route_id", "bus_id", "departure_time", "arrival_time",
				"fare", "available_seats", "created_at", "updated_at",
				"source", "destination", "bus_number", "bus_type", "total_seats",
			}).AddRow(
				"sched-1", "route-1", "bus-1", dayStart.Add(8*time.Hour), dayStart.Add(11*time.Hour),
				1500.0, 38, now, now,
				"Colombo", "Kandy", "NB-1234", "ac", 40,
			))

		results, err := repo.Search("Colombo", "Kandy", dayStart, dayEnd)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "sched-1", results[0].ID)
		assert.Equal(t, 38, results[0].AvailableSeats)
		assert.Equal(t, "NB-1234", results[0].BusNumber)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Result Is Not An Error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM schedules s`).
			WithArgs("Colombo", "Jaffna", dayStart, dayEnd).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		results, err := repo.Search("Colombo", "Jaffna", dayStart, dayEnd)
		require.NoError(t, err)
		assert.Empty(t, results)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestScheduleCreate(t *testing.T) {
	sqlxDB, mock := newMockSqlxDB(t)
	repo := NewScheduleRepository(sqlxDB)

	t.Run("Seeds Counter From Bus Capacity", func(t *testing.T) {
		now := time.Now()
		departure := now.Add(24 * time.Hour)
		arrival := departure.Add(3 * time.Hour)

		mock.ExpectQuery(`INSERT INTO schedules`).
			WithArgs(sqlmock.AnyArg(), "route-1", "bus-1", departure, arrival, 1500.0).
			WillReturnRows(sqlmock.NewRows([]string{"available_seats", "created_at", "updated_at"}).
				AddRow(40, now, now))

		schedule := &models.Schedule{
			RouteID:       "route-1",
			BusID:         "bus-1",
			DepartureTime: departure,
			ArrivalTime:   arrival,
			Fare:          1500.0,
		}

		err := repo.Create(schedule)
		require.NoError(t, err)
		assert.NotEmpty(t, schedule.ID)
		assert.Equal(t, 40, schedule.AvailableSeats)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
