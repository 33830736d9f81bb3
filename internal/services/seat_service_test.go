package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsgo-transit/booking-backend/internal/database"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

func newSeatService(t *testing.T) (*SeatService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	logger := testLogger()

	return NewSeatService(
		database.NewScheduleRepository(sqlxDB),
		database.NewBusRepository(sqlxDB),
		database.NewBookingRepository(sqlxDB),
		logger,
	), mock
}

func TestGetSeatMap(t *testing.T) {
	departure := time.Now().Add(24 * time.Hour)

	t.Run("Projects Claimed Seats As Booked", func(t *testing.T) {
		service, mock := newSeatService(t)

		expectScheduleFetch(mock, "sched-1", departure, 1500.0, 38)
		expectBusFetch(mock, "bus-1", 8, 4)
		mock.ExpectQuery(`SELECT (.+) FROM seats`).
			WithArgs("bus-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "bus_id", "seat_number", "row_letter", "position"}).
				AddRow("s1", "bus-1", "A1", "A", 1).
				AddRow("s2", "bus-1", "A2", "A", 2).
				AddRow("s3", "bus-1", "A3", "A", 3).
				AddRow("s4", "bus-1", "A4", "A", 4).
				AddRow("s5", "bus-1", "B1", "B", 1).
				AddRow("s6", "bus-1", "B2", "B", 2).
				AddRow("s7", "bus-1", "B3", "B", 3).
				AddRow("s8", "bus-1", "B4", "B", 4))
		mock.ExpectQuery(`SELECT seat_number FROM booking_seats`).
			WithArgs("sched-1").
			WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow("A2").AddRow("B4"))

		seatMap, err := service.GetSeatMap("sched-1")
		require.NoError(t, err)
		assert.Equal(t, "sched-1", seatMap.ScheduleID)
		assert.Equal(t, 8, seatMap.TotalSeats)
		assert.Equal(t, 38, seatMap.AvailableSeats)
		require.Len(t, seatMap.Seats, 8)

		byNumber := make(map[string]models.SeatStatus)
		for _, seat := range seatMap.Seats {
			byNumber[seat.SeatNumber] = seat.Status
		}
		assert.Equal(t, models.SeatStatusBooked, byNumber["A2"])
		assert.Equal(t, models.SeatStatusBooked, byNumber["B4"])
		assert.Equal(t, models.SeatStatusAvailable, byNumber["A1"])
		assert.Equal(t, models.SeatStatusAvailable, byNumber["B3"])
		assert.ElementsMatch(t, []string{"A2", "B4"}, seatMap.BookedSeats)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Falls Back To Generated Grid", func(t *testing.T) {
		service, mock := newSeatService(t)

		expectScheduleFetch(mock, "sched-1", departure, 1500.0, 40)
		expectBusFetch(mock, "bus-1", 40, 4)
		expectEmptySeatTemplate(mock, "bus-1")
		mock.ExpectQuery(`SELECT seat_number FROM booking_seats`).
			WithArgs("sched-1").
			WillReturnRows(sqlmock.NewRows([]string{"seat_number"}))

		seatMap, err := service.GetSeatMap("sched-1")
		require.NoError(t, err)
		require.Len(t, seatMap.Seats, 40)
		assert.Equal(t, "A1", seatMap.Seats[0].SeatNumber)
		assert.Equal(t, "J4", seatMap.Seats[39].SeatNumber)
		assert.Empty(t, seatMap.BookedSeats)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Schedule", func(t *testing.T) {
		service, mock := newSeatService(t)

		mock.ExpectQuery(`SELECT (.+) FROM schedules`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		seatMap, err := service.GetSeatMap("missing")
		assert.ErrorIs(t, err, ErrScheduleNotFound)
		assert.Nil(t, seatMap)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
