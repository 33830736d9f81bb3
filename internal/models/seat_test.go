package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSeatTemplate(t *testing.T) {
	t.Run("Default Grid", func(t *testing.T) {
		seats := GenerateSeatTemplate(40, 0)
		require.Len(t, seats, 40)
		assert.Equal(t, "A1", seats[0].SeatNumber)
		assert.Equal(t, "A4", seats[3].SeatNumber)
		assert.Equal(t, "B1", seats[4].SeatNumber)
		assert.Equal(t, "J4", seats[39].SeatNumber)
		assert.Equal(t, "J", seats[39].RowLetter)
		assert.Equal(t, 4, seats[39].Position)
	})

	t.Run("Custom Row Width", func(t *testing.T) {
		seats := GenerateSeatTemplate(6, 3)
		require.Len(t, seats, 6)
		assert.Equal(t, "A3", seats[2].SeatNumber)
		assert.Equal(t, "B1", seats[3].SeatNumber)
	})

	t.Run("Capacity Not Divisible By Row Width", func(t *testing.T) {
		seats := GenerateSeatTemplate(5, 4)
		require.Len(t, seats, 5)
		assert.Equal(t, "B1", seats[4].SeatNumber)
	})

	t.Run("Rows Past Z", func(t *testing.T) {
		seats := GenerateSeatTemplate(27*4, 4)
		require.Len(t, seats, 108)
		assert.Equal(t, "Z4", seats[25*4+3].SeatNumber)
		assert.Equal(t, "AA1", seats[26*4].SeatNumber)
	})

	t.Run("Zero Capacity", func(t *testing.T) {
		assert.Nil(t, GenerateSeatTemplate(0, 4))
	})
}

func TestCreateBookingRequestValidateSeatSelections(t *testing.T) {
	valid := func() *CreateBookingRequest {
		return &CreateBookingRequest{
			ScheduleID: "sched-1",
			Seats: []SeatSelection{
				{SeatNumber: "A1", PassengerName: "Alice Perera"},
			},
		}
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("Missing Schedule", func(t *testing.T) {
		req := valid()
		req.ScheduleID = "  "
		assert.Error(t, req.Validate())
	})

	t.Run("No Seats", func(t *testing.T) {
		req := valid()
		req.Seats = nil
		assert.Error(t, req.Validate())
	})

	t.Run("Too Many Seats", func(t *testing.T) {
		req := valid()
		req.Seats = nil
		for i := 0; i < MaxSeatsPerBooking+1; i++ {
			req.Seats = append(req.Seats, SeatSelection{
				SeatNumber:    GenerateSeatNumbers(MaxSeatsPerBooking+1, 4)[i],
				PassengerName: "Passenger",
			})
		}
		assert.Error(t, req.Validate())
	})

	t.Run("Duplicate Seats Case Insensitive", func(t *testing.T) {
		req := valid()
		req.Seats = []SeatSelection{
			{SeatNumber: "A1", PassengerName: "Alice Perera"},
			{SeatNumber: "a1", PassengerName: "Bob Silva"},
		}
		assert.Error(t, req.Validate())
	})

	t.Run("Missing Passenger Name", func(t *testing.T) {
		req := valid()
		req.Seats[0].PassengerName = " "
		assert.Error(t, req.Validate())
	})
}

func TestBookingStateHelpers(t *testing.T) {
	t.Run("Pending And Confirmed Can Cancel", func(t *testing.T) {
		assert.True(t, (&Booking{BookingStatus: BookingStatusPending}).CanBeCancelled())
		assert.True(t, (&Booking{BookingStatus: BookingStatusConfirmed}).CanBeCancelled())
		assert.False(t, (&Booking{BookingStatus: BookingStatusCancelled}).CanBeCancelled())
	})

	t.Run("IsExpired Requires Pending And A Past Deadline", func(t *testing.T) {
		now := testNow()
		past := now.Add(-time.Minute)
		future := now.Add(time.Minute)

		assert.True(t, (&Booking{BookingStatus: BookingStatusPending, ExpiresAt: &past}).IsExpired(now))
		assert.False(t, (&Booking{BookingStatus: BookingStatusPending, ExpiresAt: &future}).IsExpired(now))
		assert.False(t, (&Booking{BookingStatus: BookingStatusConfirmed, ExpiresAt: &past}).IsExpired(now))
		assert.False(t, (&Booking{BookingStatus: BookingStatusPending}).IsExpired(now))
	})
}

func testNow() time.Time {
	return time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
}

func TestNormalizedSeats(t *testing.T) {
	seats := NormalizedSeats([]SeatSelection{
		{SeatNumber: " a1 ", PassengerName: " Alice Perera "},
	})
	assert.Equal(t, "A1", seats[0].SeatNumber)
	assert.Equal(t, "Alice Perera", seats[0].PassengerName)
}
