package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingRequestValidate(t *testing.T) {
	seats := func(n int) []SeatSelection {
		out := make([]SeatSelection, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, SeatSelection{
				SeatNumber:    fmt.Sprintf("A%d", i+1),
				PassengerName: fmt.Sprintf("Passenger %d", i+1),
			})
		}
		return out
	}

	t.Run("Valid", func(t *testing.T) {
		req := &CreateBookingRequest{ScheduleID: "sched-1", Seats: seats(MaxSeatsPerBooking)}
		require.NoError(t, req.Validate())
	})

	t.Run("Over The Seat Cap", func(t *testing.T) {
		req := &CreateBookingRequest{ScheduleID: "sched-1", Seats: seats(MaxSeatsPerBooking + 1)}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "maximum 6 seats")
	})

	t.Run("Duplicate Seat", func(t *testing.T) {
		req := &CreateBookingRequest{
			ScheduleID: "sched-1",
			Seats: []SeatSelection{
				{SeatNumber: "a1", PassengerName: "Alice Perera"},
				{SeatNumber: "A1", PassengerName: "Bimal Silva"},
			},
		}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate seat_number")
	})

	t.Run("Missing Schedule", func(t *testing.T) {
		req := &CreateBookingRequest{Seats: seats(1)}
		assert.Error(t, req.Validate())
	})

	t.Run("Normalizes Contact Phone", func(t *testing.T) {
		req := &CreateBookingRequest{
			ScheduleID:   "sched-1",
			Seats:        seats(1),
			ContactPhone: "+94 77 123 4567",
		}
		require.NoError(t, req.Validate())
		assert.Equal(t, "0771234567", req.ContactPhone)
	})
}
