package models

import "fmt"

// SeatStatus represents the availability of a seat on a schedule
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusBooked    SeatStatus = "booked"
)

// Seat represents one seat in a bus seat template
type Seat struct {
	ID         string `json:"id" db:"id"`
	BusID      string `json:"bus_id" db:"bus_id"`
	SeatNumber string `json:"seat_number" db:"seat_number"`
	RowLetter  string `json:"row_letter" db:"row_letter"`
	Position   int    `json:"position" db:"position"`
}

// SeatView represents the projected availability of a seat for a schedule
type SeatView struct {
	SeatNumber string     `json:"seat_number"`
	Status     SeatStatus `json:"status"`
}

// ScheduleSeatMap is the full seat availability projection for a schedule
type ScheduleSeatMap struct {
	ScheduleID     string     `json:"schedule_id"`
	TotalSeats     int        `json:"total_seats"`
	AvailableSeats int        `json:"available_seats"`
	BookedSeats    []string   `json:"booked_seats"`
	Seats          []SeatView `json:"seats"`
}

// DefaultSeatRows and DefaultSeatsPerRow describe the fallback seat grid
// used when a bus carries no explicit layout (rows A..J, positions 1..4).
const (
	DefaultSeatRows    = 10
	DefaultSeatsPerRow = 4
)

// GenerateSeatTemplate produces row-lettered seats (A1, A2, ... B1, ...)
// for a bus with the given capacity. seatsPerRow <= 0 falls back to the
// default grid width.
func GenerateSeatTemplate(totalSeats, seatsPerRow int) []Seat {
	if totalSeats <= 0 {
		return nil
	}
	if seatsPerRow <= 0 {
		seatsPerRow = DefaultSeatsPerRow
	}

	seats := make([]Seat, 0, totalSeats)
	for i := 0; i < totalSeats; i++ {
		row := rowLetter(i / seatsPerRow)
		pos := i%seatsPerRow + 1
		seats = append(seats, Seat{
			SeatNumber: fmt.Sprintf("%s%d", row, pos),
			RowLetter:  row,
			Position:   pos,
		})
	}
	return seats
}

// GenerateSeatNumbers is GenerateSeatTemplate reduced to seat numbers only
func GenerateSeatNumbers(totalSeats, seatsPerRow int) []string {
	template := GenerateSeatTemplate(totalSeats, seatsPerRow)
	numbers := make([]string, len(template))
	for i, s := range template {
		numbers[i] = s.SeatNumber
	}
	return numbers
}

// rowLetter converts a zero-based row index to a spreadsheet-style letter
// sequence (A..Z, AA..AZ, ...).
func rowLetter(row int) string {
	letters := ""
	for {
		letters = string(rune('A'+row%26)) + letters
		row = row/26 - 1
		if row < 0 {
			break
		}
	}
	return letters
}
