package services

import "errors"

// Sentinel errors shared by the service layer. Handlers map these to HTTP
// status codes.
var (
	// ErrScheduleNotFound indicates the requested schedule does not exist
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrBookingNotFound indicates the requested booking does not exist
	ErrBookingNotFound = errors.New("booking not found")

	// ErrRouteNotFound indicates the requested route does not exist
	ErrRouteNotFound = errors.New("route not found")

	// ErrBusNotFound indicates the requested bus does not exist
	ErrBusNotFound = errors.New("bus not found")

	// ErrPaymentNotFound indicates no payment exists for the lookup key
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrNotBookingOwner indicates the caller does not own the booking
	ErrNotBookingOwner = errors.New("booking belongs to another user")

	// ErrSeatsUnavailable indicates the schedule cannot cover the requested
	// seat count
	ErrSeatsUnavailable = errors.New("not enough seats available")

	// ErrSeatConflict indicates a requested seat is already booked
	ErrSeatConflict = errors.New("one or more seats are already booked")

	// ErrUnknownSeat indicates a requested seat number is not part of the
	// bus layout
	ErrUnknownSeat = errors.New("seat number does not exist on this bus")

	// ErrBookingNotCancellable indicates the booking is already cancelled
	ErrBookingNotCancellable = errors.New("booking cannot be cancelled")

	// ErrBookingNotModifiable indicates the booking's seats can no longer
	// be changed
	ErrBookingNotModifiable = errors.New("booking cannot be modified")

	// ErrBookingExpired indicates the booking's payment hold lapsed
	ErrBookingExpired = errors.New("booking hold has expired")

	// ErrPaymentAlreadyCompleted indicates the booking is already paid
	ErrPaymentAlreadyCompleted = errors.New("payment already completed for booking")

	// ErrPaymentExists indicates the booking already has an open payment
	// intent; the client should finish or cancel it instead of minting
	// another
	ErrPaymentExists = errors.New("payment already exists for this booking")

	// ErrPaymentNotSucceeded indicates the gateway does not report the
	// payment as succeeded
	ErrPaymentNotSucceeded = errors.New("payment has not succeeded")

	// ErrPaymentGateway indicates the payment gateway call failed
	ErrPaymentGateway = errors.New("payment gateway error")

	// ErrDepartedSchedule indicates the schedule's departure time has passed
	ErrDepartedSchedule = errors.New("schedule has already departed")

	// ErrScheduleInUse indicates the schedule still has active bookings
	ErrScheduleInUse = errors.New("schedule has active bookings")

	// ErrInvalidScheduleTimes indicates arrival does not follow departure
	ErrInvalidScheduleTimes = errors.New("arrival_time must be after departure_time")
)
