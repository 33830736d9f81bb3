package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/letsgo-transit/booking-backend/internal/services"
)

// respondData writes a success envelope
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondError writes a failure envelope
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondServiceError maps service sentinel errors to HTTP status codes.
// Unmapped errors become 500 without leaking internals.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrScheduleNotFound),
		errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrRouteNotFound),
		errors.Is(err, services.ErrBusNotFound),
		errors.Is(err, services.ErrPaymentNotFound):
		respondError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrSeatsUnavailable),
		errors.Is(err, services.ErrSeatConflict),
		errors.Is(err, services.ErrScheduleInUse):
		respondError(c, http.StatusConflict, err.Error())

	case errors.Is(err, services.ErrNotBookingOwner):
		respondError(c, http.StatusForbidden, err.Error())

	case errors.Is(err, services.ErrUnknownSeat),
		errors.Is(err, services.ErrBookingNotCancellable),
		errors.Is(err, services.ErrBookingNotModifiable),
		errors.Is(err, services.ErrBookingExpired),
		errors.Is(err, services.ErrPaymentAlreadyCompleted),
		errors.Is(err, services.ErrPaymentExists),
		errors.Is(err, services.ErrPaymentNotSucceeded),
		errors.Is(err, services.ErrDepartedSchedule),
		errors.Is(err, services.ErrInvalidScheduleTimes):
		respondError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, services.ErrPaymentGateway):
		respondError(c, http.StatusBadGateway, "payment gateway unavailable")

	default:
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
