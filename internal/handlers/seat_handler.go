package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/letsgo-transit/booking-backend/internal/services"
)

// SeatHandler handles seat availability endpoints
type SeatHandler struct {
	seatService *services.SeatService
}

// NewSeatHandler creates a new SeatHandler
func NewSeatHandler(seatService *services.SeatService) *SeatHandler {
	return &SeatHandler{seatService: seatService}
}

// GetScheduleSeats returns the per-seat availability projection for a schedule
// @Summary Get seat map for a schedule
// @Description Returns every seat of the bus with its booked/available status
// @Tags Seats
// @Produce json
// @Param schedule_id path string true "Schedule ID"
// @Success 200 {object} map[string]interface{} "Seat map"
// @Failure 404 {object} map[string]interface{} "Schedule not found"
// @Router /api/seats/schedule/{schedule_id} [get]
func (h *SeatHandler) GetScheduleSeats(c *gin.Context) {
	seatMap, err := h.seatService.GetSeatMap(c.Param("schedule_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, seatMap)
}
