package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/letsgo-transit/booking-backend/internal/models"
	"github.com/letsgo-transit/booking-backend/internal/services"
)

// ScheduleHandler handles schedule endpoints
type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// Search finds schedules for a route on a calendar day
// @Summary Search schedules
// @Description Search schedules by source, destination and travel date
// @Tags Schedules
// @Produce json
// @Param source query string true "Origin city"
// @Param destination query string true "Destination city"
// @Param date query string true "Travel date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{} "Matching schedules"
// @Failure 400 {object} map[string]interface{} "Missing or invalid parameters"
// @Router /api/schedule/search [get]
func (h *ScheduleHandler) Search(c *gin.Context) {
	query, err := h.scheduleService.ParseSearchQuery(
		c.Query("source"),
		c.Query("destination"),
		c.Query("date"),
	)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.scheduleService.Search(query)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"schedules": results,
	})
}

// GetByID retrieves a single schedule
func (h *ScheduleHandler) GetByID(c *gin.Context) {
	schedule, err := h.scheduleService.GetByID(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, schedule)
}

// Create creates a schedule (admin only)
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req models.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	schedule, err := h.scheduleService.Create(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, schedule)
}

// Update applies a partial update to a schedule (admin only)
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req models.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	schedule, err := h.scheduleService.Update(c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, schedule)
}

// Delete removes a schedule with no active bookings (admin only)
// @Summary Delete a schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 404 {object} map[string]interface{} "Schedule not found"
// @Failure 409 {object} map[string]interface{} "Schedule has active bookings"
// @Security BearerAuth
// @Router /api/schedule/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.scheduleService.Delete(c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
