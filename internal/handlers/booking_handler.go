package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/letsgo-transit/booking-backend/internal/middleware"
	"github.com/letsgo-transit/booking-backend/internal/models"
	"github.com/letsgo-transit/booking-backend/internal/services"
)

// BookingHandler handles booking endpoints
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create creates a booking with seat selection
// @Summary Create a booking
// @Description Book seats on a schedule. The booking starts pending with a payment hold.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.CreateBookingRequest true "Booking request"
// @Success 201 {object} map[string]interface{} "Booking created"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 409 {object} map[string]interface{} "Seats unavailable"
// @Security BearerAuth
// @Router /api/booking/create [post]
func (h *BookingHandler) Create(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.bookingService.Create(userCtx.UserID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, booking)
}

// GetByID retrieves one of the caller's bookings
func (h *BookingHandler) GetByID(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	booking, err := h.bookingService.GetByID(userCtx.UserID, userCtx.IsAdmin, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, booking)
}

// List retrieves the caller's bookings
func (h *BookingHandler) List(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookings, err := h.bookingService.ListForUser(userCtx.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, bookings)
}

// ListForUser retrieves any user's bookings (admin only)
func (h *BookingHandler) ListForUser(c *gin.Context) {
	bookings, err := h.bookingService.ListForUser(c.Param("user_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, bookings)
}

// Cancel cancels a booking and releases its seats
// @Summary Cancel a booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} map[string]interface{} "Cancelled booking"
// @Failure 400 {object} map[string]interface{} "Booking cannot be cancelled"
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Security BearerAuth
// @Router /api/booking/{id}/cancel [put]
func (h *BookingHandler) Cancel(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	booking, err := h.bookingService.Cancel(userCtx.UserID, userCtx.IsAdmin, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, booking)
}

// Update replaces a booking's seat selection
// @Summary Update a booking's seats
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body models.UpdateBookingRequest true "New seat selection"
// @Success 200 {object} map[string]interface{} "Updated booking"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 409 {object} map[string]interface{} "Seats unavailable"
// @Security BearerAuth
// @Router /api/booking/{id} [put]
func (h *BookingHandler) Update(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.bookingService.UpdateSeats(userCtx.UserID, userCtx.IsAdmin, c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, booking)
}
