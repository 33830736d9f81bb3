package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/letsgo-transit/booking-backend/internal/database"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

// BusHandler handles bus administration endpoints
type BusHandler struct {
	busRepo *database.BusRepository
}

// NewBusHandler creates a new BusHandler
func NewBusHandler(busRepo *database.BusRepository) *BusHandler {
	return &BusHandler{busRepo: busRepo}
}

// Create creates a bus and seeds its seat template (admin only)
func (h *BusHandler) Create(c *gin.Context) {
	var req models.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	bus := &models.Bus{
		BusNumber:   req.BusNumber,
		BusType:     models.BusType(req.BusType),
		TotalSeats:  req.TotalSeats,
		SeatsPerRow: req.SeatsPerRow,
		HasWifi:     req.HasWifi,
		HasAC:       req.HasAC,
	}

	if err := h.busRepo.Create(bus); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create bus")
		return
	}

	respondData(c, http.StatusCreated, bus)
}

// List lists all buses
func (h *BusHandler) List(c *gin.Context) {
	buses, err := h.busRepo.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list buses")
		return
	}

	respondData(c, http.StatusOK, buses)
}

// GetByID retrieves one bus
func (h *BusHandler) GetByID(c *gin.Context) {
	bus, err := h.busRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, "Bus not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to get bus")
		return
	}

	respondData(c, http.StatusOK, bus)
}
