package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/letsgo-transit/booking-backend/internal/database"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

// RouteHandler handles route administration endpoints
type RouteHandler struct {
	routeRepo *database.RouteRepository
}

// NewRouteHandler creates a new RouteHandler
func NewRouteHandler(routeRepo *database.RouteRepository) *RouteHandler {
	return &RouteHandler{routeRepo: routeRepo}
}

// Create creates a route (admin only)
func (h *RouteHandler) Create(c *gin.Context) {
	var req models.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	route := &models.Route{
		Source:      req.Source,
		Destination: req.Destination,
		DistanceKM:  req.DistanceKM,
	}

	if err := h.routeRepo.Create(route); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create route")
		return
	}

	respondData(c, http.StatusCreated, route)
}

// List lists all routes
func (h *RouteHandler) List(c *gin.Context) {
	routes, err := h.routeRepo.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list routes")
		return
	}

	respondData(c, http.StatusOK, routes)
}

// GetByID retrieves one route
func (h *RouteHandler) GetByID(c *gin.Context) {
	route, err := h.routeRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, "Route not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to get route")
		return
	}

	respondData(c, http.StatusOK, route)
}
