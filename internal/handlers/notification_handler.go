package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/letsgo-transit/booking-backend/internal/middleware"
	"github.com/letsgo-transit/booking-backend/internal/services"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List retrieves the caller's notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notifications, err := h.notificationService.ListForUser(userCtx.UserID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	respondData(c, http.StatusOK, notifications)
}

// MarkRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.notificationService.MarkRead(c.Param("id"), userCtx.UserID); err != nil {
		respondError(c, http.StatusNotFound, "Notification not found")
		return
	}

	respondData(c, http.StatusOK, gin.H{"id": c.Param("id"), "is_read": true})
}
