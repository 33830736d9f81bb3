package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/letsgo-transit/booking-backend/internal/middleware"
	"github.com/letsgo-transit/booking-backend/internal/models"
	"github.com/letsgo-transit/booking-backend/internal/services"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Config serves the gateway's public client configuration
// @Summary Payment gateway client config
// @Tags Payments
// @Produce json
// @Success 200 {object} map[string]interface{} "Publishable key and currency"
// @Router /api/payment/config [get]
func (h *PaymentHandler) Config(c *gin.Context) {
	respondData(c, http.StatusOK, h.paymentService.Config())
}

// List retrieves payments made against the caller's bookings
func (h *PaymentHandler) List(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	payments, err := h.paymentService.ListForUser(userCtx.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, payments)
}

// GetByID retrieves one payment, with booking ownership enforced
func (h *PaymentHandler) GetByID(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	payment, err := h.paymentService.GetByID(userCtx.UserID, userCtx.IsAdmin, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, payment)
}

// CreatePaymentIntent starts payment for a booking
// @Summary Create a payment intent
// @Description Creates a gateway payment intent for the booking total and returns its client secret
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body models.CreatePaymentIntentRequest true "Payment intent request"
// @Success 200 {object} map[string]interface{} "Client secret and intent details"
// @Failure 400 {object} map[string]interface{} "Booking not payable"
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 502 {object} map[string]interface{} "Gateway unavailable"
// @Security BearerAuth
// @Router /api/payment/create-payment-intent [post]
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	intent, err := h.paymentService.CreateIntent(userCtx.UserID, userCtx.IsAdmin, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, intent)
}

// ConfirmPayment verifies payment with the gateway and confirms the booking
// @Summary Confirm a payment
// @Description Re-fetches the intent from the gateway; only a succeeded intent confirms the booking
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body models.ConfirmPaymentRequest true "Confirmation request"
// @Success 200 {object} map[string]interface{} "Confirmed booking"
// @Failure 400 {object} map[string]interface{} "Payment not succeeded or hold expired"
// @Failure 404 {object} map[string]interface{} "Booking or payment not found"
// @Security BearerAuth
// @Router /api/payment/confirm-payment [post]
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.paymentService.ConfirmPayment(userCtx.UserID, userCtx.IsAdmin, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, booking)
}
