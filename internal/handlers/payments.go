package handlers

import (
	"net/http"

	"quinta/internal/models"

	"github.com/gin-gonic/gin"
)

// CreatePaymentIntent - POST /api/payments/pay
func (h *Handlers) CreatePaymentIntent(c *gin.Context) {
	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: err.Error()})
		return
	}

	secret, err := h.services.Payments.CreateIntent(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{ClientSecret: secret})
}

// UpdatePayment - PUT /api/payments/update
// The payment page reports the gateway outcome back here.
func (h *Handlers) UpdatePayment(c *gin.Context) {
	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: err.Error()})
		return
	}

	if err := h.services.Payments.Reconcile(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{Message: "payment recorded"})
}

// ListPayments - GET /api/payments/:reference (admin)
func (h *Handlers) ListPayments(c *gin.Context) {
	payments, err := h.services.Payments.ListByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{Payments: payments})
}

// ListNotifications - GET /api/notifications/:reference (admin)
func (h *Handlers) ListNotifications(c *gin.Context) {
	notifications, err := h.services.Notifications.ListByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{Notifications: notifications})
}
