package handlers

import (
	"net/http"

	"quinta/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateBooking - POST /api/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		respond(c, http.StatusUnauthorized, models.Response{Message: "authentication required"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: err.Error()})
		return
	}

	booking, err := h.services.Bookings.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, models.Response{
		Message: "booking created successfully",
		Booking: booking,
	})
}

// GetBookingByReference - GET /api/bookings/:reference
func (h *Handlers) GetBookingByReference(c *gin.Context) {
	booking, err := h.services.Bookings.FindByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{Booking: booking})
}

// UpdateBooking - PUT /api/bookings (admin)
func (h *Handlers) UpdateBooking(c *gin.Context) {
	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: err.Error()})
		return
	}

	booking, err := h.services.Bookings.Update(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{
		Message: "booking updated successfully",
		Booking: booking,
	})
}

// ListMyBookings - GET /api/bookings/mine
func (h *Handlers) ListMyBookings(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		respond(c, http.StatusUnauthorized, models.Response{Message: "authentication required"})
		return
	}

	bookings, err := h.services.Bookings.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{Bookings: bookings})
}

// ListAllBookings - GET /api/bookings (admin)
func (h *Handlers) ListAllBookings(c *gin.Context) {
	bookings, err := h.services.Bookings.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{Bookings: bookings})
}
