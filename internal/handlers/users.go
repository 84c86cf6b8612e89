package handlers

import (
	"net/http"

	"quinta/internal/models"

	"github.com/gin-gonic/gin"
)

// GetAccount - GET /api/users/me
func (h *Handlers) GetAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		respond(c, http.StatusUnauthorized, models.Response{Message: "authentication required"})
		return
	}

	user, err := h.services.Users.GetAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{User: user})
}

// UpdateAccount - PUT /api/users/me
func (h *Handlers) UpdateAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		respond(c, http.StatusUnauthorized, models.Response{Message: "authentication required"})
		return
	}

	var req models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: err.Error()})
		return
	}

	user, err := h.services.Users.UpdateAccount(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{
		Message: "account updated successfully",
		User:    user,
	})
}

// DeleteAccount - DELETE /api/users/me
func (h *Handlers) DeleteAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		respond(c, http.StatusUnauthorized, models.Response{Message: "authentication required"})
		return
	}

	if err := h.services.Users.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{Message: "account deleted"})
}

// ListUsers - GET /api/users (admin)
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.services.Users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{Users: users})
}
