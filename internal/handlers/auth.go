package handlers

import (
	"net/http"
	"time"

	"quinta/internal/models"

	"github.com/gin-gonic/gin"
)

// Register - POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: err.Error()})
		return
	}

	user, err := h.services.Users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, models.Response{
		Message: "user registered successfully",
		User:    user,
	})
}

// Login - POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: err.Error()})
		return
	}

	result, err := h.services.Users.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{
		Message:        "login successful",
		Token:          result.Token,
		Role:           result.Role,
		ExpirationTime: result.ExpirationTime.Format(time.RFC3339),
	})
}

// ForgotPassword - POST /api/auth/forgot-password
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: err.Error()})
		return
	}

	if err := h.services.Resets.Forgot(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{
		Message: "password reset email sent",
	})
}

// ResetPassword - POST /api/auth/reset-password
func (h *Handlers) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: err.Error()})
		return
	}

	if err := h.services.Resets.Reset(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{
		Message: "password has been reset",
	})
}
