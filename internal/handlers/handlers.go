package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"quinta/internal/cache"
	"quinta/internal/errors"
	"quinta/internal/models"
	"quinta/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
	valkey   *cache.ValkeyClient
}

func NewHandlers(services *service.Services, valkey *cache.ValkeyClient) *Handlers {
	return &Handlers{
		services: services,
		valkey:   valkey,
	}
}

// respond writes the envelope with Status and Timestamp filled in.
func respond(c *gin.Context, status int, resp models.Response) {
	resp.Status = status
	resp.Timestamp = time.Now()
	c.JSON(status, resp)
}

// respondError maps the error taxonomy to HTTP status codes. Uncategorized
// errors become opaque 500s; the detail stays in the logs.
func respondError(c *gin.Context, err error) {
	var status int
	switch errors.KindOf(err) {
	case errors.KindValidation:
		status = http.StatusBadRequest
	case errors.KindNotFound:
		status = http.StatusNotFound
	case errors.KindConflict, errors.KindIntegrity:
		status = http.StatusConflict
	case errors.KindExternal:
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	if status >= 500 {
		slog.Error("Request failed", "error", err, "path", c.Request.URL.Path)
	}

	respond(c, status, models.Response{Message: errors.MessageOf(err)})
}

// callerID returns the authenticated user id set by the auth middleware.
func callerID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
