package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"quinta/internal/logger"
	"quinta/internal/models"

	"github.com/gin-gonic/gin"
)

// withImageURLs fills in the image endpoint URL so listings never inline
// image bytes.
func withImageURLs(rooms []models.Room) []models.Room {
	for i := range rooms {
		rooms[i].ImageURL = fmt.Sprintf("/api/rooms/%d/image", rooms[i].ID)
	}
	return rooms
}

// roomFromMultipart reads the "room" JSON part and the optional "image"
// file part.
func roomFromMultipart(c *gin.Context, dst interface{}) ([]byte, error) {
	roomJSON := c.PostForm("room")
	if roomJSON == "" {
		return nil, fmt.Errorf("missing room part")
	}
	if err := json.Unmarshal([]byte(roomJSON), dst); err != nil {
		return nil, fmt.Errorf("invalid room payload: %w", err)
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid image part: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return data, nil
}

func (h *Handlers) invalidateRoomsCache(c *gin.Context) {
	if h.valkey == nil {
		return
	}
	if err := h.valkey.InvalidateRooms(c.Request.Context()); err != nil {
		logger.WithContext(c.Request.Context()).Error("Failed to invalidate rooms cache", "error", err)
	}
}

// CreateRoom - POST /api/rooms (admin, multipart)
func (h *Handlers) CreateRoom(c *gin.Context) {
	var req models.CreateRoomRequest
	imageData, err := roomFromMultipart(c, &req)
	if err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: err.Error()})
		return
	}

	room, err := h.services.Rooms.Create(c.Request.Context(), &req, imageData)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateRoomsCache(c)

	respond(c, http.StatusCreated, models.Response{
		Message: "room created successfully",
		Room:    room,
	})
}

// UpdateRoom - PUT /api/rooms (admin, multipart)
func (h *Handlers) UpdateRoom(c *gin.Context) {
	var req models.UpdateRoomRequest
	imageData, err := roomFromMultipart(c, &req)
	if err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: err.Error()})
		return
	}

	room, err := h.services.Rooms.Update(c.Request.Context(), &req, imageData)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateRoomsCache(c)

	respond(c, http.StatusOK, models.Response{
		Message: "room updated successfully",
		Room:    room,
	})
}

// ListRooms - GET /api/rooms
// The hottest read; served from Valkey when warm.
func (h *Handlers) ListRooms(c *gin.Context) {
	ctx := c.Request.Context()

	if h.valkey != nil {
		if raw, err := h.valkey.GetRoomsListRaw(ctx); err == nil {
			var rooms []models.Room
			if json.Unmarshal(raw, &rooms) == nil {
				respond(c, http.StatusOK, models.Response{Rooms: rooms})
				return
			}
		}
	}

	rooms, err := h.services.Rooms.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	rooms = withImageURLs(rooms)

	if h.valkey != nil {
		if raw, err := json.Marshal(rooms); err == nil {
			if err := h.valkey.SetRoomsListRaw(ctx, raw); err != nil {
				logger.WithContext(ctx).Error("Failed to cache rooms list", "error", err)
			}
		}
	}

	respond(c, http.StatusOK, models.Response{Rooms: rooms})
}

// GetRoom - GET /api/rooms/:id
func (h *Handlers) GetRoom(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: "invalid room id"})
		return
	}

	room, err := h.services.Rooms.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	room.ImageURL = fmt.Sprintf("/api/rooms/%d/image", room.ID)

	respond(c, http.StatusOK, models.Response{Room: room})
}

// GetRoomImage - GET /api/rooms/:id/image
func (h *Handlers) GetRoomImage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: "invalid room id"})
		return
	}

	data, err := h.services.Rooms.GetImage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

// ListAvailableRooms - GET /api/rooms/available
func (h *Handlers) ListAvailableRooms(c *gin.Context) {
	checkIn, err := models.ParseDate(c.Query("check_in_date"))
	if err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: "invalid check_in_date"})
		return
	}
	checkOut, err := models.ParseDate(c.Query("check_out_date"))
	if err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: "invalid check_out_date"})
		return
	}

	rooms, err := h.services.Rooms.ListAvailable(c.Request.Context(), checkIn, checkOut, c.Query("room_type"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{Rooms: withImageURLs(rooms)})
}

// ListRoomTypes - GET /api/rooms/types
func (h *Handlers) ListRoomTypes(c *gin.Context) {
	respond(c, http.StatusOK, models.Response{RoomTypes: h.services.Rooms.Types()})
}

// SearchRooms - GET /api/rooms/search?input=
func (h *Handlers) SearchRooms(c *gin.Context) {
	rooms, err := h.services.Rooms.Search(c.Request.Context(), c.Query("input"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, models.Response{Rooms: withImageURLs(rooms)})
}

// DeleteRoom - DELETE /api/rooms/:id (admin)
func (h *Handlers) DeleteRoom(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond(c, http.StatusBadRequest, models.Response{Message: "invalid room id"})
		return
	}

	if err := h.services.Rooms.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	h.invalidateRoomsCache(c)

	respond(c, http.StatusOK, models.Response{Message: "room deleted"})
}
