package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"quinta/internal/models"
	"quinta/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal in-memory stores; the booking endpoints are exercised end to end
// through the router to pin down the error-to-status mapping.

type memBookings struct {
	bookings []*models.Booking
	nextID   int64
}

func (m *memBookings) Create(_ context.Context, b *models.Booking) error {
	m.nextID++
	b.ID = m.nextID
	clone := *b
	m.bookings = append(m.bookings, &clone)
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id int64) (*models.Booking, error) {
	for _, b := range m.bookings {
		if b.ID == id {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memBookings) GetByReference(_ context.Context, reference string) (*models.Booking, error) {
	for _, b := range m.bookings {
		if b.BookingReference == reference {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memBookings) IsRoomAvailable(_ context.Context, roomID int64, checkIn, checkOut models.Date) (bool, error) {
	for _, b := range m.bookings {
		if b.RoomID != roomID || !b.IsActive() {
			continue
		}
		if !checkIn.After(b.CheckOutDate.Time) && !checkOut.Before(b.CheckInDate.Time) {
			return false, nil
		}
	}
	return true, nil
}

func (m *memBookings) ListByUser(_ context.Context, userID int64) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBookings) ListAll(_ context.Context) ([]models.Booking, error) {
	out := make([]models.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (m *memBookings) Update(_ context.Context, b *models.Booking) error {
	for i, existing := range m.bookings {
		if existing.ID == b.ID {
			clone := *b
			m.bookings[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("booking %d not found", b.ID)
}

type memRooms struct{ rooms map[int64]*models.Room }

func (m *memRooms) GetByID(_ context.Context, id int64) (*models.Room, error) {
	room, ok := m.rooms[id]
	if !ok {
		return nil, nil
	}
	clone := *room
	return &clone, nil
}

type memUsers struct{ users map[int64]*models.User }

func (m *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

type memRefs struct{ saved map[string]bool }

func (m *memRefs) Exists(_ context.Context, code string) (bool, error) { return m.saved[code], nil }
func (m *memRefs) Save(_ context.Context, code string) error {
	if m.saved == nil {
		m.saved = map[string]bool{}
	}
	m.saved[code] = true
	return nil
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, *models.Notification) error { return nil }

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) error { return nil }

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	price, err := models.ParseMoney("100.00")
	require.NoError(t, err)

	bookings := &memBookings{}
	rooms := &memRooms{rooms: map[int64]*models.Room{
		1: {ID: 1, RoomNumber: 101, Type: models.RoomStandard, PricePerNight: price, Capacity: 2},
	}}
	users := &memUsers{users: map[int64]*models.User{
		7: {ID: 7, Email: "guest@example.com", Role: models.RoleCustomer, IsActive: true},
	}}

	bookingService := service.NewBookingService(bookings, rooms, users,
		service.NewReferenceGenerator(&memRefs{}),
		nopNotifier{}, nopPublisher{}, "http://localhost:3000")

	h := NewHandlers(&service.Services{Bookings: bookingService}, nil)

	r := gin.New()
	api := r.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set("user_id", int64(7))
		c.Next()
	})
	api.POST("/bookings", h.CreateBooking)
	api.GET("/bookings/mine", h.ListMyBookings)
	api.GET("/bookings/:reference", h.GetBookingByReference)

	return r
}

func futureDate(days int) models.Date {
	return models.Date{Time: models.Today().AddDate(0, 0, days)}
}

func postBooking(t *testing.T, r *gin.Engine, req models.CreateBookingRequest) (*httptest.ResponseRecorder, models.Response) {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)

	var resp models.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestCreateBookingEndpoint(t *testing.T) {
	r := setupRouter(t)

	w, resp := postBooking(t, r, models.CreateBookingRequest{
		RoomID:       1,
		CheckInDate:  futureDate(10),
		CheckOutDate: futureDate(13),
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, resp.Booking)
	assert.Equal(t, models.BookingBooked, resp.Booking.Status)
	assert.Equal(t, "300.00", resp.Booking.TotalPrice.String())
	assert.Len(t, resp.Booking.BookingReference, 10)
}

func TestCreateBookingEndpointInvalidDates(t *testing.T) {
	r := setupRouter(t)

	w, resp := postBooking(t, r, models.CreateBookingRequest{
		RoomID:       1,
		CheckInDate:  futureDate(5),
		CheckOutDate: futureDate(5),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Message, "check-out")
}

func TestCreateBookingEndpointUnknownRoom(t *testing.T) {
	r := setupRouter(t)

	w, _ := postBooking(t, r, models.CreateBookingRequest{
		RoomID:       99,
		CheckInDate:  futureDate(1),
		CheckOutDate: futureDate(2),
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBookingEndpointOverlap(t *testing.T) {
	r := setupRouter(t)

	w, _ := postBooking(t, r, models.CreateBookingRequest{
		RoomID:       1,
		CheckInDate:  futureDate(10),
		CheckOutDate: futureDate(13),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := postBooking(t, r, models.CreateBookingRequest{
		RoomID:       1,
		CheckInDate:  futureDate(12),
		CheckOutDate: futureDate(15),
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, resp.Message, "not available")
}

func TestGetBookingByReferenceEndpoint(t *testing.T) {
	r := setupRouter(t)

	w, created := postBooking(t, r, models.CreateBookingRequest{
		RoomID:       1,
		CheckInDate:  futureDate(1),
		CheckOutDate: futureDate(2),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+created.Booking.BookingReference, nil)
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/bookings/NOSUCHCODE", nil)
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
