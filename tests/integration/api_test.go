package integration

import (
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"quinta/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against a live instance; set API_BASE_URL to enable them.

func testClient(t *testing.T) *Client {
	t.Helper()
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		t.Skip("API_BASE_URL not set, skipping integration tests")
	}
	return NewClient(baseURL)
}

func registerAndLogin(t *testing.T, c *Client) {
	t.Helper()

	email := fmt.Sprintf("guest-%d@example.com", time.Now().UnixNano())
	_, status, err := c.Register(models.RegisterRequest{
		Email:       email,
		Password:    "secret123",
		FirstName:   "Ana",
		LastName:    "Souza",
		PhoneNumber: "+55 11 99999-0000",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)

	resp, status, err := c.Login(models.LoginRequest{Email: email, Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, resp.Token)

	c.SetToken(resp.Token)
}

func TestBookingFlow(t *testing.T) {
	c := testClient(t)
	registerAndLogin(t, c)

	rooms, status, err := c.ListRooms()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	if len(rooms.Rooms) == 0 {
		t.Skip("no rooms seeded, skipping booking flow")
	}

	checkIn := models.Date{Time: models.Today().AddDate(0, 0, 30)}
	checkOut := models.Date{Time: models.Today().AddDate(0, 0, 33)}

	created, status, err := c.CreateBooking(models.CreateBookingRequest{
		RoomID:       rooms.Rooms[0].ID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, created.Booking)

	reference := created.Booking.BookingReference
	assert.Len(t, reference, 10)

	// The booking is retrievable by its reference.
	found, status, err := c.GetBooking(reference)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, reference, found.Booking.BookingReference)

	// A second booking for the same room and range conflicts.
	_, status, err = c.CreateBooking(models.CreateBookingRequest{
		RoomID:       rooms.Rooms[0].ID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, status)

	// It appears in the caller's booking list.
	mine, status, err := c.MyBookings()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, mine.Bookings)
}

func TestPaymentReconciliation(t *testing.T) {
	c := testClient(t)
	registerAndLogin(t, c)

	rooms, status, err := c.ListRooms()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	if len(rooms.Rooms) == 0 {
		t.Skip("no rooms seeded, skipping payment flow")
	}

	created, status, err := c.CreateBooking(models.CreateBookingRequest{
		RoomID:       rooms.Rooms[0].ID,
		CheckInDate:  models.Date{Time: models.Today().AddDate(0, 0, 60)},
		CheckOutDate: models.Date{Time: models.Today().AddDate(0, 0, 62)},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)

	_, status, err = c.ReportPayment(models.PaymentRequest{
		BookingReference: created.Booking.BookingReference,
		Amount:           created.Booking.TotalPrice,
		TransactionID:    "pi_test_integration",
		Success:          true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	found, status, err := c.GetBooking(created.Booking.BookingReference)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.PaymentCompleted, found.Booking.PaymentStatus)
}

func TestUnknownReferenceIsNotFound(t *testing.T) {
	c := testClient(t)
	registerAndLogin(t, c)

	_, status, err := c.GetBooking("NOSUCHCODE")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)

	_, status, err = c.ReportPayment(models.PaymentRequest{
		BookingReference: "NOSUCHCODE",
		Amount:           100,
		Success:          true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
}
