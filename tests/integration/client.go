package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"quinta/internal/models"
)

// Client is a thin HTTP client for exercising a running API instance.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(method, path string, body interface{}) (*models.Response, int, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var envelope models.Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return &envelope, resp.StatusCode, nil
}

func (c *Client) Register(req models.RegisterRequest) (*models.Response, int, error) {
	return c.do(http.MethodPost, "/api/auth/register", req)
}

func (c *Client) Login(req models.LoginRequest) (*models.Response, int, error) {
	return c.do(http.MethodPost, "/api/auth/login", req)
}

func (c *Client) ListRooms() (*models.Response, int, error) {
	return c.do(http.MethodGet, "/api/rooms", nil)
}

func (c *Client) ListAvailableRooms(checkIn, checkOut, roomType string) (*models.Response, int, error) {
	path := fmt.Sprintf("/api/rooms/available?check_in_date=%s&check_out_date=%s&room_type=%s",
		checkIn, checkOut, roomType)
	return c.do(http.MethodGet, path, nil)
}

func (c *Client) CreateBooking(req models.CreateBookingRequest) (*models.Response, int, error) {
	return c.do(http.MethodPost, "/api/bookings", req)
}

func (c *Client) GetBooking(reference string) (*models.Response, int, error) {
	return c.do(http.MethodGet, "/api/bookings/"+reference, nil)
}

func (c *Client) MyBookings() (*models.Response, int, error) {
	return c.do(http.MethodGet, "/api/bookings/mine", nil)
}

func (c *Client) Pay(req models.PaymentRequest) (*models.Response, int, error) {
	return c.do(http.MethodPost, "/api/payments/pay", req)
}

func (c *Client) ReportPayment(req models.PaymentRequest) (*models.Response, int, error) {
	return c.do(http.MethodPut, "/api/payments/update", req)
}
