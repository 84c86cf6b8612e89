package models

import "time"

// Response is the envelope every API endpoint returns. Status mirrors the
// HTTP status code; payload fields are set only when relevant.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`

	// Login
	Token          string `json:"token,omitempty"`
	Role           string `json:"role,omitempty"`
	ExpirationTime string `json:"expiration_time,omitempty"`

	User  *User  `json:"user,omitempty"`
	Users []User `json:"users,omitempty"`

	Booking  *Booking  `json:"booking,omitempty"`
	Bookings []Booking `json:"bookings,omitempty"`

	Room  *Room  `json:"room,omitempty"`
	Rooms []Room `json:"rooms,omitempty"`

	Payment  *Payment  `json:"payment,omitempty"`
	Payments []Payment `json:"payments,omitempty"`

	Notifications []Notification `json:"notifications,omitempty"`

	// Payment intent
	ClientSecret string `json:"client_secret,omitempty"`

	RoomTypes []string `json:"room_types,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// RegisterRequest creates a new account. Role defaults to CUSTOMER.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Role        string `json:"role,omitempty"`
}

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// UpdateAccountRequest patches the caller's own account. Nil means leave
// the field unchanged.
type UpdateAccountRequest struct {
	Email       *string `json:"email,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Password    *string `json:"password,omitempty"`
}

// CreateRoomRequest adds a room. The image arrives as a separate multipart
// part, not in this JSON.
type CreateRoomRequest struct {
	RoomNumber    int    `json:"room_number" binding:"required,min=1"`
	Type          string `json:"type" binding:"required"`
	PricePerNight Money  `json:"price_per_night" binding:"required"`
	Capacity      int    `json:"capacity" binding:"required,min=1"`
	Title         string `json:"title"`
	Description   string `json:"description"`
}

// UpdateRoomRequest patches a room. Nil means leave the field unchanged.
type UpdateRoomRequest struct {
	ID            int64   `json:"id" binding:"required"`
	RoomNumber    *int    `json:"room_number,omitempty"`
	Type          *string `json:"type,omitempty"`
	PricePerNight *Money  `json:"price_per_night,omitempty"`
	Capacity      *int    `json:"capacity,omitempty"`
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// CreateBookingRequest reserves a room for a date range.
type CreateBookingRequest struct {
	RoomID       int64 `json:"room_id" binding:"required"`
	CheckInDate  Date  `json:"check_in_date" binding:"required"`
	CheckOutDate Date  `json:"check_out_date" binding:"required"`
}

// UpdateBookingRequest patches booking state. Nil means leave unchanged.
type UpdateBookingRequest struct {
	ID            int64   `json:"id" binding:"required"`
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
}

// PaymentRequest drives both intent creation (reference + amount) and
// reconciliation (all fields), mirroring what the payment page posts back.
type PaymentRequest struct {
	BookingReference string `json:"booking_reference"`
	Amount           Money  `json:"amount"`
	TransactionID    string `json:"transaction_id,omitempty"`
	Success          bool   `json:"success,omitempty"`
	FailureReason    string `json:"failure_reason,omitempty"`
}
