package models

import (
	"time"
)

// User roles
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// Room types
const (
	RoomStandard = "STANDARD"
	RoomDeluxe   = "DELUXE"
	RoomSuite    = "SUITE"
	RoomFamily   = "FAMILY"
)

// RoomTypes lists the valid room categories.
var RoomTypes = []string{RoomStandard, RoomDeluxe, RoomSuite, RoomFamily}

// Booking statuses. BOOKED and CHECKED_IN block room availability.
const (
	BookingBooked    = "BOOKED"
	BookingCheckedIn = "CHECKED_IN"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
)

// Payment statuses
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
)

// Payment gateways
const GatewayStripe = "STRIPE"

// Notification types
const NotificationEmail = "EMAIL"

// User represents a registered account.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	PhoneNumber  string    `json:"phone_number" db:"phone_number"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Room represents a bookable hotel room. ImageData is lazily fetched and
// never inlined in listings; listings carry an image URL instead.
type Room struct {
	ID            int64  `json:"id" db:"id"`
	RoomNumber    int    `json:"room_number" db:"room_number"`
	Type          string `json:"type" db:"type"`
	PricePerNight Money  `json:"price_per_night" db:"price_per_night"`
	Capacity      int    `json:"capacity" db:"capacity"`
	Title         string `json:"title" db:"title"`
	Description   string `json:"description" db:"description"`
	ImageData     []byte `json:"-" db:"image_data"`
	ImageURL      string `json:"image_url,omitempty" db:"-"`
}

// Booking represents a reservation for a room over [check-in, check-out).
type Booking struct {
	ID               int64     `json:"id" db:"id"`
	UserID           int64     `json:"user_id" db:"user_id"`
	RoomID           int64     `json:"room_id" db:"room_id"`
	CheckInDate      Date      `json:"check_in_date" db:"check_in_date"`
	CheckOutDate     Date      `json:"check_out_date" db:"check_out_date"`
	TotalPrice       Money     `json:"total_price" db:"total_price"`
	BookingReference string    `json:"booking_reference" db:"booking_reference"`
	Status           string    `json:"status" db:"status"`
	PaymentStatus    string    `json:"payment_status" db:"payment_status"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`

	// Resolved relations, filled by lookups that join them.
	User *User `json:"user,omitempty" db:"-"`
	Room *Room `json:"room,omitempty" db:"-"`
}

// IsActive reports whether the booking blocks room availability.
func (b *Booking) IsActive() bool {
	return b.Status == BookingBooked || b.Status == BookingCheckedIn
}

// Payment is one append-only row per payment attempt outcome.
type Payment struct {
	ID               int64     `json:"id" db:"id"`
	BookingReference string    `json:"booking_reference" db:"booking_reference"`
	UserID           int64     `json:"user_id" db:"user_id"`
	Gateway          string    `json:"gateway" db:"gateway"`
	TransactionID    string    `json:"transaction_id" db:"transaction_id"`
	Amount           Money     `json:"amount" db:"amount"`
	Status           string    `json:"status" db:"status"`
	FailureReason    *string   `json:"failure_reason,omitempty" db:"failure_reason"`
	PaymentDate      time.Time `json:"payment_date" db:"payment_date"`
}

// Notification is an append-only audit row for an outbound message,
// persisted whether or not delivery later succeeds.
type Notification struct {
	ID               int64     `json:"id" db:"id"`
	Recipient        string    `json:"recipient" db:"recipient"`
	Subject          string    `json:"subject" db:"subject"`
	Body             string    `json:"body" db:"body"`
	BookingReference string    `json:"booking_reference,omitempty" db:"booking_reference"`
	Type             string    `json:"type" db:"type"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// PasswordResetToken is a single-use, time-limited reset credential.
type PasswordResetToken struct {
	ID        int64     `json:"-" db:"id"`
	UserID    int64     `json:"-" db:"user_id"`
	Token     string    `json:"-" db:"token"`
	ExpiresAt time.Time `json:"-" db:"expires_at"`
	Used      bool      `json:"-" db:"used"`
}

// IsExpired reports whether the token has passed its expiry.
func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
