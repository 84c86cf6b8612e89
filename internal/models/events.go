package models

import "time"

// NATS subjects
const (
	EventBookingCreated        = "booking.created"
	EventPaymentCompleted      = "payment.completed"
	EventPaymentFailed         = "payment.failed"
	EventNotificationRequested = "notification.requested"
)

// BookingCreatedEvent is published after a booking row is committed.
type BookingCreatedEvent struct {
	BookingID        int64     `json:"booking_id"`
	BookingReference string    `json:"booking_reference"`
	RoomID           int64     `json:"room_id"`
	UserID           int64     `json:"user_id"`
	TotalPrice       Money     `json:"total_price"`
	Timestamp        time.Time `json:"timestamp"`
}

// PaymentCompletedEvent is published after a successful reconciliation.
type PaymentCompletedEvent struct {
	BookingReference string    `json:"booking_reference"`
	TransactionID    string    `json:"transaction_id"`
	Amount           Money     `json:"amount"`
	Timestamp        time.Time `json:"timestamp"`
}

// PaymentFailedEvent is published after a failed reconciliation.
type PaymentFailedEvent struct {
	BookingReference string    `json:"booking_reference"`
	TransactionID    string    `json:"transaction_id"`
	Reason           string    `json:"reason"`
	Timestamp        time.Time `json:"timestamp"`
}

// NotificationRequestedEvent asks the consumer binary to deliver an already
// persisted notification. The full message rides in the event so delivery
// needs no extra read.
type NotificationRequestedEvent struct {
	NotificationID   int64     `json:"notification_id"`
	Recipient        string    `json:"recipient"`
	Subject          string    `json:"subject"`
	Body             string    `json:"body"`
	BookingReference string    `json:"booking_reference,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}
