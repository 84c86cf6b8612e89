package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"quinta/internal/mail"
	"quinta/internal/metrics"
	"quinta/internal/models"
	"quinta/internal/repository"

	"github.com/nats-io/stan.go"
)

type Handlers struct {
	repos  *repository.Repositories
	mailer mail.Sender
}

func NewHandlers(repos *repository.Repositories, mailer mail.Sender) *Handlers {
	return &Handlers{
		repos:  repos,
		mailer: mailer,
	}
}

// HandleNotificationRequested delivers a persisted notification over SMTP.
// Delivery failures are not acked so the message redelivers after AckWait.
func (h *Handlers) HandleNotificationRequested(msg *stan.Msg) {
	var event models.NotificationRequestedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Error("Failed to unmarshal notification event", "error", err)
		// Malformed payloads never become deliverable; drop them.
		msg.Ack()
		return
	}

	// Events usually carry the full message; fall back to the audit row
	// for older producers that only sent the reference.
	if event.Body == "" && event.BookingReference != "" {
		if rows, err := h.repos.Notifications.ListByReference(context.Background(), event.BookingReference); err == nil {
			for _, n := range rows {
				if n.ID == event.NotificationID {
					event.Recipient = n.Recipient
					event.Subject = n.Subject
					event.Body = n.Body
				}
			}
		}
	}

	if err := h.mailer.Send(event.Recipient, event.Subject, event.Body); err != nil {
		slog.Error("Failed to deliver notification",
			"error", err,
			"notification_id", event.NotificationID,
			"recipient", event.Recipient)
		metrics.NotificationSent("failed")
		return
	}

	slog.Info("Notification delivered",
		"notification_id", event.NotificationID,
		"recipient", event.Recipient,
		"booking_reference", event.BookingReference)
	metrics.NotificationSent("delivered")

	msg.Ack()
}

func (h *Handlers) HandleBookingCreated(msg *stan.Msg) {
	var event models.BookingCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking created event", "error", err)
		msg.Ack()
		return
	}

	slog.Info("Booking created",
		"booking_id", event.BookingID,
		"booking_reference", event.BookingReference,
		"room_id", event.RoomID,
		"user_id", event.UserID,
		"total_price", event.TotalPrice)

	msg.Ack()
}

func (h *Handlers) HandlePaymentCompleted(msg *stan.Msg) {
	var event models.PaymentCompletedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Error("Failed to unmarshal payment completed event", "error", err)
		msg.Ack()
		return
	}

	slog.Info("Payment completed",
		"booking_reference", event.BookingReference,
		"transaction_id", event.TransactionID,
		"amount", event.Amount)

	msg.Ack()
}

func (h *Handlers) HandlePaymentFailed(msg *stan.Msg) {
	var event models.PaymentFailedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Error("Failed to unmarshal payment failed event", "error", err)
		msg.Ack()
		return
	}

	slog.Warn("Payment failed",
		"booking_reference", event.BookingReference,
		"transaction_id", event.TransactionID,
		"reason", event.Reason)

	msg.Ack()
}
