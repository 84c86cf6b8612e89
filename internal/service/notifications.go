package service

import (
	"context"
	"fmt"
	"time"

	"quinta/internal/errors"
	"quinta/internal/logger"
	"quinta/internal/models"
	"quinta/internal/repository"
)

// NotificationService persists every outbound message before asking the
// consumer binary to deliver it. The audit row survives delivery failures.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	publisher        Publisher
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, publisher Publisher) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
	}
}

// Notify records the notification and requests asynchronous delivery.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) error {
	if n.Type == "" {
		n.Type = models.NotificationEmail
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	if err := s.publisher.Publish(models.EventNotificationRequested, models.NotificationRequestedEvent{
		NotificationID:   n.ID,
		Recipient:        n.Recipient,
		Subject:          n.Subject,
		Body:             n.Body,
		BookingReference: n.BookingReference,
		Timestamp:        time.Now(),
	}); err != nil {
		// The row is already persisted; delivery can be replayed later.
		logger.WithContext(ctx).Error("Failed to request notification delivery",
			"error", err, "notification_id", n.ID)
	}

	return nil
}

// ListByReference returns the notification audit trail for a booking.
func (s *NotificationService) ListByReference(ctx context.Context, reference string) ([]models.Notification, error) {
	if reference == "" {
		return nil, errors.Validation("booking reference must not be blank")
	}
	notifications, err := s.notificationRepo.ListByReference(ctx, reference)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to list notifications: %w", err))
	}
	return notifications, nil
}
