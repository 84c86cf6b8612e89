package repository

import (
	"context"

	"quinta/internal/database"
	"quinta/internal/models"
)

// NotificationRepository is the append-only log of outbound messages,
// written before any delivery attempt.
type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (recipient, subject, body, booking_reference, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		n.Recipient,
		n.Subject,
		n.Body,
		n.BookingReference,
		n.Type,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *NotificationRepository) ListByReference(ctx context.Context, reference string) ([]models.Notification, error) {
	query := `
		SELECT id, recipient, subject, body, booking_reference, type, created_at
		FROM notifications
		WHERE booking_reference = $1
		ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, reference)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(
			&n.ID,
			&n.Recipient,
			&n.Subject,
			&n.Body,
			&n.BookingReference,
			&n.Type,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}
