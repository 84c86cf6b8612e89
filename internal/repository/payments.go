package repository

import (
	"context"

	"quinta/internal/database"
	"quinta/internal/models"
)

// PaymentRepository is an append-only audit trail: one row per payment
// attempt outcome.
type PaymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (booking_reference, user_id, gateway, transaction_id,
		                      amount, status, failure_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, payment_date`

	return r.db.QueryRowContext(ctx, query,
		payment.BookingReference,
		payment.UserID,
		payment.Gateway,
		payment.TransactionID,
		payment.Amount,
		payment.Status,
		payment.FailureReason,
	).Scan(&payment.ID, &payment.PaymentDate)
}

func (r *PaymentRepository) ListByReference(ctx context.Context, reference string) ([]models.Payment, error) {
	query := `
		SELECT id, booking_reference, user_id, gateway, transaction_id,
		       amount, status, failure_reason, payment_date
		FROM payments
		WHERE booking_reference = $1
		ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, reference)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		err := rows.Scan(
			&p.ID,
			&p.BookingReference,
			&p.UserID,
			&p.Gateway,
			&p.TransactionID,
			&p.Amount,
			&p.Status,
			&p.FailureReason,
			&p.PaymentDate,
		)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}
