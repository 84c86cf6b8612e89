package service

import (
	"context"
	"fmt"
	"time"

	"quinta/internal/errors"
	"quinta/internal/logger"
	"quinta/internal/metrics"
	"quinta/internal/models"
)

// PaymentStore appends payment attempt rows and lists them for audit.
type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	ListByReference(ctx context.Context, reference string) ([]models.Payment, error)
}

// Gateway creates payment intents with the external payment provider.
type Gateway interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, bookingReference string) (string, error)
}

type PaymentService struct {
	paymentRepo PaymentStore
	bookingRepo BookingStore
	userRepo    UserStore
	gateway     Gateway
	notifier    Notifier
	publisher   Publisher
}

func NewPaymentService(paymentRepo PaymentStore, bookingRepo BookingStore, userRepo UserStore, gateway Gateway, notifier Notifier, publisher Publisher) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		notifier:    notifier,
		publisher:   publisher,
	}
}

// CreateIntent asks the gateway for a payment intent and returns the client
// secret the payment page confirms against. Amounts reach the gateway in
// minor currency units.
func (s *PaymentService) CreateIntent(ctx context.Context, req *models.PaymentRequest) (string, error) {
	if req.BookingReference == "" {
		return "", errors.Validation("booking reference must not be blank")
	}
	if req.Amount <= 0 {
		return "", errors.Validation("payment amount must be positive")
	}

	booking, err := s.bookingRepo.GetByReference(ctx, req.BookingReference)
	if err != nil {
		return "", errors.Internal(fmt.Errorf("failed to get booking: %w", err))
	}
	if booking == nil {
		return "", errors.NotFound(fmt.Sprintf("booking with reference %s not found", req.BookingReference))
	}
	if booking.PaymentStatus == models.PaymentCompleted {
		return "", errors.Conflict("payment has already been completed for this booking")
	}

	secret, err := s.gateway.CreateIntent(ctx, req.Amount.Cents(), req.BookingReference)
	if err != nil {
		return "", errors.External("failed to create payment intent", err)
	}
	return secret, nil
}

// Reconcile records the outcome the payment page reports back. A payment
// row is appended per attempt; the booking's payment status follows the
// latest outcome. No row is written when the reference is unknown.
func (s *PaymentService) Reconcile(ctx context.Context, req *models.PaymentRequest) error {
	if req.BookingReference == "" {
		return errors.Validation("booking reference must not be blank")
	}

	booking, err := s.bookingRepo.GetByReference(ctx, req.BookingReference)
	if err != nil {
		return errors.Internal(fmt.Errorf("failed to get booking: %w", err))
	}
	if booking == nil {
		return errors.NotFound(fmt.Sprintf("booking with reference %s not found", req.BookingReference))
	}

	status := models.PaymentFailed
	if req.Success {
		status = models.PaymentCompleted
	}

	payment := &models.Payment{
		BookingReference: req.BookingReference,
		UserID:           booking.UserID,
		Gateway:          models.GatewayStripe,
		TransactionID:    req.TransactionID,
		Amount:           req.Amount,
		Status:           status,
	}
	if !req.Success && req.FailureReason != "" {
		reason := req.FailureReason
		payment.FailureReason = &reason
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return errors.Internal(fmt.Errorf("failed to record payment: %w", err))
	}

	booking.PaymentStatus = status
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return errors.Internal(fmt.Errorf("failed to update booking payment status: %w", err))
	}

	if req.Success {
		metrics.PaymentProcessed("completed")
		s.publishOutcome(ctx, models.EventPaymentCompleted, models.PaymentCompletedEvent{
			BookingReference: req.BookingReference,
			TransactionID:    req.TransactionID,
			Amount:           req.Amount,
			Timestamp:        time.Now(),
		})
	} else {
		metrics.PaymentProcessed("failed")
		s.publishOutcome(ctx, models.EventPaymentFailed, models.PaymentFailedEvent{
			BookingReference: req.BookingReference,
			TransactionID:    req.TransactionID,
			Reason:           req.FailureReason,
			Timestamp:        time.Now(),
		})
	}

	s.sendOutcomeEmail(ctx, booking, req)

	return nil
}

func (s *PaymentService) publishOutcome(ctx context.Context, subject string, event interface{}) {
	if err := s.publisher.Publish(subject, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish payment event",
			"error", err, "subject", subject)
	}
}

// sendOutcomeEmail notifies the booking owner. Failure to notify never
// fails the reconciliation.
func (s *PaymentService) sendOutcomeEmail(ctx context.Context, booking *models.Booking, req *models.PaymentRequest) {
	email := ""
	if booking.User != nil {
		email = booking.User.Email
	} else if user, err := s.userRepo.GetByID(ctx, booking.UserID); err == nil && user != nil {
		email = user.Email
	}
	if email == "" {
		logger.WithContext(ctx).Error("Failed to resolve booking owner for payment email",
			"booking_reference", booking.BookingReference)
		return
	}

	var subject, body string
	if req.Success {
		subject = "PAYMENT SUCCESSFUL"
		body = fmt.Sprintf(
			"Congratulations, your payment for booking with reference %s was successful.\n"+
				"Check-in: %s\nCheck-out: %s\nAmount paid: %s\n",
			booking.BookingReference, booking.CheckInDate, booking.CheckOutDate, req.Amount)
	} else {
		subject = "PAYMENT FAILED"
		body = fmt.Sprintf("Your payment for booking with reference %s failed.\nReason: %s",
			booking.BookingReference, req.FailureReason)
	}

	if err := s.notifier.Notify(ctx, &models.Notification{
		Recipient:        email,
		Subject:          subject,
		Body:             body,
		BookingReference: booking.BookingReference,
		Type:             models.NotificationEmail,
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to send payment outcome email",
			"error", err, "booking_reference", booking.BookingReference)
	}
}

// ListByReference returns the payment attempt history for a booking.
func (s *PaymentService) ListByReference(ctx context.Context, reference string) ([]models.Payment, error) {
	if reference == "" {
		return nil, errors.Validation("booking reference must not be blank")
	}
	payments, err := s.paymentRepo.ListByReference(ctx, reference)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to list payments: %w", err))
	}
	return payments, nil
}
