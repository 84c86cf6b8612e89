package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"quinta/internal/errors"
	"quinta/internal/logger"
	"quinta/internal/metrics"
	"quinta/internal/models"
	"quinta/internal/repository"
)

// BookingStore is the slice of the booking repository the service needs.
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	GetByReference(ctx context.Context, reference string) (*models.Booking, error)
	IsRoomAvailable(ctx context.Context, roomID int64, checkIn, checkOut models.Date) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
}

// RoomStore resolves rooms for booking validation and pricing.
type RoomStore interface {
	GetByID(ctx context.Context, id int64) (*models.Room, error)
}

// UserStore resolves the booking owner for confirmation emails.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// ReferenceMinter mints unique booking reference codes.
type ReferenceMinter interface {
	Next(ctx context.Context) (string, error)
}

// Notifier records and dispatches outbound notifications.
type Notifier interface {
	Notify(ctx context.Context, n *models.Notification) error
}

type BookingService struct {
	bookingRepo BookingStore
	roomRepo    RoomStore
	userRepo    UserStore
	references  ReferenceMinter
	notifier    Notifier
	publisher   Publisher
	frontendURL string
}

func NewBookingService(bookingRepo BookingStore, roomRepo RoomStore, userRepo UserStore, references ReferenceMinter, notifier Notifier, publisher Publisher, frontendURL string) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		userRepo:    userRepo,
		references:  references,
		notifier:    notifier,
		publisher:   publisher,
		frontendURL: frontendURL,
	}
}

// validateDateRange enforces the booking date rules: check-in today or
// later, check-out strictly after check-in.
func validateDateRange(checkIn, checkOut models.Date) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return errors.Validation("check-in and check-out dates are required")
	}
	if checkIn.Before(models.Today().Time) {
		return errors.Validation("check-in date must not be in the past")
	}
	if !checkOut.After(checkIn.Time) {
		return errors.Validation("check-out date must be after check-in date")
	}
	return nil
}

// Create reserves a room for the caller over the requested date range.
// The total price is the room's nightly rate times the number of nights,
// where the check-out day itself is not charged.
func (s *BookingService) Create(ctx context.Context, userID int64, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := validateDateRange(req.CheckInDate, req.CheckOutDate); err != nil {
		return nil, err
	}

	room, err := s.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to get room: %w", err))
	}
	if room == nil {
		return nil, errors.NotFound("room not found")
	}

	available, err := s.bookingRepo.IsRoomAvailable(ctx, req.RoomID, req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to check availability: %w", err))
	}
	if !available {
		return nil, errors.Conflict("room is not available for the selected date range")
	}

	nights := req.CheckInDate.DaysUntil(req.CheckOutDate)
	totalPrice := room.PricePerNight * models.Money(nights)

	reference, err := s.references.Next(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}

	booking := &models.Booking{
		UserID:           userID,
		RoomID:           req.RoomID,
		CheckInDate:      req.CheckInDate,
		CheckOutDate:     req.CheckOutDate,
		TotalPrice:       totalPrice,
		BookingReference: reference,
		Status:           models.BookingBooked,
		PaymentStatus:    models.PaymentPending,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		// Two requests can pass the availability check concurrently; the
		// storage-level exclusion constraint decides the winner.
		if repository.IsExclusionViolation(err) {
			return nil, errors.Conflict("room is not available for the selected date range")
		}
		return nil, errors.Internal(fmt.Errorf("failed to create booking: %w", err))
	}

	metrics.BookingCreated()

	if err := s.publisher.Publish(models.EventBookingCreated, models.BookingCreatedEvent{
		BookingID:        booking.ID,
		BookingReference: booking.BookingReference,
		RoomID:           booking.RoomID,
		UserID:           booking.UserID,
		TotalPrice:       booking.TotalPrice,
		Timestamp:        time.Now(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish booking created event",
			"error", err, "booking_reference", booking.BookingReference)
	}

	s.sendConfirmation(ctx, booking)

	return booking, nil
}

// sendConfirmation emails the payment link. Failure to notify never fails
// the booking.
func (s *BookingService) sendConfirmation(ctx context.Context, booking *models.Booking) {
	user, err := s.userRepo.GetByID(ctx, booking.UserID)
	if err != nil || user == nil {
		logger.WithContext(ctx).Error("Failed to resolve booking owner for confirmation",
			"error", err, "user_id", booking.UserID)
		return
	}

	paymentLink := fmt.Sprintf("%s/payment/%s/%s",
		s.frontendURL, booking.BookingReference, booking.TotalPrice)

	body := fmt.Sprintf(
		"Your booking has been created successfully.\n"+
			"Your booking reference is: %s\n"+
			"Check-in: %s\nCheck-out: %s\nTotal: %s\n\n"+
			"Please complete your payment using the link below:\n%s\n",
		booking.BookingReference, booking.CheckInDate, booking.CheckOutDate,
		booking.TotalPrice, paymentLink)

	if err := s.notifier.Notify(ctx, &models.Notification{
		Recipient:        user.Email,
		Subject:          "BOOKING CONFIRMATION",
		Body:             body,
		BookingReference: booking.BookingReference,
		Type:             models.NotificationEmail,
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to send booking confirmation",
			"error", err, "booking_reference", booking.BookingReference)
	}
}

func (s *BookingService) FindByReference(ctx context.Context, reference string) (*models.Booking, error) {
	if reference == "" {
		return nil, errors.Validation("booking reference must not be blank")
	}

	booking, err := s.bookingRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to get booking: %w", err))
	}
	if booking == nil {
		return nil, errors.NotFound(fmt.Sprintf("booking with reference %s not found", reference))
	}
	return booking, nil
}

var bookingStatuses = []string{
	models.BookingBooked, models.BookingCheckedIn,
	models.BookingCancelled, models.BookingCompleted,
}

var paymentStatuses = []string{
	models.PaymentPending, models.PaymentCompleted, models.PaymentFailed,
}

// Update patches booking state. Nil fields keep their current value.
func (s *BookingService) Update(ctx context.Context, req *models.UpdateBookingRequest) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to get booking: %w", err))
	}
	if booking == nil {
		return nil, errors.NotFound("booking not found")
	}

	if req.Status != nil {
		if !slices.Contains(bookingStatuses, *req.Status) {
			return nil, errors.Validation(fmt.Sprintf("invalid booking status %q", *req.Status))
		}
		booking.Status = *req.Status
	}
	if req.PaymentStatus != nil {
		if !slices.Contains(paymentStatuses, *req.PaymentStatus) {
			return nil, errors.Validation(fmt.Sprintf("invalid payment status %q", *req.PaymentStatus))
		}
		booking.PaymentStatus = *req.PaymentStatus
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		if repository.IsExclusionViolation(err) {
			return nil, errors.Conflict("room is not available for the selected date range")
		}
		return nil, errors.Internal(fmt.Errorf("failed to update booking: %w", err))
	}
	return booking, nil
}

func (s *BookingService) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to list bookings: %w", err))
	}
	return bookings, nil
}

func (s *BookingService) ListAll(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to list bookings: %w", err))
	}
	return bookings, nil
}
