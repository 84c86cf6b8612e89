package service

import (
	"quinta/internal/config"
	"quinta/internal/external"
	"quinta/internal/messaging"
	"quinta/internal/repository"
	"quinta/internal/search"
)

// Publisher is the slice of the messaging client the services need.
// Publishing is best effort everywhere; a broker outage never fails a
// user-facing operation.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

type Services struct {
	Users         *UserService
	Rooms         *RoomService
	Bookings      *BookingService
	Payments      *PaymentService
	Notifications *NotificationService
	Resets        *PasswordResetService
}

func NewServices(cfg *config.Config, repos *repository.Repositories, natsClient *messaging.NATSClient, stripeClient *external.StripeClient, roomIndex *search.RoomIndex) *Services {
	notificationService := NewNotificationService(repos.Notifications, natsClient)
	referenceGenerator := NewReferenceGenerator(repos.References)

	userService := NewUserService(repos.Users, cfg.JWTSecret, cfg.JWTTTL, cfg.BcryptCost)
	roomService := NewRoomService(repos.Rooms, roomIndex)
	bookingService := NewBookingService(repos.Bookings, repos.Rooms, repos.Users, referenceGenerator, notificationService, natsClient, cfg.FrontendURL)
	paymentService := NewPaymentService(repos.Payments, repos.Bookings, repos.Users, stripeClient, notificationService, natsClient)
	resetService := NewPasswordResetService(repos.ResetTokens, repos.Users, notificationService, cfg.FrontendURL, cfg.BcryptCost)

	return &Services{
		Users:         userService,
		Rooms:         roomService,
		Bookings:      bookingService,
		Payments:      paymentService,
		Notifications: notificationService,
		Resets:        resetService,
	}
}
