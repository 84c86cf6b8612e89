package repository

import (
	"quinta/internal/database"
)

type Repositories struct {
	Users         *UserRepository
	Rooms         *RoomRepository
	Bookings      *BookingRepository
	References    *ReferenceRepository
	Payments      *PaymentRepository
	Notifications *NotificationRepository
	ResetTokens   *ResetTokenRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Rooms:         NewRoomRepository(db),
		Bookings:      NewBookingRepository(db),
		References:    NewReferenceRepository(db),
		Payments:      NewPaymentRepository(db),
		Notifications: NewNotificationRepository(db),
		ResetTokens:   NewResetTokenRepository(db),
	}
}
