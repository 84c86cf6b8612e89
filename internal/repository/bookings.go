package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"quinta/internal/database"
	"quinta/internal/models"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, user_id, room_id, check_in_date, check_out_date, total_price,
       booking_reference, status, payment_status, created_at`

func scanBooking(row interface{ Scan(...interface{}) error }, b *models.Booking) error {
	return row.Scan(
		&b.ID,
		&b.UserID,
		&b.RoomID,
		&b.CheckInDate,
		&b.CheckOutDate,
		&b.TotalPrice,
		&b.BookingReference,
		&b.Status,
		&b.PaymentStatus,
		&b.CreatedAt,
	)
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (user_id, room_id, check_in_date, check_out_date,
		                      total_price, booking_reference, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		booking.UserID,
		booking.RoomID,
		booking.CheckInDate,
		booking.CheckOutDate,
		booking.TotalPrice,
		booking.BookingReference,
		booking.Status,
		booking.PaymentStatus,
	).Scan(&booking.ID, &booking.CreatedAt)
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	err := scanBooking(r.db.QueryRowContext(ctx, query, id), booking)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return booking, err
}

// GetByReference returns the booking with its user and room resolved in one
// round trip. Image bytes are not selected; the room carries a URL instead.
func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*models.Booking, error) {
	booking := &models.Booking{User: &models.User{}, Room: &models.Room{}}
	query := `
		SELECT b.id, b.user_id, b.room_id, b.check_in_date, b.check_out_date,
		       b.total_price, b.booking_reference, b.status, b.payment_status, b.created_at,
		       u.id, u.email, u.first_name, u.last_name, u.phone_number, u.role, u.is_active, u.created_at,
		       r.id, r.room_number, r.type, r.price_per_night, r.capacity, r.title, r.description
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		JOIN rooms r ON r.id = b.room_id
		WHERE b.booking_reference = $1`

	err := r.db.QueryRowContext(ctx, query, reference).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.RoomID,
		&booking.CheckInDate,
		&booking.CheckOutDate,
		&booking.TotalPrice,
		&booking.BookingReference,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.CreatedAt,
		&booking.User.ID,
		&booking.User.Email,
		&booking.User.FirstName,
		&booking.User.LastName,
		&booking.User.PhoneNumber,
		&booking.User.Role,
		&booking.User.IsActive,
		&booking.User.CreatedAt,
		&booking.Room.ID,
		&booking.Room.RoomNumber,
		&booking.Room.Type,
		&booking.Room.PricePerNight,
		&booking.Room.Capacity,
		&booking.Room.Title,
		&booking.Room.Description,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	return booking, err
}

// IsRoomAvailable reports whether no active booking for the room overlaps
// the requested range. The predicate is deliberately inclusive on both
// boundaries: a request starting the day an existing stay ends is a
// conflict. Same-day turnover is not sold.
func (r *BookingRepository) IsRoomAvailable(ctx context.Context, roomID int64, checkIn, checkOut models.Date) (bool, error) {
	var available bool
	query := `
		SELECT NOT EXISTS (
			SELECT 1 FROM bookings
			WHERE room_id = $1
			  AND status IN ('BOOKED', 'CHECKED_IN')
			  AND $2 <= check_out_date
			  AND $3 >= check_in_date
		)`

	err := r.db.QueryRowContext(ctx, query, roomID, checkIn, checkOut).Scan(&available)
	return available, err
}

// ListByUser returns the user's booking history, newest first, as a
// flattened join so room image bytes never load.
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	query := `
		SELECT b.id, b.user_id, b.room_id, b.check_in_date, b.check_out_date,
		       b.total_price, b.booking_reference, b.status, b.payment_status, b.created_at,
		       r.room_number, r.type, r.price_per_night, r.capacity, r.title, r.description
		FROM bookings b
		JOIN rooms r ON r.id = b.room_id
		WHERE b.user_id = $1
		ORDER BY b.id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking := models.Booking{Room: &models.Room{}}
		err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.RoomID,
			&booking.CheckInDate,
			&booking.CheckOutDate,
			&booking.TotalPrice,
			&booking.BookingReference,
			&booking.Status,
			&booking.PaymentStatus,
			&booking.CreatedAt,
			&booking.Room.RoomNumber,
			&booking.Room.Type,
			&booking.Room.PricePerNight,
			&booking.Room.Capacity,
			&booking.Room.Title,
			&booking.Room.Description,
		)
		if err != nil {
			return nil, err
		}
		booking.Room.ID = booking.RoomID
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// ListAll returns every booking, newest first. Legacy rows with missing
// status or price are patched with safe defaults in SQL; rows that still
// fail to scan are skipped so one bad row cannot break the admin listing.
func (r *BookingRepository) ListAll(ctx context.Context) ([]models.Booking, error) {
	query := `
		SELECT b.id, b.user_id, b.room_id, b.check_in_date, b.check_out_date,
		       COALESCE(NULLIF(b.total_price, 0),
		                r.price_per_night * (b.check_out_date - b.check_in_date)),
		       b.booking_reference,
		       COALESCE(NULLIF(b.status, ''), 'BOOKED'),
		       COALESCE(NULLIF(b.payment_status, ''), 'PENDING'),
		       b.created_at
		FROM bookings b
		JOIN rooms r ON r.id = b.room_id
		ORDER BY b.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		if err := scanBooking(rows, &booking); err != nil {
			slog.Warn("Skipping malformed booking row in admin listing", "error", err)
			continue
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, payment_status = $2, total_price = $3
		WHERE id = $4`

	_, err := r.db.ExecContext(ctx, query,
		booking.Status,
		booking.PaymentStatus,
		booking.TotalPrice,
		booking.ID,
	)
	return err
}
