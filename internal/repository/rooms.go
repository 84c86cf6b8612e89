package repository

import (
	"context"
	"database/sql"

	"quinta/internal/database"
	"quinta/internal/models"
)

type RoomRepository struct {
	db *database.DB
}

func NewRoomRepository(db *database.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

const roomColumns = `id, room_number, type, price_per_night, capacity, title, description`

func scanRoom(row interface{ Scan(...interface{}) error }, room *models.Room) error {
	return row.Scan(
		&room.ID,
		&room.RoomNumber,
		&room.Type,
		&room.PricePerNight,
		&room.Capacity,
		&room.Title,
		&room.Description,
	)
}

func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (room_number, type, price_per_night, capacity, title, description, image_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		room.RoomNumber,
		room.Type,
		room.PricePerNight,
		room.Capacity,
		room.Title,
		room.Description,
		room.ImageData,
	).Scan(&room.ID)
}

// GetByID returns the room without its image bytes; use GetImageData for
// the image endpoint.
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	room := &models.Room{}
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	err := scanRoom(r.db.QueryRowContext(ctx, query, id), room)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return room, err
}

func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY id DESC`
	return r.queryRooms(ctx, query)
}

// ListAvailable returns rooms with no active booking overlapping the
// inclusive [checkIn, checkOut] range. Empty roomType means any type.
func (r *RoomRepository) ListAvailable(ctx context.Context, checkIn, checkOut models.Date, roomType string) ([]models.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms r
		WHERE r.id NOT IN (
			SELECT b.room_id
			FROM bookings b
			WHERE $1 <= b.check_out_date
			  AND $2 >= b.check_in_date
			  AND b.status IN ('BOOKED', 'CHECKED_IN')
		)
		  AND ($3 = '' OR r.type = $3)
		ORDER BY r.id DESC`

	return r.queryRooms(ctx, query, checkIn, checkOut, roomType)
}

func (r *RoomRepository) queryRooms(ctx context.Context, query string, args ...interface{}) ([]models.Room, error) {
	var rooms []models.Room

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var room models.Room
		if err := scanRoom(rows, &room); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	query := `
		UPDATE rooms
		SET room_number = $1, type = $2, price_per_night = $3, capacity = $4,
		    title = $5, description = $6
		WHERE id = $7`

	_, err := r.db.ExecContext(ctx, query,
		room.RoomNumber,
		room.Type,
		room.PricePerNight,
		room.Capacity,
		room.Title,
		room.Description,
		room.ID,
	)
	return err
}

func (r *RoomRepository) UpdateImage(ctx context.Context, id int64, imageData []byte) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET image_data = $1 WHERE id = $2`, imageData, id)
	return err
}

func (r *RoomRepository) GetImageData(ctx context.Context, id int64) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT image_data FROM rooms WHERE id = $1`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return data, err
}

func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	return err
}
