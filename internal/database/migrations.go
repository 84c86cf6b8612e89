package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createRoomsTable,
		createBookingsTable,
		createBookingOverlapConstraint,
		createBookingReferencesTable,
		createPaymentsTable,
		createNotificationsTable,
		createPasswordResetTokensTable,
		createBookingsUserIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(100) NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL,
    phone_number VARCHAR(40) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'CUSTOMER',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (role IN ('CUSTOMER', 'ADMIN'))
);`

const createRoomsTable = `
CREATE TABLE IF NOT EXISTS rooms (
    id SERIAL PRIMARY KEY,
    room_number INTEGER UNIQUE NOT NULL,
    type VARCHAR(20) NOT NULL,
    price_per_night BIGINT NOT NULL,
    capacity INTEGER NOT NULL,
    title VARCHAR(255) NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    image_data BYTEA,

    CHECK (type IN ('STANDARD', 'DELUXE', 'SUITE', 'FAMILY')),
    CHECK (price_per_night > 0),
    CHECK (capacity > 0)
);`

// Bookings reference rooms without ON DELETE CASCADE: a room with bookings
// must not be deletable, and the FK violation maps to an integrity error.
const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    room_id INTEGER NOT NULL REFERENCES rooms(id),
    check_in_date DATE NOT NULL,
    check_out_date DATE NOT NULL,
    total_price BIGINT NOT NULL DEFAULT 0,
    booking_reference VARCHAR(20) UNIQUE NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'BOOKED',
    payment_status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (check_in_date < check_out_date),
    CHECK (status IN ('BOOKED', 'CHECKED_IN', 'CANCELLED', 'COMPLETED')),
    CHECK (payment_status IN ('PENDING', 'COMPLETED', 'FAILED'))
);`

// The availability check and insert are separate statements, so two
// concurrent bookings can both pass the check. This constraint is the
// authoritative guard: active bookings for the same room must not hold
// overlapping inclusive date ranges. The '[]' bounds match the application
// predicate, which treats back-to-back same-day turnover as a conflict.
const createBookingOverlapConstraint = `
CREATE EXTENSION IF NOT EXISTS btree_gist;
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap'
    ) THEN
        ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
            EXCLUDE USING gist (
                room_id WITH =,
                daterange(check_in_date, check_out_date, '[]') WITH &&
            )
            WHERE (status IN ('BOOKED', 'CHECKED_IN'));
    END IF;
END $$;`

const createBookingReferencesTable = `
CREATE TABLE IF NOT EXISTS booking_references (
    id SERIAL PRIMARY KEY,
    code VARCHAR(20) UNIQUE NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createPaymentsTable = `
CREATE TABLE IF NOT EXISTS payments (
    id SERIAL PRIMARY KEY,
    booking_reference VARCHAR(20) NOT NULL,
    user_id INTEGER NOT NULL REFERENCES users(id),
    gateway VARCHAR(20) NOT NULL DEFAULT 'STRIPE',
    transaction_id VARCHAR(255) NOT NULL DEFAULT '',
    amount BIGINT NOT NULL,
    status VARCHAR(20) NOT NULL,
    failure_reason TEXT,
    payment_date TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('COMPLETED', 'FAILED'))
);`

const createNotificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
    id SERIAL PRIMARY KEY,
    recipient VARCHAR(255) NOT NULL,
    subject VARCHAR(255) NOT NULL,
    body TEXT NOT NULL,
    booking_reference VARCHAR(20) NOT NULL DEFAULT '',
    type VARCHAR(20) NOT NULL DEFAULT 'EMAIL',
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createPasswordResetTokensTable = `
CREATE TABLE IF NOT EXISTS password_reset_tokens (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    token VARCHAR(64) UNIQUE NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    used BOOLEAN NOT NULL DEFAULT FALSE
);`

const createBookingsUserIndex = `
CREATE INDEX IF NOT EXISTS bookings_user_id_idx ON bookings (user_id, id DESC);`
