package repository

import (
	"context"

	"quinta/internal/database"
)

// ReferenceRepository records every minted booking reference. The table
// exists purely to guarantee code uniqueness; rows are never mutated.
type ReferenceRepository struct {
	db *database.DB
}

func NewReferenceRepository(db *database.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM booking_references WHERE code = $1)`, code).Scan(&exists)
	return exists, err
}

// Save persists a minted code. The UNIQUE constraint on code is the
// storage-level backstop for the check-then-insert race.
func (r *ReferenceRepository) Save(ctx context.Context, code string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO booking_references (code) VALUES ($1)`, code)
	return err
}
