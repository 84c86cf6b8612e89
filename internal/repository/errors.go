package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres error codes the application reacts to.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgExclusionViolation  = "23P01"
)

// IsUniqueViolation reports whether err is a unique-constraint failure,
// optionally for a specific constraint name.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != pgUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// IsExclusionViolation reports whether err is an exclusion-constraint
// failure, such as the booking range-overlap guard firing.
func IsExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgExclusionViolation
}

// IsForeignKeyViolation reports whether err is a referential-integrity
// failure, such as deleting a room that bookings still reference.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgForeignKeyViolation
}
