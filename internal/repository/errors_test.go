package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "users_email_key"}

	assert.True(t, IsUniqueViolation(err, "users_email_key"))
	assert.True(t, IsUniqueViolation(err, ""))
	assert.False(t, IsUniqueViolation(err, "rooms_room_number_key"))

	wrapped := fmt.Errorf("create user: %w", err)
	assert.True(t, IsUniqueViolation(wrapped, "users_email_key"))

	assert.False(t, IsUniqueViolation(errors.New("connection reset"), ""))
	assert.False(t, IsUniqueViolation(nil, ""))
}

func TestIsExclusionViolation(t *testing.T) {
	err := &pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"}

	assert.True(t, IsExclusionViolation(err))
	assert.True(t, IsExclusionViolation(fmt.Errorf("insert booking: %w", err)))
	assert.False(t, IsExclusionViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsExclusionViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	err := &pq.Error{Code: "23503", Constraint: "bookings_room_id_fkey"}

	assert.True(t, IsForeignKeyViolation(err))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("delete room: %w", err)))
	assert.False(t, IsForeignKeyViolation(&pq.Error{Code: "23P01"}))
	assert.False(t, IsForeignKeyViolation(nil))
}
