package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindConflict, KindOf(Conflict("taken")))
	assert.Equal(t, KindIntegrity, KindOf(Integrity("referenced")))
	assert.Equal(t, KindExternal, KindOf(External("gateway down", nil)))
	assert.Equal(t, KindInternal, KindOf(Internal(fmt.Errorf("boom"))))
}

func TestKindOfUncategorized(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(fmt.Errorf("plain error")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handler context: %w", NotFound("room not found"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "room not found", MessageOf(err))
}

func TestMessageOfHidesInternalDetail(t *testing.T) {
	msg := MessageOf(Internal(fmt.Errorf("pq: connection refused")))
	assert.NotContains(t, msg, "pq:")
	assert.Equal(t, "internal server error", msg)
}
