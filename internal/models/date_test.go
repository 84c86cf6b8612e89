package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-07-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-07-01", d.String())

	_, err = ParseDate("01/07/2026")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestDaysUntil(t *testing.T) {
	checkIn := NewDate(2026, time.July, 1)
	checkOut := NewDate(2026, time.July, 4)

	assert.Equal(t, 3, checkIn.DaysUntil(checkOut))
	assert.Equal(t, 0, checkIn.DaysUntil(checkIn))
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2026, time.July, 1)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-07-01"`, string(out))

	var parsed Date
	require.NoError(t, json.Unmarshal(out, &parsed))
	assert.True(t, parsed.Equal(d.Time))
}

func TestDateScan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-07-01", d.String())

	require.NoError(t, d.Scan([]byte("2026-08-15")))
	assert.Equal(t, "2026-08-15", d.String())

	require.NoError(t, d.Scan("2026-09-30"))
	assert.Equal(t, "2026-09-30", d.String())
}
