package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-03-10")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDate("10/03/2026")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestParseDateTime(t *testing.T) {
	rfc, err := ParseDateTime("2026-03-10T14:30:00Z")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC), rfc)

	// HTML datetime-local inputs omit zone and seconds
	local, err := ParseDateTime("2026-03-10T14:30")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC), local)

	_, err = ParseDateTime("not-a-date")
	assert.Error(t, err)
}
