package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderNo(t *testing.T) {
	day := DayKey(time.Date(2025, 3, 7, 22, 15, 0, 0, time.UTC))
	assert.Equal(t, "070325", day)
	assert.Equal(t, "070325-001", FormatOrderNo(day, 1))
	assert.Equal(t, "070325-042", FormatOrderNo(day, 42))
	assert.Equal(t, "070325-1000", FormatOrderNo(day, 1000))
}

func TestDayKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// Local 08:00 on the 2nd is still the 1st in UTC.
	local := time.Date(2025, 6, 2, 8, 0, 0, 0, loc)
	assert.Equal(t, "010625", DayKey(local))
}

func TestStatusCanConfirm(t *testing.T) {
	assert.True(t, StatusNew.CanConfirm())
	assert.True(t, StatusConfirmed.CanConfirm())
	assert.False(t, StatusDelivered.CanConfirm())
	assert.False(t, StatusCanceled.CanConfirm())
	assert.False(t, StatusOutForDelivery.CanConfirm())
}

func TestStatusCanCancel(t *testing.T) {
	for _, s := range []Status{StatusNew, StatusConfirmed, StatusOutForDelivery, StatusCanceled, StatusReadyForPickup, StatusPickedUp} {
		assert.True(t, s.CanCancel(), string(s))
	}
	assert.False(t, StatusDelivered.CanCancel())
}
