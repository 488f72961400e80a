package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalendarDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}

	// 02:30 UTC on Feb 6 is still Feb 5 in New York.
	instant := time.Date(2026, 2, 6, 2, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), CalendarDay(instant, ny))
	assert.Equal(t, time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC), CalendarDay(instant, time.UTC))
	assert.Equal(t, "2026-02-05", CalendarDay(instant, ny).Format(DateLayout))
}

func TestNoBalance(t *testing.T) {
	nb := NoBalance("Voya 401(k)")
	assert.False(t, nb.HasData)
	assert.True(t, nb.Amount.IsZero())
	assert.Nil(t, nb.RecordDate)
	assert.Equal(t, "Voya 401(k)", nb.AccountName)
}
