package dayutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, Location)
}

func TestSameDay(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{"same instant", at(2025, 3, 10, 9, 0), at(2025, 3, 10, 9, 0), true},
		{"start and end of day", at(2025, 3, 10, 0, 0), at(2025, 3, 10, 23, 59), true},
		{"consecutive days", at(2025, 3, 10, 23, 59), at(2025, 3, 11, 0, 0), false},
		{"same day other month", at(2025, 3, 10, 12, 0), at(2025, 4, 10, 12, 0), false},
		{"same day other year", at(2024, 3, 10, 12, 0), at(2025, 3, 10, 12, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameDay(tt.a, tt.b))
		})
	}
}

func TestSameDayIgnoresStoredOffset(t *testing.T) {
	local := at(2025, 3, 10, 12, 0)
	assert.True(t, SameDay(local, local.UTC()))
	assert.Equal(t, DayKey(local), DayKey(local.UTC()))
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2025-03-10", DayKey(at(2025, 3, 10, 17, 45)))
	assert.Equal(t, "2025-01-01", DayKey(at(2025, 1, 1, 0, 0)))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 1, DaysBetween(at(2025, 3, 10, 8, 0), at(2025, 3, 10, 22, 0)))
	assert.Equal(t, 7, DaysBetween(at(2025, 3, 10, 23, 0), at(2025, 3, 16, 1, 0)))
	assert.Equal(t, 3, DaysBetween(at(2025, 2, 27, 0, 0), at(2025, 3, 1, 0, 0)))
	assert.Equal(t, 0, DaysBetween(at(2025, 3, 11, 0, 0), at(2025, 3, 10, 0, 0)))
}

func TestDayBoundaries(t *testing.T) {
	ts := at(2025, 3, 10, 15, 30)

	assert.Equal(t, at(2025, 3, 10, 0, 0), StartOfDay(ts))
	assert.True(t, SameDay(ts, EndOfDay(ts)))
	assert.False(t, SameDay(ts, EndOfDay(ts).Add(time.Nanosecond)))
	assert.Equal(t, at(2025, 3, 9, 0, 0), Yesterday(ts))
	assert.Equal(t, at(2025, 4, 1, 0, 0), AddDays(at(2025, 3, 31, 10, 0), 1))
}

func TestWithinAndBefore(t *testing.T) {
	start := at(2025, 3, 10, 14, 0)
	end := at(2025, 3, 12, 9, 0)

	assert.True(t, Within(at(2025, 3, 10, 8, 0), start, end))
	assert.True(t, Within(at(2025, 3, 12, 23, 0), start, end))
	assert.False(t, Within(at(2025, 3, 9, 23, 59), start, end))
	assert.False(t, Within(at(2025, 3, 13, 0, 0), start, end))

	assert.True(t, Before(at(2025, 3, 9, 23, 0), start))
	assert.False(t, Before(at(2025, 3, 10, 0, 0), start))
}
