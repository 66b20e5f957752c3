package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReminderTime(t *testing.T) {
	tests := []struct {
		value   string
		hour    int
		minute  int
		wantErr bool
	}{
		{"07:00", 7, 0, false},
		{"23:59", 23, 59, false},
		{"00:05", 0, 5, false},
		{"25:00", 0, 0, true},
		{"7am", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			h, m, err := ParseReminderTime(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, h)
			assert.Equal(t, tt.minute, m)
		})
	}
}

func TestReminderStateMachine(t *testing.T) {
	var s NotificationState
	at := func(h, m int) time.Time { return time.Date(2025, 5, 1, h, m, 0, 0, time.Local) }

	due, err := s.ReminderDue(at(7, 0), "07:00")
	require.NoError(t, err)
	assert.True(t, due, "armed reminder fires on its minute")

	due, _ = s.ReminderDue(at(7, 1), "07:00")
	assert.False(t, due, "no reminder outside its minute")

	s.MarkReminderSent()
	due, _ = s.ReminderDue(at(7, 0), "07:00")
	assert.False(t, due, "sent reminder does not fire again")

	s.Reset("2025-05-02")
	due, _ = s.ReminderDue(at(7, 0), "07:00")
	assert.True(t, due, "reset re-arms the reminder")

	_, err = s.ReminderDue(at(7, 0), "bogus")
	assert.Error(t, err)
}

func TestMissedStateMachine(t *testing.T) {
	var s NotificationState

	assert.False(t, s.MissedDue(true, "2025-05-01"), "completed yesterday")
	assert.True(t, s.MissedDue(false, "2025-05-01"))

	s.MarkMissedSent("2025-05-01")
	assert.False(t, s.MissedDue(false, "2025-05-01"))

	s.Reset("2025-05-02")
	assert.False(t, s.MissedDue(false, "2025-05-01"), "already sent for that day")
	assert.True(t, s.MissedDue(false, "2025-05-02"))
}

func TestNeedsReset(t *testing.T) {
	s := NotificationState{ReminderSentToday: true, MissedEmailSent: true}

	assert.True(t, s.NeedsReset("2025-05-02"))
	s.Reset("2025-05-02")
	assert.False(t, s.NeedsReset("2025-05-02"))
	assert.False(t, s.ReminderSentToday)
	assert.False(t, s.MissedEmailSent)
	assert.True(t, s.NeedsReset("2025-05-03"))
}

func TestFindReward(t *testing.T) {
	r, ok := FindReward("reward3")
	require.True(t, ok)
	assert.Equal(t, "Gym Day Pass", r.Title)
	assert.Equal(t, 8, r.PointsRequired)

	_, ok = FindReward("reward99")
	assert.False(t, ok)
}
