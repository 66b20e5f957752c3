// Package streak evaluates a habit's completion history. Every function is
// pure: callers decide whether and when to persist the results.
package streak

import (
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/pkg/dayutil"
)

// MaxBackwardDays bounds the all-habits streak walk.
const MaxBackwardDays = 365

// DoneOn reports whether the habit has a completion on day's calendar day.
func DoneOn(h *models.Habit, day time.Time) bool {
	for _, d := range h.CompletedDates {
		if dayutil.SameDay(d, day) {
			return true
		}
	}
	return false
}

// IsActive reports whether now's calendar day is inside the habit window.
func IsActive(h *models.Habit, now time.Time) bool {
	return dayutil.Within(now, h.StartDate, h.EndDate)
}

// MissedDaysInclusive counts the days from StartDate up to and including
// today (capped at EndDate) without a completion. Used when a completion
// is recorded.
func MissedDaysInclusive(h *models.Habit, now time.Time) int {
	return countMissed(h, dayutil.StartOfDay(now))
}

// MissedDaysExclusive counts like MissedDaysInclusive but stops before
// today. Used by the read-only missed-days query.
func MissedDaysExclusive(h *models.Habit, now time.Time) int {
	return countMissed(h, dayutil.Yesterday(now))
}

func countMissed(h *models.Habit, last time.Time) int {
	if end := dayutil.StartOfDay(h.EndDate); end.Before(last) {
		last = end
	}

	missed := 0
	for d := dayutil.StartOfDay(h.StartDate); !d.After(last); d = dayutil.AddDays(d, 1) {
		if !DoneOn(h, d) {
			missed++
		}
	}
	return missed
}

// StreakOnMarkDone returns the streak the habit has once today's
// completion is recorded. It must be evaluated before today is appended to
// CompletedDates.
func StreakOnMarkDone(h *models.Habit, today time.Time) int {
	if DoneOn(h, dayutil.Yesterday(today)) {
		return h.Streak + 1
	}
	return 1
}

// Reconcile applies the lazy streak decay: a habit done neither today nor
// yesterday has lost its streak. The returned bool reports whether the
// habit changed and needs to be persisted.
func Reconcile(h models.Habit, now time.Time) (models.Habit, bool) {
	if h.Streak <= 0 {
		return h, false
	}
	if DoneOn(&h, now) || DoneOn(&h, dayutil.Yesterday(now)) {
		return h, false
	}
	h.Streak = 0
	return h, true
}

// AllCompletedStreak walks backward from today and counts the consecutive
// days on which every habit in habits was completed. Habits whose window
// had not started yet on a given day are not required for that day; the
// walk stops at a day on which no habit had started. At most maxDays days
// are examined.
func AllCompletedStreak(habits []models.Habit, today time.Time, maxDays int) int {
	streak := 0
	day := dayutil.StartOfDay(today)

	for i := 0; i < maxDays; i++ {
		required := 0
		for j := range habits {
			h := &habits[j]
			if dayutil.Before(day, h.StartDate) {
				continue
			}
			required++
			if !DoneOn(h, day) {
				return streak
			}
		}
		if required == 0 {
			return streak
		}
		streak++
		day = dayutil.AddDays(day, -1)
	}
	return streak
}
