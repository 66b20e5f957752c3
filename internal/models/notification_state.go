package models

import (
	"fmt"
	"time"
)

// NotificationState holds the per-day idempotency keys of a habit's email
// notifications. The scheduler polls every minute; these flags make each
// notification fire at most once per calendar day:
//
//	armed --send ok--> sent --day rollover (Reset)--> armed
type NotificationState struct {
	ReminderSentToday   bool   `bson:"reminder_sent_today" json:"reminder_sent_today"`
	MissedEmailSent     bool   `bson:"missed_email_sent" json:"missed_email_sent"`
	LastMissedEmailDate string `bson:"last_missed_email_date" json:"last_missed_email_date"`
	LastFlagResetDate   string `bson:"last_flag_reset_date" json:"last_flag_reset_date"`
}

// ReminderDue reports whether the daily reminder should go out at now.
func (s NotificationState) ReminderDue(now time.Time, reminderTime string) (bool, error) {
	hour, minute, err := ParseReminderTime(reminderTime)
	if err != nil {
		return false, err
	}
	return now.Hour() == hour && now.Minute() == minute && !s.ReminderSentToday, nil
}

func (s *NotificationState) MarkReminderSent() {
	s.ReminderSentToday = true
}

// MissedDue reports whether the missed-streak email for yesterdayKey
// should be sent.
func (s NotificationState) MissedDue(doneYesterday bool, yesterdayKey string) bool {
	return !doneYesterday && s.LastMissedEmailDate != yesterdayKey && !s.MissedEmailSent
}

func (s *NotificationState) MarkMissedSent(yesterdayKey string) {
	s.MissedEmailSent = true
	s.LastMissedEmailDate = yesterdayKey
}

// NeedsReset reports whether the daily flags have not been re-armed yet
// for todayKey.
func (s NotificationState) NeedsReset(todayKey string) bool {
	return s.LastFlagResetDate != todayKey
}

// Reset re-arms both notifications for todayKey.
func (s *NotificationState) Reset(todayKey string) {
	s.ReminderSentToday = false
	s.MissedEmailSent = false
	s.LastFlagResetDate = todayKey
}

// ParseReminderTime splits an "HH:MM" wall-clock string.
func ParseReminderTime(value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid reminder time %q (expected HH:MM): %w", value, err)
	}
	return t.Hour(), t.Minute(), nil
}
