package notification

import (
	"fmt"
	"sort"
	"time"

	"lashstudio/models"

	"github.com/google/uuid"
)

// Scheduler computes the notification entries attached to a new appointment.
type Scheduler interface {
	Schedule(appointmentAt, createdAt time.Time, prefs models.UserPreferences) ([]models.NotificationEntry, error)
}

// DefaultScheduler is a pure scheduler; it performs no I/O.
type DefaultScheduler struct {
	// NewID generates entry ids; defaults to random UUIDs.
	NewID func() string
}

func (s DefaultScheduler) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.New().String()
}

// Schedule returns a confirmation entry at createdAt followed by one reminder per
// distinct lead time and enabled channel, ordered by scheduled time. Reminders
// whose time is already before createdAt are kept and flagged PastDue.
func (s DefaultScheduler) Schedule(appointmentAt, createdAt time.Time, prefs models.UserPreferences) ([]models.NotificationEntry, error) {
	method := prefs.NotificationMethod
	if method == "" {
		method = models.ChannelEmail
	}
	if !validChannel(method) {
		return nil, fmt.Errorf("unknown notification method %q", method)
	}

	hours, err := leadTimes(prefs.ReminderSettings.HoursBefore)
	if err != nil {
		return nil, err
	}

	entries := []models.NotificationEntry{{
		ID:           s.newID(),
		Type:         models.NotificationConfirmation,
		Method:       method,
		ScheduledFor: createdAt,
		Status:       models.NotificationPending,
	}}

	channels := enabledChannels(prefs.ReminderSettings)
	for _, h := range hours {
		at := appointmentAt.Add(-time.Duration(h) * time.Hour)
		for _, ch := range channels {
			entries = append(entries, models.NotificationEntry{
				ID:           s.newID(),
				Type:         models.ReminderType(h),
				Method:       ch,
				ScheduledFor: at,
				Status:       models.NotificationPending,
				PastDue:      at.Before(createdAt),
			})
		}
	}
	return entries, nil
}

// leadTimes dedupes and sorts hours descending so reminders come out earliest first.
func leadTimes(hours []int) ([]int, error) {
	seen := make(map[int]bool, len(hours))
	out := make([]int, 0, len(hours))
	for _, h := range hours {
		if h <= 0 {
			return nil, fmt.Errorf("reminder lead time must be positive, got %d", h)
		}
		if h > models.MaxReminderHours {
			return nil, fmt.Errorf("reminder lead time must be at most %d hours, got %d", models.MaxReminderHours, h)
		}
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out, nil
}

func enabledChannels(rs models.ReminderSettings) []string {
	var out []string
	if rs.Email {
		out = append(out, models.ChannelEmail)
	}
	if rs.SMS {
		out = append(out, models.ChannelSMS)
	}
	if rs.Push {
		out = append(out, models.ChannelPush)
	}
	return out
}

func validChannel(ch string) bool {
	return ch == models.ChannelEmail || ch == models.ChannelSMS || ch == models.ChannelPush
}
