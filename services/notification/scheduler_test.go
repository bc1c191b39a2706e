package notification

import (
	"testing"
	"time"

	"lashstudio/models"
)

func TestScheduleDefaultsThirtyHoursOut(t *testing.T) {
	created := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	appt := created.Add(30 * time.Hour)

	entries, err := DefaultScheduler{}.Schedule(appt, created, models.DefaultPreferences())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	want := []struct {
		typ string
		at  time.Time
	}{
		{"confirmation", created},
		{"reminder_24h", appt.Add(-24 * time.Hour)},
		{"reminder_2h", appt.Add(-2 * time.Hour)},
	}
	for i, w := range want {
		e := entries[i]
		if e.Type != w.typ || !e.ScheduledFor.Equal(w.at) {
			t.Fatalf("entry %d = %s at %s, want %s at %s", i, e.Type, e.ScheduledFor, w.typ, w.at)
		}
		if e.Method != models.ChannelEmail || e.Status != models.NotificationPending || e.PastDue {
			t.Fatalf("entry %d has unexpected fields: %+v", i, e)
		}
		if e.ID == "" {
			t.Fatalf("entry %d has no id", i)
		}
	}
}

func TestSchedulePastDueReminderIsFlagged(t *testing.T) {
	created := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	appt := created.Add(3 * time.Hour)

	entries, err := DefaultScheduler{}.Schedule(appt, created, models.DefaultPreferences())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if !entries[1].PastDue || entries[1].Type != "reminder_24h" {
		t.Fatalf("24h reminder should be flagged past due: %+v", entries[1])
	}
	if entries[2].PastDue {
		t.Fatalf("2h reminder should not be past due: %+v", entries[2])
	}
}

func TestScheduleChannelsAndDedup(t *testing.T) {
	created := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	prefs := models.UserPreferences{
		NotificationMethod: models.ChannelSMS,
		ReminderSettings: models.ReminderSettings{
			Email:       true,
			SMS:         true,
			HoursBefore: []int{2, 24, 2},
		},
	}

	entries, err := DefaultScheduler{}.Schedule(created.Add(48*time.Hour), created, prefs)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}
	if entries[0].Method != models.ChannelSMS {
		t.Fatalf("confirmation should use preferred method, got %s", entries[0].Method)
	}
	for i := 2; i < len(entries); i++ {
		if entries[i].ScheduledFor.Before(entries[i-1].ScheduledFor) {
			t.Fatalf("reminders out of order at %d", i)
		}
	}
	if entries[1].Method != models.ChannelEmail || entries[2].Method != models.ChannelSMS {
		t.Fatalf("channel order should be email then sms")
	}
}

func TestScheduleNoChannelsOnlyConfirmation(t *testing.T) {
	created := time.Now().UTC()
	prefs := models.UserPreferences{ReminderSettings: models.ReminderSettings{HoursBefore: []int{24}}}

	entries, err := DefaultScheduler{}.Schedule(created.Add(72*time.Hour), created, prefs)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != models.NotificationConfirmation {
		t.Fatalf("want only the confirmation entry, got %+v", entries)
	}
	if entries[0].Method != models.ChannelEmail {
		t.Fatalf("empty method should default to email")
	}
}

func TestScheduleRejectsBadInput(t *testing.T) {
	created := time.Now().UTC()
	bad := models.DefaultPreferences()
	bad.ReminderSettings.HoursBefore = []int{24, 0}
	if _, err := (DefaultScheduler{}).Schedule(created.Add(time.Hour), created, bad); err == nil {
		t.Fatalf("expected error for zero lead time")
	}

	bad = models.DefaultPreferences()
	bad.ReminderSettings.HoursBefore = []int{3000000}
	if _, err := (DefaultScheduler{}).Schedule(created.Add(time.Hour), created, bad); err == nil {
		t.Fatalf("expected error for lead time beyond %d hours", models.MaxReminderHours)
	}

	ok := models.DefaultPreferences()
	ok.ReminderSettings.HoursBefore = []int{models.MaxReminderHours}
	appt := created.Add(1000 * time.Hour)
	entries, err := (DefaultScheduler{}).Schedule(appt, created, ok)
	if err != nil {
		t.Fatalf("max lead time rejected: %v", err)
	}
	for _, e := range entries[1:] {
		if !e.ScheduledFor.Before(appt) {
			t.Fatalf("reminder at %v is not before appointment %v", e.ScheduledFor, appt)
		}
	}

	bad = models.DefaultPreferences()
	bad.NotificationMethod = "pigeon"
	if _, err := (DefaultScheduler{}).Schedule(created.Add(time.Hour), created, bad); err == nil {
		t.Fatalf("expected error for unknown method")
	}
}
