package models

import (
	"fmt"
	"time"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// NotificationConfirmation is the type of the entry sent right after booking.
const NotificationConfirmation = "confirmation"

// ReminderType returns the entry type for a reminder sent hours before the appointment.
func ReminderType(hours int) string {
	return fmt.Sprintf("reminder_%dh", hours)
}

// NotificationEntry is one scheduled message embedded in an appointment.
// PastDue marks reminders whose scheduled time was already behind the booking time.
type NotificationEntry struct {
	ID           string             `bson:"id" json:"id"`
	Type         string             `bson:"type" json:"type"`
	Method       string             `bson:"method" json:"method"`
	ScheduledFor time.Time          `bson:"scheduledFor" json:"scheduledFor"`
	Status       NotificationStatus `bson:"status" json:"status"`
	SentAt       *time.Time         `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	PastDue      bool               `bson:"pastDue" json:"pastDue"`
	Error        string             `bson:"error,omitempty" json:"error,omitempty"`
}
