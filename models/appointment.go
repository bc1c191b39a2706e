package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// Appointment is a booked service slot. It is never deleted.
type Appointment struct {
	ID                 string              `bson:"id" json:"id"`
	Client             ClientSnapshot      `bson:"client" json:"client"`
	Service            ServiceSnapshot     `bson:"service" json:"service"`
	DateTime           Schedule            `bson:"dateTime" json:"dateTime"`
	Status             AppointmentStatus   `bson:"status" json:"status"`
	Payment            Payment             `bson:"payment" json:"payment"`
	Addons             []string            `bson:"addons" json:"addons"`
	ReferralSource     string              `bson:"referralSource,omitempty" json:"referralSource,omitempty"`
	Notes              []Note              `bson:"notes" json:"notes"`
	Notifications      []NotificationEntry `bson:"notifications" json:"notifications"`
	Timeline           Timeline            `bson:"timeline" json:"timeline"`
	CompletedAt        *time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CancelledAt        *time.Time          `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CancellationReason string              `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CreatedAt          time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ClientSnapshot copies the booking client's contact details at booking time.
type ClientSnapshot struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

// ServiceSnapshot copies the booked package. It never changes after booking.
type ServiceSnapshot struct {
	ID              string  `bson:"id" json:"id"`
	Name            string  `bson:"name" json:"name"`
	Price           float64 `bson:"price" json:"price"`
	DurationMinutes int     `bson:"durationMinutes" json:"durationMinutes"`
}

// Schedule is when the appointment takes place. Date is the UTC instant;
// Time and Timezone keep the wall-clock label the client chose.
type Schedule struct {
	Date     time.Time `bson:"date" json:"date"`
	Time     string    `bson:"time" json:"time"`
	Timezone string    `bson:"timezone" json:"timezone"`
}

type Note struct {
	Type      string    `bson:"type" json:"type"`
	Content   string    `bson:"content" json:"content"`
	IsPrivate bool      `bson:"isPrivate" json:"isPrivate"`
	CreatedBy string    `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// TimelineEntry records one lifecycle event. Ref carries an external
// reference such as a payment event id.
type TimelineEntry struct {
	Event     string    `bson:"event" json:"event"`
	Actor     string    `bson:"actor" json:"actor"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Ref       string    `bson:"ref,omitempty" json:"ref,omitempty"`
}

// Timeline is append-only. Entries are never edited or removed once added.
type Timeline []TimelineEntry

// Append returns a new timeline with e added at the end. The receiver is not modified.
func (t Timeline) Append(e TimelineEntry) Timeline {
	out := make(Timeline, len(t), len(t)+1)
	copy(out, t)
	return append(out, e)
}

// Timeline event names.
const (
	EventCreated = "created"
	EventNote    = "note_added"
)

// PaymentEvent returns the timeline event name for a payment status change.
func PaymentEvent(status PaymentStatus) string {
	return "payment_" + string(status)
}
