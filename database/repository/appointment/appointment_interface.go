package appointmentRepo

import (
	"context"
	"time"

	"lashstudio/models"
)

// ListFilter narrows an appointment listing. Zero values mean "any".
type ListFilter struct {
	ClientID string
	Status   models.AppointmentStatus
	From     *time.Time
	To       *time.Time
}

// StatusChange moves an appointment from one status to another. The write only
// applies while the stored status still equals From.
type StatusChange struct {
	ID                 string
	From               models.AppointmentStatus
	To                 models.AppointmentStatus
	At                 time.Time
	CancellationReason string
	Entry              models.TimelineEntry
}

// PaymentChange sets the payment status. The write only applies while the stored
// payment status is one of AllowedFrom.
type PaymentChange struct {
	ID          string
	Status      models.PaymentStatus
	AllowedFrom []models.PaymentStatus
	Method      string
	Reference   string
	At          time.Time
	Entry       models.TimelineEntry
}

// PaidResult reports what a MarkPaid call did.
type PaidResult struct {
	// Applied is false when the appointment was already paid.
	Applied bool
	// Redeemed is true when the promo code usage count was incremented.
	Redeemed bool
}

// AppointmentRepository defines data access for appointments. Multi-document
// operations run in a single transaction.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	GetByPaymentIntent(ctx context.Context, intentID string) (*models.Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]models.Appointment, error)

	// Transition applies a status change that has no side effects outside the appointment.
	Transition(ctx context.Context, change StatusChange) error
	// Complete applies the change and increments the service's bookingCount and
	// totalRevenue in the same transaction.
	Complete(ctx context.Context, change StatusChange, serviceID string, revenue float64) error

	// MarkPaid sets the payment to paid and redeems the applied promo code at most once.
	// A miss on an already paid appointment is a no-op; any other stored status
	// returns repository.ErrStateChanged.
	MarkPaid(ctx context.Context, change PaymentChange) (PaidResult, error)
	// SetPaymentStatus applies a non-paid payment status; it reports whether anything changed.
	SetPaymentStatus(ctx context.Context, change PaymentChange) (bool, error)
	SetPaymentIntent(ctx context.Context, id, intentID string) error

	AddNote(ctx context.Context, id string, note models.Note, entry models.TimelineEntry) error

	// ForEachCreatedBetween streams appointments with createdAt in [start, end].
	ForEachCreatedBetween(ctx context.Context, start, end time.Time, fn func(*models.Appointment) error) error

	// FindDueNotifications returns appointments holding pending entries scheduled at or before now.
	FindDueNotifications(ctx context.Context, now time.Time, limit int) ([]models.Appointment, error)
	// UpdateNotification settles one pending notification entry.
	UpdateNotification(ctx context.Context, apptID, notificationID string, status models.NotificationStatus, sentAt *time.Time, errMsg string) error
}
