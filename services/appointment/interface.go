package appointment

import (
	"context"
	"time"

	appointmentRepo "lashstudio/database/repository/appointment"
	catalogRepo "lashstudio/database/repository/catalog"
	userRepo "lashstudio/database/repository/user"
	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/services/notification"
	"lashstudio/services/promo"

	"go.uber.org/zap"
)

// CreateInput is the booking request. ClientID defaults to the caller.
type CreateInput struct {
	ClientID       string   `json:"clientId"`
	ServiceID      string   `json:"serviceId" binding:"required"`
	DateTime       string   `json:"dateTime" binding:"required"`
	Time           string   `json:"time"`
	Timezone       string   `json:"timezone"`
	PromoCode      string   `json:"promoCode"`
	Notes          string   `json:"notes"`
	Addons         []string `json:"addons"`
	ReferralSource string   `json:"referralSource"`
}

// StatusInput requests a lifecycle transition.
type StatusInput struct {
	Status             models.AppointmentStatus `json:"status" binding:"required,apptstatus"`
	Note               string                   `json:"note"`
	CancellationReason string                   `json:"cancellationReason"`
}

// PaymentInput sets the payment status. EventRef is recorded on the timeline
// entry; it defaults to Reference.
type PaymentInput struct {
	Status    models.PaymentStatus `json:"status" binding:"required,paymentstatus"`
	Method    string               `json:"method"`
	Reference string               `json:"reference"`
	EventRef  string               `json:"-"`
}

// NoteInput adds a note to an appointment.
type NoteInput struct {
	Type      string `json:"type"`
	Content   string `json:"content" binding:"required"`
	IsPrivate bool   `json:"isPrivate"`
}

// ListQuery filters a listing. From and To bound the appointment date.
type ListQuery struct {
	ClientID string
	Status   models.AppointmentStatus
	From     *time.Time
	To       *time.Time
}

// PaymentOutcome reports the effect of a payment update.
type PaymentOutcome struct {
	Appointment    *models.Appointment `json:"appointment"`
	AlreadyApplied bool                `json:"alreadyApplied"`
	PromoRedeemed  bool                `json:"promoRedeemed"`
}

// AppointmentService manages the appointment lifecycle.
type AppointmentService interface {
	Create(ctx context.Context, p access.Principal, in CreateInput) (*models.Appointment, error)
	Get(ctx context.Context, p access.Principal, id string) (*models.Appointment, error)
	List(ctx context.Context, p access.Principal, q ListQuery) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, p access.Principal, id string, in StatusInput) (*models.Appointment, error)
	AddNote(ctx context.Context, p access.Principal, id string, in NoteInput) (*models.Appointment, error)

	// SetPayment is the staff entry point for manual payments (cash, bank transfer).
	SetPayment(ctx context.Context, p access.Principal, id string, in PaymentInput) (*PaymentOutcome, error)
	// UpdatePaymentStatus applies a payment update on behalf of actor. Repeating a
	// paid update is a no-op reported through AlreadyApplied.
	UpdatePaymentStatus(ctx context.Context, actor, id string, in PaymentInput) (*PaymentOutcome, error)
	AttachPaymentIntent(ctx context.Context, id, intentID string) error
	GetByPaymentIntent(ctx context.Context, intentID string) (*models.Appointment, error)
}

// DefaultAppointmentService implements AppointmentService.
type DefaultAppointmentService struct {
	Repo      appointmentRepo.AppointmentRepository
	Catalog   catalogRepo.CatalogRepository
	Users     userRepo.UserRepository
	Promos    promo.Evaluator
	Scheduler notification.Scheduler
	Currency  string
	Logger    *zap.Logger
	Now       func() time.Time
	NewID     func() string
}
