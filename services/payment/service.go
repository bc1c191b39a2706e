package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/services/appointment"
	"lashstudio/utils"

	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

const (
	CodeAlreadyPaid = "payment_already_paid"
	CodeNotPayable  = "appointment_not_payable"

	metaAppointmentID = "appointment_id"
	metaClientID      = "client_id"
)

// Webhook outcomes reported back to the provider.
const (
	OutcomeProcessed = "processed"
	OutcomeDuplicate = "duplicate"
	OutcomeIgnored   = "ignored"
)

// IntentResult is returned to the client to complete payment.
type IntentResult struct {
	AppointmentID   string  `json:"appointmentId"`
	PaymentIntentID string  `json:"paymentIntentId"`
	ClientSecret    string  `json:"clientSecret"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	PublishableKey  string  `json:"publishableKey,omitempty"`
}

// WebhookResult summarizes how an event was applied.
type WebhookResult struct {
	EventID       string `json:"eventId"`
	EventType     string `json:"eventType"`
	AppointmentID string `json:"appointmentId,omitempty"`
	Outcome       string `json:"outcome"`
}

type PaymentService interface {
	CreateIntent(ctx context.Context, p access.Principal, appointmentID string) (*IntentResult, error)
	// HandleEvent applies a verified provider event to the matching appointment.
	HandleEvent(ctx context.Context, evt stripe.Event) (*WebhookResult, error)
}

type DefaultPaymentService struct {
	Appointments   appointment.AppointmentService
	Gateway        Gateway
	Currency       string
	PublishableKey string
	Logger         *zap.Logger
}

func (s *DefaultPaymentService) CreateIntent(ctx context.Context, p access.Principal, appointmentID string) (*IntentResult, error) {
	appt, err := s.Appointments.Get(ctx, p, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(p, access.PaymentIntent, appt.Client.ID); err != nil {
		return nil, err
	}
	if appt.Payment.Status == models.PaymentPaid {
		return nil, utils.NewConflictError(CodeAlreadyPaid, "appointment is already paid")
	}
	if appt.Status != models.StatusConfirmed {
		return nil, utils.NewConflictError(CodeNotPayable, fmt.Sprintf("appointment is %s", appt.Status))
	}
	amount := utils.ToMinorUnits(appt.Payment.TotalPrice)
	if amount <= 0 {
		return nil, utils.NewConflictError(CodeNotPayable, "nothing to pay for this appointment")
	}

	currency := appt.Payment.Currency
	if currency == "" {
		currency = s.Currency
	}
	currency = strings.ToLower(currency)

	intent, err := s.Gateway.CreateIntent(ctx, IntentRequest{
		Amount:       amount,
		Currency:     currency,
		Description:  appt.Service.Name,
		ReceiptEmail: appt.Client.Email,
		Metadata: map[string]string{
			metaAppointmentID: appt.ID,
			metaClientID:      appt.Client.ID,
		},
		IdempotencyKey: fmt.Sprintf("appointment-%s-%d", appt.ID, amount),
	})
	if err != nil {
		return nil, utils.NewUpstreamError("payment provider unavailable", err)
	}

	if err := s.Appointments.AttachPaymentIntent(ctx, appt.ID, intent.ID); err != nil {
		return nil, err
	}
	s.Logger.Info("payment intent created",
		zap.String("appointmentId", appt.ID),
		zap.String("paymentIntentId", intent.ID),
		zap.Int64("amount", amount))

	return &IntentResult{
		AppointmentID:   appt.ID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          appt.Payment.TotalPrice,
		Currency:        currency,
		PublishableKey:  s.PublishableKey,
	}, nil
}

func (s *DefaultPaymentService) HandleEvent(ctx context.Context, evt stripe.Event) (*WebhookResult, error) {
	result := &WebhookResult{EventID: evt.ID, EventType: string(evt.Type), Outcome: OutcomeIgnored}

	var status models.PaymentStatus
	switch evt.Type {
	case "payment_intent.succeeded":
		status = models.PaymentPaid
	case "payment_intent.payment_failed":
		status = models.PaymentFailed
	default:
		return result, nil
	}
	if evt.Data == nil {
		return result, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(evt.Data.Raw, &pi); err != nil {
		return nil, utils.NewValidationError("invalid_event", "payment intent payload could not be decoded")
	}
	apptID := strings.TrimSpace(pi.Metadata[metaAppointmentID])
	if apptID == "" && pi.ID != "" {
		// No metadata: match on the recorded intent id.
		appt, err := s.Appointments.GetByPaymentIntent(ctx, pi.ID)
		switch {
		case err == nil:
			apptID = appt.ID
		case utils.KindOf(err) != utils.KindNotFound:
			return nil, err
		}
	}
	if apptID == "" {
		s.Logger.Warn("payment event without a matching appointment",
			zap.String("eventId", evt.ID),
			zap.String("paymentIntentId", pi.ID))
		return result, nil
	}
	result.AppointmentID = apptID

	outcome, err := s.Appointments.UpdatePaymentStatus(ctx, "stripe", apptID, appointment.PaymentInput{
		Status:    status,
		Method:    models.MethodStripe,
		Reference: pi.ID,
		EventRef:  evt.ID,
	})
	if err != nil {
		switch utils.KindOf(err) {
		case utils.KindNotFound, utils.KindConflict:
			// Acknowledged; a redelivery would be rejected the same way.
			s.Logger.Warn("payment event not applied",
				zap.String("eventId", evt.ID),
				zap.String("appointmentId", apptID),
				zap.String("code", utils.CodeOf(err)))
			return result, nil
		}
		return nil, err
	}

	if outcome.AlreadyApplied {
		result.Outcome = OutcomeDuplicate
	} else {
		result.Outcome = OutcomeProcessed
	}
	return result, nil
}
