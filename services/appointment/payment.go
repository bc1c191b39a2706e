package appointment

import (
	"context"
	"errors"
	"fmt"

	"lashstudio/database/repository"
	appointmentRepo "lashstudio/database/repository/appointment"
	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/utils"

	"go.uber.org/zap"
)

// allowedFrom lists, per target status, the stored statuses it may replace.
// Nothing but refunded ever replaces paid.
var allowedFrom = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPaid:     {models.PaymentPending, models.PaymentFailed},
	models.PaymentFailed:   {models.PaymentPending},
	models.PaymentPending:  {models.PaymentFailed},
	models.PaymentRefunded: {models.PaymentPaid},
}

func (s *DefaultAppointmentService) SetPayment(ctx context.Context, p access.Principal, id string, in PaymentInput) (*PaymentOutcome, error) {
	if err := access.Authorize(p, access.PaymentUpdate, ""); err != nil {
		return nil, err
	}
	return s.UpdatePaymentStatus(ctx, p.UserID, id, in)
}

func (s *DefaultAppointmentService) UpdatePaymentStatus(ctx context.Context, actor, id string, in PaymentInput) (*PaymentOutcome, error) {
	from, ok := allowedFrom[in.Status]
	if !ok {
		return nil, utils.NewValidationError("", fmt.Sprintf("unknown payment status %q", in.Status))
	}
	switch in.Method {
	case "", models.MethodStripe, models.MethodCash, models.MethodBankTransfer:
	default:
		return nil, utils.NewValidationError("", fmt.Sprintf("unknown payment method %q", in.Method))
	}

	appt, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(id, err, "appointment lookup failed")
	}
	if appt.Payment.Status == in.Status {
		return &PaymentOutcome{Appointment: appt, AlreadyApplied: true}, nil
	}
	if !containsStatus(from, appt.Payment.Status) {
		return nil, utils.NewConflictError(CodeInvalidPaymentChange,
			fmt.Sprintf("payment cannot move from %s to %s", appt.Payment.Status, in.Status))
	}

	now := s.now()
	ref := in.EventRef
	if ref == "" {
		ref = in.Reference
	}
	change := appointmentRepo.PaymentChange{
		ID:          id,
		Status:      in.Status,
		AllowedFrom: from,
		Method:      in.Method,
		Reference:   in.Reference,
		At:          now,
		Entry: models.TimelineEntry{
			Event:     models.PaymentEvent(in.Status),
			Actor:     actor,
			Timestamp: now,
			Ref:       ref,
		},
	}

	outcome := &PaymentOutcome{}
	if in.Status == models.PaymentPaid {
		res, err := s.Repo.MarkPaid(ctx, change)
		if errors.Is(err, repository.ErrStateChanged) {
			return nil, utils.NewConflictError(CodeInvalidPaymentChange, "payment was changed by another request")
		}
		if err != nil {
			return nil, repoError(id, err, "failed to mark appointment paid")
		}
		outcome.AlreadyApplied = !res.Applied
		outcome.PromoRedeemed = res.Redeemed
		if res.Applied && appt.Payment.Discount != nil && !res.Redeemed {
			s.Logger.Warn("promo code not redeemed at payment",
				zap.String("appointmentId", id),
				zap.String("code", appt.Payment.Discount.Code))
		}
	} else {
		changed, err := s.Repo.SetPaymentStatus(ctx, change)
		if err != nil {
			return nil, repoError(id, err, "failed to update payment status")
		}
		if !changed {
			return nil, utils.NewConflictError(CodeInvalidPaymentChange, "payment was changed by another request")
		}
	}

	s.Logger.Info("payment status updated",
		zap.String("appointmentId", id),
		zap.String("status", string(in.Status)),
		zap.Bool("alreadyApplied", outcome.AlreadyApplied),
		zap.String("actor", actor))

	updated, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(id, err, "appointment lookup failed")
	}
	outcome.Appointment = updated
	return outcome, nil
}

func (s *DefaultAppointmentService) AttachPaymentIntent(ctx context.Context, id, intentID string) error {
	if err := s.Repo.SetPaymentIntent(ctx, id, intentID); err != nil {
		return repoError(id, err, "failed to store payment intent")
	}
	return nil
}

func containsStatus(list []models.PaymentStatus, v models.PaymentStatus) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
