package appointment

import (
	"context"
	"fmt"

	appointmentRepo "lashstudio/database/repository/appointment"
	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/utils"
)

func (s *DefaultAppointmentService) Get(ctx context.Context, p access.Principal, id string) (*models.Appointment, error) {
	appt, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(id, err, "appointment lookup failed")
	}
	if err := access.Authorize(p, access.AppointmentRead, appt.Client.ID); err != nil {
		return nil, err
	}
	return redact(p, appt), nil
}

// List returns appointments newest first. Clients only ever see their own.
func (s *DefaultAppointmentService) List(ctx context.Context, p access.Principal, q ListQuery) ([]models.Appointment, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, utils.NewValidationError("", fmt.Sprintf("unknown status %q", q.Status))
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, utils.NewValidationError("invalid_range", "from must not be after to")
	}

	switch {
	case q.ClientID != "":
		if err := access.Authorize(p, access.AppointmentRead, q.ClientID); err != nil {
			return nil, err
		}
	case access.Allowed(p, access.AppointmentListAll, ""):
	default:
		q.ClientID = p.UserID
	}

	appts, err := s.Repo.List(ctx, appointmentRepo.ListFilter{
		ClientID: q.ClientID,
		Status:   q.Status,
		From:     q.From,
		To:       q.To,
	})
	if err != nil {
		return nil, utils.NewInternalError("failed to list appointments", err)
	}
	for i := range appts {
		appts[i] = *redact(p, &appts[i])
	}
	return appts, nil
}

func (s *DefaultAppointmentService) GetByPaymentIntent(ctx context.Context, intentID string) (*models.Appointment, error) {
	appt, err := s.Repo.GetByPaymentIntent(ctx, intentID)
	if err != nil {
		return nil, repoError(intentID, err, "appointment lookup failed")
	}
	return appt, nil
}

// visible re-reads an appointment after a write and redacts it for p.
func (s *DefaultAppointmentService) visible(ctx context.Context, p access.Principal, id string) (*models.Appointment, error) {
	appt, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(id, err, "appointment lookup failed")
	}
	return redact(p, appt), nil
}

// redact drops private notes for callers who may not read them.
func redact(p access.Principal, appt *models.Appointment) *models.Appointment {
	if access.Allowed(p, access.AppointmentPrivate, "") {
		return appt
	}
	notes := make([]models.Note, 0, len(appt.Notes))
	for _, n := range appt.Notes {
		if !n.IsPrivate {
			notes = append(notes, n)
		}
	}
	appt.Notes = notes
	return appt
}
