package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lashstudio/database/repository"
	appointmentRepo "lashstudio/database/repository/appointment"
	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/utils"

	"go.uber.org/zap"
)

// UpdateStatus moves a confirmed appointment into a terminal status. Access is
// checked before transition validity so a forbidden caller learns nothing about state.
func (s *DefaultAppointmentService) UpdateStatus(ctx context.Context, p access.Principal, id string, in StatusInput) (*models.Appointment, error) {
	if !in.Status.Valid() {
		return nil, utils.NewValidationError("", fmt.Sprintf("unknown status %q", in.Status))
	}

	appt, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(id, err, "appointment lookup failed")
	}
	if err := access.Authorize(p, access.ActionForStatus(in.Status), appt.Client.ID); err != nil {
		return nil, err
	}
	if appt.Status != models.StatusConfirmed || !in.Status.Terminal() {
		return nil, errInvalidTransition(appt.Status, in.Status)
	}

	now := s.now()
	change := appointmentRepo.StatusChange{
		ID:   appt.ID,
		From: appt.Status,
		To:   in.Status,
		At:   now,
		Entry: models.TimelineEntry{
			Event:     string(in.Status),
			Actor:     p.UserID,
			Timestamp: now,
			Notes:     strings.TrimSpace(in.Note),
		},
	}
	if in.Status == models.StatusCancelled {
		change.CancellationReason = strings.TrimSpace(in.CancellationReason)
	}

	if in.Status == models.StatusCompleted {
		err = s.Repo.Complete(ctx, change, appt.Service.ID, appt.Payment.TotalPrice)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError(CodeServiceNotFound, fmt.Sprintf("service %s not found", appt.Service.ID))
		}
	} else {
		err = s.Repo.Transition(ctx, change)
	}
	if err != nil {
		return nil, repoError(id, err, "failed to update appointment status")
	}

	s.Logger.Info("appointment status changed",
		zap.String("appointmentId", appt.ID),
		zap.String("from", string(change.From)),
		zap.String("to", string(change.To)),
		zap.String("actor", p.UserID))

	return s.visible(ctx, p, id)
}

// AddNote appends a note. Only staff may add private notes.
func (s *DefaultAppointmentService) AddNote(ctx context.Context, p access.Principal, id string, in NoteInput) (*models.Appointment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, utils.NewValidationError("", "note content is required")
	}

	appt, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(id, err, "appointment lookup failed")
	}
	if err := access.Authorize(p, access.AppointmentNote, appt.Client.ID); err != nil {
		return nil, err
	}
	if in.IsPrivate {
		if err := access.Authorize(p, access.AppointmentPrivate, ""); err != nil {
			return nil, err
		}
	}

	now := s.now()
	noteType := strings.TrimSpace(in.Type)
	if noteType == "" {
		noteType = noteTypeFor(p.Role)
	}
	note := models.Note{
		Type:      noteType,
		Content:   content,
		IsPrivate: in.IsPrivate,
		CreatedBy: p.UserID,
		CreatedAt: now,
	}
	entry := models.TimelineEntry{Event: models.EventNote, Actor: p.UserID, Timestamp: now}
	if err := s.Repo.AddNote(ctx, id, note, entry); err != nil {
		return nil, repoError(id, err, "failed to add note")
	}
	return s.visible(ctx, p, id)
}
