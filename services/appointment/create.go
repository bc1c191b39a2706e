package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"lashstudio/database/repository"
	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultAppointmentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *DefaultAppointmentService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.New().String()
}

func (s *DefaultAppointmentService) currency() string {
	if s.Currency == "" {
		return "usd"
	}
	return strings.ToLower(s.Currency)
}

// Create validates the booking, prices it and stores it together with its
// notification entries. Nothing is written when any check fails.
func (s *DefaultAppointmentService) Create(ctx context.Context, p access.Principal, in CreateInput) (*models.Appointment, error) {
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" {
		clientID = p.UserID
	}
	if err := access.Authorize(p, access.AppointmentCreate, clientID); err != nil {
		return nil, err
	}

	now := s.now()
	schedule, err := parseSchedule(in, now)
	if err != nil {
		return nil, err
	}

	pkg, err := s.Catalog.GetByID(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError(CodeServiceNotFound, "service not found")
		}
		return nil, utils.NewInternalError("service lookup failed", err)
	}
	if !pkg.IsActive {
		return nil, utils.NewNotFoundError(CodeServiceNotFound, "service is not available")
	}

	client, err := s.Users.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError(CodeClientNotFound, "client not found")
		}
		return nil, utils.NewInternalError("client lookup failed", err)
	}
	if !client.IsActive {
		return nil, utils.NewNotFoundError(CodeClientNotFound, "client account is inactive")
	}

	payment, err := s.price(ctx, pkg, in.PromoCode)
	if err != nil {
		return nil, err
	}

	notifications, err := s.Scheduler.Schedule(schedule.Date, now, client.Preferences)
	if err != nil {
		return nil, utils.NewValidationError(CodeInvalidPreferences, err.Error())
	}

	appt := &models.Appointment{
		ID: s.newID(),
		Client: models.ClientSnapshot{
			ID:    client.ID,
			Name:  client.FullName(),
			Email: client.Email,
			Phone: client.Profile.Phone,
		},
		Service: models.ServiceSnapshot{
			ID:              pkg.ID,
			Name:            pkg.Name,
			Price:           pkg.Price,
			DurationMinutes: pkg.DurationMinutes,
		},
		DateTime:       schedule,
		Status:         models.StatusConfirmed,
		Payment:        payment,
		Addons:         nonNil(in.Addons),
		ReferralSource: in.ReferralSource,
		Notes:          []models.Note{},
		Notifications:  notifications,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if text := strings.TrimSpace(in.Notes); text != "" {
		appt.Notes = append(appt.Notes, models.Note{
			Type:      noteTypeFor(p.Role),
			Content:   text,
			CreatedBy: p.UserID,
			CreatedAt: now,
		})
	}
	appt.Timeline = appt.Timeline.Append(models.TimelineEntry{
		Event:     models.EventCreated,
		Actor:     p.UserID,
		Timestamp: now,
	})

	if err := s.Repo.Create(ctx, appt); err != nil {
		return nil, utils.NewInternalError("failed to store appointment", err)
	}

	s.Logger.Info("appointment created",
		zap.String("appointmentId", appt.ID),
		zap.String("clientId", appt.Client.ID),
		zap.String("serviceId", appt.Service.ID),
		zap.Float64("total", appt.Payment.TotalPrice),
		zap.Int("notifications", len(appt.Notifications)))
	return appt, nil
}

// price builds the pending payment, applying the promo code when one is given.
func (s *DefaultAppointmentService) price(ctx context.Context, pkg *models.ServicePackage, code string) (models.Payment, error) {
	payment := models.Payment{
		Status:     models.PaymentPending,
		Currency:   s.currency(),
		Subtotal:   utils.RoundCents(pkg.Price),
		TotalPrice: utils.RoundCents(pkg.Price),
	}
	if strings.TrimSpace(code) == "" {
		return payment, nil
	}

	res, err := s.Promos.Evaluate(ctx, code, payment.Subtotal, pkg.ID)
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) && strings.HasPrefix(appErr.Code, "promo_") {
			return payment, utils.NewValidationError(appErr.Code, appErr.Message)
		}
		return payment, err
	}

	payment.TotalPrice = res.Total
	payment.Discount = &models.AppliedDiscount{
		Code:   res.Promo.Code,
		Type:   res.Promo.DiscountType,
		Value:  res.Promo.DiscountValue,
		Amount: res.Discount,
	}
	return payment, nil
}

// parseSchedule reads the RFC 3339 instant and fills the wall-clock label in the
// requested timezone.
func parseSchedule(in CreateInput, now time.Time) (models.Schedule, error) {
	at, err := time.Parse(time.RFC3339, strings.TrimSpace(in.DateTime))
	if err != nil {
		return models.Schedule{}, utils.NewValidationError(CodeInvalidDateTime, "dateTime must be an RFC 3339 timestamp")
	}
	if !at.After(now) {
		return models.Schedule{}, utils.NewValidationError(CodeInvalidDateTime, "dateTime must be in the future")
	}

	tz := strings.TrimSpace(in.Timezone)
	loc := time.UTC
	if tz != "" {
		if loc, err = time.LoadLocation(tz); err != nil {
			return models.Schedule{}, utils.NewValidationError(CodeInvalidDateTime, "unknown timezone "+tz)
		}
	} else {
		tz = "UTC"
	}

	label := strings.TrimSpace(in.Time)
	if label == "" {
		label = at.In(loc).Format("15:04")
	}
	return models.Schedule{Date: at.UTC(), Time: label, Timezone: tz}, nil
}

func noteTypeFor(role models.Role) string {
	if role.IsStaff() {
		return "staff"
	}
	return "client"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
