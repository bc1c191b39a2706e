package notification

import (
	"context"
	"fmt"
	"time"

	"lashstudio/models"

	"go.uber.org/zap"
)

// DueStore is the slice of the appointment store the dispatcher needs.
type DueStore interface {
	FindDueNotifications(ctx context.Context, now time.Time, limit int) ([]models.Appointment, error)
	UpdateNotification(ctx context.Context, apptID, notificationID string, status models.NotificationStatus, sentAt *time.Time, errMsg string) error
}

// UserLookup resolves push tokens.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// DispatchStats summarizes one dispatch pass.
type DispatchStats struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Dispatcher sends pending notification entries that are due. Each pass is
// independent; entries are settled individually so a failure never blocks others.
type Dispatcher struct {
	Store     DueStore
	Users     UserLookup
	Senders   map[string]Sender
	BatchSize int
	Logger    *zap.Logger
	Now       func() time.Time
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

// DispatchDue runs one pass over due entries.
func (d *Dispatcher) DispatchDue(ctx context.Context) (DispatchStats, error) {
	var stats DispatchStats
	now := d.now()

	appts, err := d.Store.FindDueNotifications(ctx, now, d.BatchSize)
	if err != nil {
		return stats, fmt.Errorf("dispatch: %w", err)
	}

	for i := range appts {
		appt := &appts[i]
		for _, entry := range appt.Notifications {
			if entry.Status != models.NotificationPending || entry.ScheduledFor.After(now) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			sendErr := d.deliver(ctx, appt, entry, now)
			status := models.NotificationSent
			var sentAt *time.Time
			errMsg := ""
			if sendErr != nil {
				status = models.NotificationFailed
				errMsg = sendErr.Error()
				stats.Failed++
				d.Logger.Warn("notification not delivered",
					zap.String("appointmentId", appt.ID),
					zap.String("notificationId", entry.ID),
					zap.String("type", entry.Type),
					zap.String("method", entry.Method),
					zap.Error(sendErr))
			} else {
				sentAt = &now
				stats.Sent++
			}

			if err := d.Store.UpdateNotification(ctx, appt.ID, entry.ID, status, sentAt, errMsg); err != nil {
				d.Logger.Error("failed to record notification outcome",
					zap.String("appointmentId", appt.ID),
					zap.String("notificationId", entry.ID),
					zap.Error(err))
			}
		}
	}

	d.Logger.Info("notification dispatch pass finished", zap.Int("sent", stats.Sent), zap.Int("failed", stats.Failed))
	return stats, nil
}

func (d *Dispatcher) deliver(ctx context.Context, appt *models.Appointment, entry models.NotificationEntry, now time.Time) error {
	if appt.Status != models.StatusConfirmed {
		return fmt.Errorf("appointment %s", appt.Status)
	}
	if entry.Type != models.NotificationConfirmation && !appt.DateTime.Date.After(now) {
		return fmt.Errorf("expired")
	}

	sender, ok := d.Senders[entry.Method]
	if !ok || sender == nil {
		return fmt.Errorf("channel %s not configured", entry.Method)
	}

	to, err := d.recipient(ctx, appt, entry.Method)
	if err != nil {
		return err
	}

	msg, err := Render(entry, appt, now)
	if err != nil {
		return err
	}
	msg.To = to
	return sender.Send(ctx, msg)
}

func (d *Dispatcher) recipient(ctx context.Context, appt *models.Appointment, method string) (string, error) {
	var to string
	switch method {
	case models.ChannelEmail:
		to = appt.Client.Email
	case models.ChannelSMS:
		to = appt.Client.Phone
	case models.ChannelPush:
		if d.Users == nil {
			return "", fmt.Errorf("push recipients unavailable")
		}
		u, err := d.Users.GetByID(ctx, appt.Client.ID)
		if err != nil {
			return "", fmt.Errorf("lookup client %s: %w", appt.Client.ID, err)
		}
		to = u.FCMToken
	}
	if to == "" {
		return "", fmt.Errorf("client has no %s address", method)
	}
	return to, nil
}
