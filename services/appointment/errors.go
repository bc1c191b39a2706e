package appointment

import (
	"errors"
	"fmt"

	"lashstudio/database/repository"
	"lashstudio/models"
	"lashstudio/utils"
)

const (
	CodeAppointmentNotFound   = "appointment_not_found"
	CodeServiceNotFound       = "service_not_found"
	CodeClientNotFound        = "client_not_found"
	CodeInvalidTransition     = "invalid_transition"
	CodeInvalidPaymentChange  = "invalid_payment_transition"
	CodeInvalidDateTime       = "invalid_date_time"
	CodeInvalidPreferences    = "invalid_notification_preferences"
	CodeAppointmentNotPayable = "appointment_not_payable"
)

func errAppointmentNotFound(id string) error {
	return utils.NewNotFoundError(CodeAppointmentNotFound, fmt.Sprintf("appointment %s not found", id))
}

func errInvalidTransition(from, to models.AppointmentStatus) error {
	return utils.NewConflictError(CodeInvalidTransition, fmt.Sprintf("cannot move appointment from %s to %s", from, to))
}

// repoError maps repository sentinels for an appointment lookup or write.
func repoError(id string, err error, action string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errAppointmentNotFound(id)
	case errors.Is(err, repository.ErrStateChanged):
		return utils.NewConflictError(CodeInvalidTransition, "appointment was changed by another request")
	default:
		return utils.NewInternalError(action, err)
	}
}
