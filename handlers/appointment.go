package handlers

import (
	"net/http"

	"lashstudio/models"
	"lashstudio/services/appointment"
	"lashstudio/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	AppointmentService appointment.AppointmentService
}

func NewAppointmentHandler(svc appointment.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{AppointmentService: svc}
}

// CreateHandler handles POST /api/appointments.
func (h *AppointmentHandler) CreateHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in appointment.CreateInput
	if !bindJSON(c, &in) {
		return
	}
	appt, err := h.AppointmentService.Create(c.Request.Context(), p, in)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	getLogger(c).Info("appointment booked",
		zap.String("appointmentId", appt.ID),
		zap.String("clientId", appt.Client.ID),
		zap.Float64("totalPrice", appt.Payment.TotalPrice))
	utils.RespondOK(c, http.StatusCreated, gin.H{"appointment": appt})
}

// ListHandler handles GET /api/appointments?status=&clientId=&from=&to=.
func (h *AppointmentHandler) ListHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}
	q := appointment.ListQuery{
		ClientID: c.Query("clientId"),
		Status:   models.AppointmentStatus(c.Query("status")),
	}
	if !from.IsZero() {
		q.From = &from
	}
	if !to.IsZero() {
		q.To = &to
	}
	if q.Status != "" && !q.Status.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", "Invalid status filter", string(q.Status))
		return
	}

	appts, err := h.AppointmentService.List(c.Request.Context(), p, q)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"appointments": appts, "count": len(appts)})
}

// GetHandler handles GET /api/appointments/:id.
func (h *AppointmentHandler) GetHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	appt, err := h.AppointmentService.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"appointment": appt})
}

// UpdateStatusHandler handles PUT /api/appointments/:id.
func (h *AppointmentHandler) UpdateStatusHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in appointment.StatusInput
	if !bindJSON(c, &in) {
		return
	}
	appt, err := h.AppointmentService.UpdateStatus(c.Request.Context(), p, c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"appointment": appt})
}

// AddNoteHandler handles POST /api/appointments/:id/notes.
func (h *AppointmentHandler) AddNoteHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in appointment.NoteInput
	if !bindJSON(c, &in) {
		return
	}
	appt, err := h.AppointmentService.AddNote(c.Request.Context(), p, c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, gin.H{"appointment": appt})
}

// SetPaymentHandler handles PUT /api/appointments/:id/payment for manual payments.
func (h *AppointmentHandler) SetPaymentHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in appointment.PaymentInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.AppointmentService.SetPayment(c.Request.Context(), p, c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{
		"appointment":    out.Appointment,
		"alreadyApplied": out.AlreadyApplied,
		"promoRedeemed":  out.PromoRedeemed,
	})
}
