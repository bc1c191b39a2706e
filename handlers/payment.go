package handlers

import (
	"io"
	"net/http"

	"lashstudio/services/payment"
	"lashstudio/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// maxWebhookBytes bounds the Stripe event payload.
const maxWebhookBytes = int64(65536)

type PaymentHandler struct {
	PaymentService payment.PaymentService
	WebhookSecret  string
}

func NewPaymentHandler(svc payment.PaymentService, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{PaymentService: svc, WebhookSecret: webhookSecret}
}

// CreateIntentHandler handles POST /api/payments/create-intent.
func (h *PaymentHandler) CreateIntentHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var body struct {
		AppointmentID string `json:"appointmentId" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	res, err := h.PaymentService.CreateIntent(c.Request.Context(), p, body.AppointmentID)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"payment": res})
}

// WebhookHandler handles POST /api/payments/webhook. The raw body must reach
// signature verification unparsed.
func (h *PaymentHandler) WebhookHandler(c *gin.Context) {
	logger := getLogger(c)
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "read_failed", "Could not read request body", "")
		return
	}

	evt, err := webhook.ConstructEventWithOptions(body, c.GetHeader("Stripe-Signature"), h.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		logger.Warn("webhook signature verification failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "invalid_signature", "Webhook signature verification failed", "")
		return
	}

	res, err := h.PaymentService.HandleEvent(c.Request.Context(), evt)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	logger.Info("webhook processed",
		zap.String("eventId", res.EventID),
		zap.String("eventType", res.EventType),
		zap.String("outcome", res.Outcome))
	utils.RespondOK(c, http.StatusOK, gin.H{"received": true, "result": res})
}
