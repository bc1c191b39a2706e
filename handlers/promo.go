package handlers

import (
	"net/http"

	"lashstudio/services/promo"
	"lashstudio/utils"

	"github.com/gin-gonic/gin"
)

type PromoHandler struct {
	Evaluator promo.Evaluator
	Admin     promo.AdminService
}

func NewPromoHandler(evaluator promo.Evaluator, admin promo.AdminService) *PromoHandler {
	return &PromoHandler{Evaluator: evaluator, Admin: admin}
}

// ValidateHandler handles POST /api/promo-codes/validate. It quotes a discount
// without redeeming the code.
func (h *PromoHandler) ValidateHandler(c *gin.Context) {
	var body struct {
		Code      string  `json:"code" binding:"required"`
		Subtotal  float64 `json:"subtotal" binding:"gte=0"`
		ServiceID string  `json:"serviceId"`
	}
	if !bindJSON(c, &body) {
		return
	}
	res, err := h.Evaluator.Evaluate(c.Request.Context(), body.Code, body.Subtotal, body.ServiceID)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{
		"valid":        true,
		"code":         res.Promo.Code,
		"discountType": res.Promo.DiscountType,
		"subtotal":     res.Subtotal,
		"discount":     res.Discount,
		"total":        res.Total,
	})
}

// CreateHandler handles POST /api/promo-codes.
func (h *PromoHandler) CreateHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in promo.CreateInput
	if !bindJSON(c, &in) {
		return
	}
	code, err := h.Admin.Create(c.Request.Context(), p, in)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, gin.H{"promoCode": code})
}

// ListHandler handles GET /api/promo-codes.
func (h *PromoHandler) ListHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	codes, err := h.Admin.List(c.Request.Context(), p)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"promoCodes": codes, "count": len(codes)})
}
