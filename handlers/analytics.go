package handlers

import (
	"net/http"
	"strconv"

	"lashstudio/services/analytics"
	"lashstudio/utils"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	AnalyticsService analytics.AnalyticsService
}

func NewAnalyticsHandler(svc analytics.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{AnalyticsService: svc}
}

// DashboardHandler handles GET /api/analytics/dashboard?start=&end=.
func (h *AnalyticsHandler) DashboardHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	start, ok := queryTime(c, "start")
	if !ok {
		return
	}
	end, ok := queryTime(c, "end")
	if !ok {
		return
	}
	summary, err := h.AnalyticsService.Dashboard(c.Request.Context(), p, start, end)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"analytics": summary})
}

// ReportsHandler handles GET /api/analytics/reports?limit=.
func (h *AnalyticsHandler) ReportsHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	reports, err := h.AnalyticsService.ListReports(c.Request.Context(), p, limit)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}
