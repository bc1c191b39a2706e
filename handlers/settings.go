package handlers

import (
	"net/http"

	"lashstudio/services/settings"
	"lashstudio/utils"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	SettingsService settings.SettingsService
}

func NewSettingsHandler(svc settings.SettingsService) *SettingsHandler {
	return &SettingsHandler{SettingsService: svc}
}

// GetHandler handles GET /api/site-settings. Only public fields are returned.
func (h *SettingsHandler) GetHandler(c *gin.Context) {
	s, err := h.SettingsService.Public(c.Request.Context())
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"settings": s})
}

// UpdateHandler handles PUT /api/site-settings.
func (h *SettingsHandler) UpdateHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var fields map[string]interface{}
	if !bindJSON(c, &fields) {
		return
	}
	s, err := h.SettingsService.Update(c.Request.Context(), p, fields)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"settings": s})
}
