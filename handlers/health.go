package handlers

import (
	"net/http"

	"lashstudio/config"
	"lashstudio/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles GET /api/health from the last background probe.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	state := "ok"
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{
		"success":      code == http.StatusOK,
		"status":       state,
		"version":      config.AppConfig.AppVersion,
		"dependencies": status,
	})
}
