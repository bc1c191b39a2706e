package handlers

import (
	"net/http"
	"strconv"
	"time"

	"lashstudio/middleware"
	"lashstudio/services/access"
	"lashstudio/utils"

	"github.com/gin-gonic/gin"
)

// principal returns the authenticated caller or writes a 401.
func principal(c *gin.Context) (access.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		utils.RespondError(c, getLogger(c), utils.NewUnauthenticatedError("authentication required"))
	}
	return p, ok
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", "Invalid request body", err.Error())
		return false
	}
	return true
}

// queryTime parses an optional RFC 3339 query parameter.
func queryTime(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", "Invalid "+key+" parameter", "expected RFC 3339 timestamp")
		return time.Time{}, false
	}
	return t, true
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
