package middleware

import (
	"net/http"

	"lashstudio/models"
	"lashstudio/utils"

	"github.com/gin-gonic/gin"
)

// RequireRoles rejects principals whose role is not listed. It must run after Authenticate.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "unauthenticated", "Authentication required", "")
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		utils.JSONError(c, http.StatusForbidden, "forbidden", "Insufficient role", string(p.Role))
	}
}
