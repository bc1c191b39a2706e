package middleware

import (
	"context"
	"net/http"
	"strings"

	"lashstudio/services/access"
	"lashstudio/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	principalKey = "principal"
	uidKey       = "uid"
	emailKey     = "email"
)

// TokenVerifier checks Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// PrincipalResolver maps a verified uid to the caller's principal.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, uid string) (access.Principal, error)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func verify(c *gin.Context, verifier TokenVerifier) (*auth.Token, bool) {
	raw := bearerToken(c)
	if raw == "" {
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated", "Missing or invalid Authorization header", "")
		return nil, false
	}
	token, err := verifier.VerifyIDToken(c.Request.Context(), raw)
	if err != nil {
		zap.L().Debug("token verification failed", zap.Error(err))
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated", "Invalid or expired token", "")
		return nil, false
	}
	c.Set(uidKey, token.UID)
	if email, ok := token.Claims["email"].(string); ok {
		c.Set(emailKey, email)
	}
	return token, true
}

// VerifiedIdentity only checks the token. It serves registration, where no user
// document exists yet.
func VerifiedIdentity(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := verify(c, verifier); !ok {
			return
		}
		c.Next()
	}
}

// Authenticate verifies the token and resolves the registered, active principal.
func Authenticate(verifier TokenVerifier, resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := verify(c, verifier)
		if !ok {
			return
		}
		p, err := resolver.ResolvePrincipal(c.Request.Context(), token.UID)
		if err != nil {
			utils.RespondError(c, zap.L(), err)
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by Authenticate.
func PrincipalFrom(c *gin.Context) (access.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return access.Principal{}, false
	}
	p, ok := v.(access.Principal)
	return p, ok
}

// IdentityFrom returns the verified uid and email.
func IdentityFrom(c *gin.Context) (uid, email string) {
	return c.GetString(uidKey), c.GetString(emailKey)
}
