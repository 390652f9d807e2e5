package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/evcraddock/realty/internal/apperr"
)

// Failure reasons passed to the RequireAuth observer.
const (
	ReasonMissingToken = "missing_token"
	ReasonInvalidToken = "invalid_token"
)

// RequireAuth is middleware that validates Bearer token auth.
// Returns 401 when no token is presented and 403 when it fails verification.
// observe, if non-nil, is told the reason for each rejection.
func RequireAuth(tokens *TokenService, observe func(reason string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			reject(c, observe, ReasonMissingToken, apperr.New(apperr.Unauthenticated, "Access denied. No token provided."))
			return
		}

		id, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			reject(c, observe, ReasonInvalidToken, apperr.New(apperr.InvalidCredential, "Invalid or expired token"))
			return
		}

		SetIdentity(c, id)
		c.Next()
	}
}

// RequireAdmin is middleware that rejects non-admin callers with 403.
// It must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		if err := AdminOnly(id); err != nil {
			c.AbortWithStatusJSON(err.Status(), err)
			return
		}
		c.Next()
	}
}

func reject(c *gin.Context, observe func(string), reason string, err *apperr.Error) {
	if observe != nil {
		observe(reason)
	}
	c.AbortWithStatusJSON(err.Status(), err)
}
