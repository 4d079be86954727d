package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bricesuazo/eboto-api/internal/auth"
	"github.com/bricesuazo/eboto-api/internal/logger"
	"github.com/bricesuazo/eboto-api/internal/response"
)

// Context keys set by the auth middleware
const (
	ContextAccountID    = "account_id"
	ContextAccountEmail = "account_email"
)

// RequireAuth returns a middleware that rejects requests without a valid
// bearer token and stores the account identity in the Gin context
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	log := logger.Auth()

	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.UnauthorizedError(c, "Authorization header with bearer token is required")
			c.Abort()
			return
		}

		claims, err := tokens.ParseToken(tokenString)
		if err != nil {
			log.Warn("rejected bearer token", "error", err, "remote_addr", c.ClientIP())
			response.UnauthorizedError(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextAccountEmail, claims.Email)
		c.Next()
	}
}

// OptionalAuth returns a middleware that stores the account identity when a
// valid bearer token is present but lets anonymous requests through. Handlers
// serving publicity-dependent resources use this to distinguish signed-in
// viewers from anonymous ones.
func OptionalAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := tokens.ParseToken(tokenString)
		if err != nil {
			// A bad token on an optional route is treated as anonymous
			c.Next()
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextAccountEmail, claims.Email)
		c.Next()
	}
}

// AccountID returns the authenticated account ID from the context, if any
func AccountID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextAccountID)
	return id, id != ""
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
