package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cg-server/internal/infrastructure/auth"
	"cg-server/internal/interfaces/httpserver/responses"
)

const (
	ContextUserIDKey = "user_id"
	ContextEmailKey  = "user_email"
)

// SessionAuthMiddleware validates a bearer session token and stores the
// caller's identity in the gin context.
func SessionAuthMiddleware(tokens *auth.TokenManager, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, nil, "authentication required")
			return
		}

		claims, err := tokens.VerifyAccess(c.Request.Context(), raw)
		if err != nil {
			logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("session token rejected")
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, err, "invalid or expired token")
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, err, "invalid token subject")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}

// UserIDFromContext returns the authenticated account id.
func UserIDFromContext(c *gin.Context) (uint, bool) {
	val, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
