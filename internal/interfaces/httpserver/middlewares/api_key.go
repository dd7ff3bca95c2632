package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cg-server/internal/config"
	"cg-server/internal/domain/apikey"
	"cg-server/internal/infrastructure/metrics"
	"cg-server/internal/interfaces/httpserver/responses"
)

const (
	ContextTenantIDKey = "tenant_id"
	ContextPlanKey     = "plan"
)

// APIKeyAuthMiddleware authenticates machine credentials on the product API.
// A configured literal test key is accepted as a low-privilege demo identity.
func APIKeyAuthMiddleware(keys *apikey.Service, cfg *config.Config, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, nil, "Missing or invalid Authorization header")
			return
		}

		key, err := keys.Verify(c.Request.Context(), raw)
		if err == nil {
			metrics.RecordKeyVerification(true)
			c.Set(ContextTenantIDKey, key.TenantID)
			c.Set(ContextPlanKey, key.Plan)
			c.Next()
			return
		}
		if !errors.Is(err, apikey.ErrNotFound) {
			responses.HandleError(c, err, "credential verification failed")
			return
		}

		if cfg.TestAPIKey != "" && raw == cfg.TestAPIKey {
			c.Set(ContextTenantIDKey, "dev")
			c.Set(ContextPlanKey, apikey.PlanDemo)
			c.Next()
			return
		}

		metrics.RecordKeyVerification(false)
		logger.Warn().Str("path", c.Request.URL.Path).Msg("api key rejected")
		responses.HandleErrorWithStatus(c, http.StatusUnauthorized, nil, "Invalid or inactive key")
	}
}

// RequireSubscriber gates an endpoint to paid plans.
func RequireSubscriber() gin.HandlerFunc {
	return func(c *gin.Context) {
		plan := c.GetString(ContextPlanKey)
		if plan != apikey.PlanPro && plan != apikey.PlanTeam {
			responses.HandleErrorWithStatus(c, http.StatusForbidden, nil, "subscription required")
			return
		}
		c.Next()
	}
}

// TenantFromContext returns the authenticated credential's tenant id.
func TenantFromContext(c *gin.Context) string {
	return c.GetString(ContextTenantIDKey)
}
