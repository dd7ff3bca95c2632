package keyhandler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cg-server/internal/domain/apikey"
	"cg-server/internal/infrastructure/metrics"
	"cg-server/internal/interfaces/httpserver/dto"
	"cg-server/internal/interfaces/httpserver/middlewares"
	"cg-server/internal/interfaces/httpserver/responses"
)

// Handler manages credential display and verification endpoints.
type Handler struct {
	keys   *apikey.Service
	logger zerolog.Logger
}

func NewHandler(keys *apikey.Service, logger zerolog.Logger) *Handler {
	return &Handler{
		keys:   keys,
		logger: logger.With().Str("component", "key-handler").Logger(),
	}
}

// Mine returns the caller's active credential prefix and issue date. The
// secret is never retrievable after issuance.
func (h *Handler) Mine(c *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		responses.HandleErrorWithStatus(c, http.StatusUnauthorized, nil, "user context missing")
		return
	}

	key, err := h.keys.ActiveKeyForUser(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, err, "failed to load credential")
		return
	}
	if key == nil {
		c.JSON(http.StatusOK, dto.MyKeyResponse{OK: false})
		return
	}
	c.JSON(http.StatusOK, dto.MyKeyResponse{
		OK:        true,
		KeyPrefix: key.KeyPrefix,
		IssuedAt:  key.CreatedAt.Format(time.RFC3339),
	})
}

// Verify checks a body-carried raw token and reports plan and prefix.
func (h *Handler) Verify(c *gin.Context) {
	var req dto.VerifyKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "key is required")
		return
	}

	key, err := h.keys.Verify(c.Request.Context(), req.Key)
	if err != nil {
		if errors.Is(err, apikey.ErrNotFound) {
			metrics.RecordKeyVerification(false)
			c.JSON(http.StatusOK, dto.VerifyKeyResponse{OK: false})
			return
		}
		responses.HandleError(c, err, "verification failed")
		return
	}

	metrics.RecordKeyVerification(true)
	c.JSON(http.StatusOK, dto.VerifyKeyResponse{
		OK:        true,
		Plan:      key.Plan,
		KeyPrefix: key.KeyPrefix,
	})
}
