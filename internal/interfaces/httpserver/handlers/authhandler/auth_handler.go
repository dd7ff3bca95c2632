package authhandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cg-server/internal/domain/user"
	"cg-server/internal/infrastructure/auth"
	"cg-server/internal/interfaces/httpserver/dto"
	"cg-server/internal/interfaces/httpserver/middlewares"
	"cg-server/internal/interfaces/httpserver/responses"
)

// Handler manages account registration and session tokens.
type Handler struct {
	users  *user.Service
	tokens *auth.TokenManager
	logger zerolog.Logger
}

func NewHandler(users *user.Service, tokens *auth.TokenManager, logger zerolog.Logger) *Handler {
	return &Handler{
		users:  users,
		tokens: tokens,
		logger: logger.With().Str("component", "auth-handler").Logger(),
	}
}

// Register creates an account and returns a session token pair.
func (h *Handler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid request payload")
		return
	}

	u, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "email already registered")
			return
		}
		responses.HandleError(c, err, "registration failed")
		return
	}

	access, refresh, err := h.tokens.IssuePair(u.ID, u.Email)
	if err != nil {
		responses.HandleError(c, err, "failed to issue tokens")
		return
	}
	c.JSON(http.StatusCreated, dto.TokenResponse{AccessToken: access, RefreshToken: refresh})
}

// Login exchanges email/password for a session token pair.
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid request payload")
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, err, "invalid email or password")
			return
		}
		responses.HandleError(c, err, "login failed")
		return
	}

	access, refresh, err := h.tokens.IssuePair(u.ID, u.Email)
	if err != nil {
		responses.HandleError(c, err, "failed to issue tokens")
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: access, RefreshToken: refresh})
}

// Refresh rotates a refresh token into a fresh pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "refresh_token required")
		return
	}

	claims, err := h.tokens.VerifyRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		responses.HandleErrorWithStatus(c, http.StatusUnauthorized, err, "invalid refresh token")
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		responses.HandleErrorWithStatus(c, http.StatusUnauthorized, err, "invalid refresh token")
		return
	}

	access, refresh, err := h.tokens.IssuePair(userID, claims.Email)
	if err != nil {
		responses.HandleError(c, err, "failed to issue tokens")
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: access, RefreshToken: refresh})
}

// Me echoes the authenticated account.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		responses.HandleErrorWithStatus(c, http.StatusUnauthorized, nil, "user context missing")
		return
	}

	u, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, err, "failed to load account")
		return
	}
	if u == nil {
		responses.HandleErrorWithStatus(c, http.StatusNotFound, nil, "account not found")
		return
	}

	c.JSON(http.StatusOK, dto.MeResponse{
		ID:               u.ID,
		Email:            u.Email,
		StripeCustomerID: u.StripeCustomerID,
	})
}
