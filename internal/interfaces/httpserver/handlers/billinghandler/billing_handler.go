package billinghandler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cg-server/internal/config"
	"cg-server/internal/domain/billing"
	"cg-server/internal/domain/user"
	"cg-server/internal/infrastructure/metrics"
	"cg-server/internal/infrastructure/observability"
	"cg-server/internal/interfaces/httpserver/dto"
	"cg-server/internal/interfaces/httpserver/middlewares"
	"cg-server/internal/interfaces/httpserver/responses"
)

const webhookProcessTimeout = 30 * time.Second

// Handler manages checkout-session creation and the billing webhook.
type Handler struct {
	billing *billing.Service
	users   *user.Service
	cfg     *config.Config
	logger  zerolog.Logger
}

func NewHandler(billingService *billing.Service, users *user.Service, cfg *config.Config, logger zerolog.Logger) *Handler {
	return &Handler{
		billing: billingService,
		users:   users,
		cfg:     cfg,
		logger:  logger.With().Str("component", "billing-handler").Logger(),
	}
}

// Checkout creates a hosted checkout session for the caller.
func (h *Handler) Checkout(c *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		responses.HandleErrorWithStatus(c, http.StatusUnauthorized, nil, "user context missing")
		return
	}

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid request payload")
		return
	}
	site := req.Site
	if site == "" {
		site = h.cfg.CheckoutSiteURL
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

	url, err := h.billing.StartCheckout(c.Request.Context(), u, site)
	if err != nil {
		h.logger.Error().Err(err).Uint("user_id", userID).Msg("checkout session failed")
		responses.HandleError(c, err, "failed to create checkout session")
		return
	}
	c.JSON(http.StatusOK, dto.CheckoutResponse{URL: url})
}

// Webhook receives billing lifecycle events. The delivery is acknowledged as
// soon as the signature checks out; issuance runs in the background so the
// provider never retries on downstream failures.
func (h *Handler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "unreadable payload")
		return
	}

	evt, err := h.billing.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		metrics.RecordWebhookEvent("unknown", "signature_rejected")
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid webhook signature")
		return
	}

	h.logger.Info().Str("event_id", evt.ID).Str("event_type", evt.Type).Msg("webhook received")

	// processing runs detached from the request, under its own span and deadline
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), webhookProcessTimeout)
		defer cancel()
		ctx, span := observability.StartSpan(ctx, h.cfg.ServiceName, "billing.webhook.process")
		defer span.End()

		key, err := h.billing.ProcessEvent(ctx, evt)
		if err != nil {
			observability.RecordError(ctx, err)
			metrics.RecordWebhookEvent(evt.Type, "process_failed")
			h.logger.Error().Err(err).
				Str("event_id", evt.ID).
				Str("trace_id", observability.GetTraceID(ctx)).
				Msg("webhook processing failed")
			return
		}
		if key != nil {
			metrics.RecordKeyIssued(key.Plan, "webhook")
		}
		metrics.RecordWebhookEvent(evt.Type, "processed")
	}()

	c.JSON(http.StatusOK, gin.H{"received": true})
}
