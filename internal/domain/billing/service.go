package billing

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"cg-server/internal/domain/apikey"
	"cg-server/internal/domain/user"
)

// Event is a provider-agnostic view of an inbound billing event.
type Event struct {
	ID            string
	Type          string
	CustomerID    string
	CustomerEmail string
	Payload       []byte
}

// Gateway abstracts the upstream billing provider.
type Gateway interface {
	CreateCustomer(ctx context.Context, email string, userID uint) (string, error)
	CreateCheckoutSession(ctx context.Context, customerID, successURL, cancelURL string) (string, error)
	VerifyWebhook(payload []byte, signature string) (*Event, error)
}

// Event types that trigger credential issuance.
var activeEvents = map[string]struct{}{
	"checkout.session.completed":    {},
	"invoice.payment_succeeded":     {},
	"customer.subscription.created": {},
	"customer.subscription.updated": {},
}

// Service wires checkout-session creation and webhook processing.
type Service struct {
	gateway  Gateway
	users    user.Repository
	keys     *apikey.Service
	webhooks WebhookRepository
	logger   zerolog.Logger
}

// NewService constructs a billing service.
func NewService(
	gateway Gateway,
	users user.Repository,
	keys *apikey.Service,
	webhooks WebhookRepository,
	logger zerolog.Logger,
) *Service {
	return &Service{
		gateway:  gateway,
		users:    users,
		keys:     keys,
		webhooks: webhooks,
		logger:   logger.With().Str("component", "billing-service").Logger(),
	}
}

// StartCheckout ensures the account has a billing customer and creates a
// hosted checkout session, returning its URL.
func (s *Service) StartCheckout(ctx context.Context, u *user.User, site string) (string, error) {
	if u.StripeCustomerID == nil || *u.StripeCustomerID == "" {
		customerID, err := s.gateway.CreateCustomer(ctx, u.Email, u.ID)
		if err != nil {
			return "", err
		}
		u.StripeCustomerID = &customerID
		if err := s.users.Update(ctx, u); err != nil {
			return "", err
		}
	}

	successURL := site + "/dashboard/?sub=success"
	cancelURL := site + "/dashboard/?sub=cancel"
	return s.gateway.CreateCheckoutSession(ctx, *u.StripeCustomerID, successURL, cancelURL)
}

// VerifyWebhook validates a raw webhook delivery against the signing secret.
func (s *Service) VerifyWebhook(payload []byte, signature string) (*Event, error) {
	return s.gateway.VerifyWebhook(payload, signature)
}

// ProcessEvent records the event for deduplication and, for subscription-start
// event types, issues a fresh credential for the matched owner. Retried
// deliveries of an already seen event id are skipped before any side effect.
// The issued key is returned when issuance happened, nil otherwise.
func (s *Service) ProcessEvent(ctx context.Context, evt *Event) (*apikey.Key, error) {
	firstSeen, err := s.webhooks.Record(ctx, &WebhookEvent{
		EventID:    evt.ID,
		Kind:       evt.Type,
		Payload:    evt.Payload,
		ReceivedAt: nowFunc(),
	})
	if err != nil {
		return nil, err
	}
	if !firstSeen {
		s.logger.Info().Str("event_id", evt.ID).Msg("duplicate webhook delivery skipped")
		return nil, nil
	}

	if _, ok := activeEvents[evt.Type]; !ok {
		s.logger.Info().Str("event_type", evt.Type).Msg("ignoring webhook event type")
		return nil, nil
	}

	owner, err := s.matchOwner(ctx, evt)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		s.logger.Warn().
			Str("event_id", evt.ID).
			Str("customer", evt.CustomerID).
			Msg("webhook matched no account, skipping issuance")
		return nil, nil
	}

	params := apikey.IssueParams{UserID: &owner.ID, Plan: apikey.PlanPro}
	if evt.CustomerID != "" {
		params.CustomerID = &evt.CustomerID
	}
	_, key, err := s.keys.Issue(ctx, params)
	if err != nil {
		return nil, err
	}
	return key, nil
}

// overridable in tests
var nowFunc = time.Now

func (s *Service) matchOwner(ctx context.Context, evt *Event) (*user.User, error) {
	if evt.CustomerID != "" {
		u, err := s.users.FindByStripeCustomerID(ctx, evt.CustomerID)
		if err != nil {
			return nil, err
		}
		if u != nil {
			return u, nil
		}
	}
	if evt.CustomerEmail != "" {
		return s.users.FindByEmail(ctx, user.NormalizeEmail(evt.CustomerEmail))
	}
	return nil, nil
}
