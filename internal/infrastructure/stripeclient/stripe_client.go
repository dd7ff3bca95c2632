package stripeclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"

	"cg-server/internal/config"
	"cg-server/internal/domain/billing"
	"cg-server/internal/utils/platformerrors"
)

// Client implements billing.Gateway against the Stripe API.
type Client struct {
	api           *client.API
	priceID       string
	webhookSecret string
	logger        zerolog.Logger
}

func NewClient(cfg *config.Config, log zerolog.Logger) billing.Gateway {
	api := &client.API{}
	api.Init(cfg.StripeSecretKey, nil)
	return &Client{
		api:           api,
		priceID:       cfg.StripePriceID,
		webhookSecret: cfg.StripeWebhookSecret,
		logger:        log.With().Str("component", "stripe-client").Logger(),
	}
}

func (c *Client) CreateCustomer(ctx context.Context, email string, userID uint) (string, error) {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(email),
	}
	params.AddMetadata("user_id", fmt.Sprintf("%d", userID))

	cust, err := c.api.Customers.New(params)
	if err != nil {
		return "", platformerrors.AsError(ctx, platformerrors.LayerUpstream, err, "failed to create billing customer")
	}
	return cust.ID, nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, customerID, successURL, cancelURL string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Params:     stripe.Params{Context: ctx},
		Customer:   stripe.String(customerID),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(c.priceID),
				Quantity: stripe.Int64(1),
			},
		},
	}

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", platformerrors.AsError(ctx, platformerrors.LayerUpstream, err, "failed to create checkout session")
	}
	return sess.URL, nil
}

// VerifyWebhook checks the delivery signature and flattens the payload into a
// provider-agnostic event. Customer id and email live in different places per
// event type, so both common shapes are probed.
func (c *Client) VerifyWebhook(payload []byte, signature string) (*billing.Event, error) {
	evt, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return nil, platformerrors.NewError(context.Background(), platformerrors.LayerHandler, platformerrors.ErrorTypeUnauthorized, "invalid webhook signature")
	}

	out := &billing.Event{
		ID:      evt.ID,
		Type:    string(evt.Type),
		Payload: payload,
	}

	var obj struct {
		Customer        json.RawMessage `json:"customer"`
		CustomerEmail   string          `json:"customer_email"`
		CustomerDetails struct {
			Email string `json:"email"`
		} `json:"customer_details"`
	}
	if err := json.Unmarshal(evt.Data.Raw, &obj); err == nil {
		out.CustomerID = flattenCustomer(obj.Customer)
		out.CustomerEmail = obj.CustomerEmail
		if out.CustomerEmail == "" {
			out.CustomerEmail = obj.CustomerDetails.Email
		}
	}
	return out, nil
}

// flattenCustomer accepts both the string id form and the expanded object
// form of the customer field.
func flattenCustomer(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.ID
	}
	return ""
}
