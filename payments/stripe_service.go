package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anjiri1684/eduplatform/models"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway builds the card gateway. backends may be nil; tests use it to
// point the client at a local server.
func NewStripeGateway(secretKey, webhookSecret string, backends *stripe.Backends) *StripeGateway {
	return &StripeGateway{
		api:           client.New(secretKey, backends),
		webhookSecret: webhookSecret,
	}
}

func (g *StripeGateway) Provider() string { return models.ProviderStripe }

func (g *StripeGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(ToMinorUnits(req.Amount, req.Currency)),
		Currency:           stripe.String(strings.ToLower(req.Currency)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	params.Context = ctx
	params.AddMetadata("transaction_id", req.TransactionID)
	params.SetIdempotencyKey(req.TransactionID)

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, stripeMessage(err)
	}

	return &Intent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       MapStripeStatus(string(intent.Status)),
	}, nil
}

func (g *StripeGateway) FetchStatus(ctx context.Context, intentID string) (models.PaymentStatus, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := g.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return "", stripeMessage(err)
	}
	return MapStripeStatus(string(intent.Status)), nil
}

// ParseWebhook verifies the Stripe-Signature header against the raw body and
// decodes the payment intent or charge the event is about.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, err
	}

	out := &WebhookEvent{
		Provider: models.ProviderStripe,
		ID:       event.ID,
		Type:     string(event.Type),
		Payload:  payload,
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent: %w", err)
		}
		out.IntentID = intent.ID
		out.Status = models.PaymentSucceeded
		if event.Type == "payment_intent.payment_failed" {
			out.Status = models.PaymentFailed
			if intent.LastPaymentError != nil {
				out.Message = intent.LastPaymentError.Msg
			}
		}
	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return nil, fmt.Errorf("failed to decode charge: %w", err)
		}
		if charge.PaymentIntent != nil {
			out.IntentID = charge.PaymentIntent.ID
		}
		out.Status = models.PaymentRefunded
	}

	return out, nil
}

// MapStripeStatus translates a payment intent status. Anything not listed is
// treated as a failure.
func MapStripeStatus(status string) models.PaymentStatus {
	switch status {
	case "succeeded":
		return models.PaymentSucceeded
	case "processing":
		return models.PaymentProcessing
	case "requires_payment_method":
		return models.PaymentPending
	case "canceled":
		return models.PaymentCancelled
	default:
		return models.PaymentFailed
	}
}

func stripeMessage(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return errors.New(stripeErr.Msg)
	}
	return err
}
