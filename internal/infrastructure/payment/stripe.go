package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

const stripeEventCheckoutCompleted = "checkout.session.completed"

type stripeGateway struct {
	webhookSecret string
	newSession    func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

func NewStripeGateway(secretKey, webhookSecret string) Gateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &stripeGateway{
		webhookSecret: webhookSecret,
		newSession:    sc.CheckoutSessions.New,
	}
}

func (g *stripeGateway) Method() string {
	return entity.PaymentMethodStripe
}

// toMinorUnits converts 170.50 to 17050.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func fromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}

func (g *stripeGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Invoice %s", req.InvoiceNumber)),
					},
					UnitAmount: stripe.Int64(toMinorUnits(req.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.InvoiceID.String()),
		Metadata:          req.Metadata,
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.Context = ctx

	session, err := g.newSession(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return &CheckoutSession{SessionID: session.ID, URL: session.URL}, nil
}

func (g *stripeGateway) ParseWebhook(payload []byte, header http.Header) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, header.Get("Stripe-Signature"), g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		if errors.Is(err, webhook.ErrNotSigned) || errors.Is(err, webhook.ErrInvalidHeader) ||
			errors.Is(err, webhook.ErrNoValidSignature) || errors.Is(err, webhook.ErrTooOld) {
			return nil, ErrInvalidSignature
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	result := &Event{
		Kind:   EventIgnored,
		Type:   string(event.Type),
		Method: g.Method(),
	}
	if result.Type != stripeEventCheckoutCompleted {
		return result, nil
	}

	var session stripe.CheckoutSession
	if event.Data == nil {
		return nil, ErrMalformedEvent
	}
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	result.Kind = EventCheckoutCompleted
	result.InvoiceID = session.Metadata[MetaInvoiceID]
	result.SessionID = session.ID
	result.Amount = fromMinorUnits(session.AmountTotal)
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		result.TransactionID = session.PaymentIntent.ID
	} else {
		result.TransactionID = session.ID
	}

	return result, nil
}
