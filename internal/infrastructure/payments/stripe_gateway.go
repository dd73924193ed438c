// Package payments implements the payment gateway on Stripe Checkout.
package payments

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/oksasatya/servicemart/internal/domain/gateway"
)

var ErrNotConfigured = gateway.ErrPaymentsDisabled

type StripeGateway struct {
	api      *client.API
	currency string
}

// NewStripeGateway returns a gateway using key. An empty key yields a
// gateway whose calls fail with ErrNotConfigured.
func NewStripeGateway(key, currency string) *StripeGateway {
	g := &StripeGateway{currency: strings.ToLower(currency)}
	if key != "" {
		g.api = client.New(key, nil)
	}
	return g
}

// MinorUnits converts a decimal amount into the smallest currency unit.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func (g *StripeGateway) sessionParams(ctx context.Context, req gateway.CheckoutRequest) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.Reference),
	}
	params.Context = ctx
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	for _, l := range req.Lines {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{Name: stripe.String(l.Name)}
		if l.Image != "" {
			product.Images = stripe.StringSlice([]string{l.Image})
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(g.currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(MinorUnits(l.UnitPrice)),
			},
			Quantity: stripe.Int64(int64(l.Quantity)),
		})
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	return params
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req gateway.CheckoutRequest) (gateway.CheckoutSession, error) {
	if g.api == nil {
		return gateway.CheckoutSession{}, ErrNotConfigured
	}
	s, err := g.api.CheckoutSessions.New(g.sessionParams(ctx, req))
	if err != nil {
		return gateway.CheckoutSession{}, err
	}
	return gateway.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) SessionPaid(ctx context.Context, sessionID string) (bool, error) {
	if g.api == nil {
		return false, ErrNotConfigured
	}
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return false, err
	}
	return s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil
}
