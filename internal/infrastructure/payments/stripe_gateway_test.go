package payments

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/servicemart/internal/domain/gateway"
)

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(42050), MinorUnits(decimal.RequireFromString("420.50")))
	assert.Equal(t, int64(1), MinorUnits(decimal.RequireFromString("0.005")))
	assert.Equal(t, int64(9900), MinorUnits(decimal.NewFromInt(99)))
}

func TestSessionParams(t *testing.T) {
	g := NewStripeGateway("", "INR")
	p := g.sessionParams(context.Background(), gateway.CheckoutRequest{
		Reference:  "u1",
		Email:      "ann@example.com",
		SuccessURL: "https://shop.test/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "https://shop.test/cart",
		Lines: []gateway.PaymentLine{
			{Name: "Cement", UnitPrice: decimal.NewFromInt(90), Quantity: 11, Image: "https://img/1.png"},
		},
		Metadata: map[string]string{"order_ids": "o1,o2"},
	})

	require.Len(t, p.LineItems, 1)
	li := p.LineItems[0]
	assert.Equal(t, "inr", *li.PriceData.Currency)
	assert.Equal(t, int64(9000), *li.PriceData.UnitAmount)
	assert.Equal(t, int64(11), *li.Quantity)
	assert.Equal(t, "u1", *p.ClientReferenceID)
	assert.Equal(t, "o1,o2", p.Metadata["order_ids"])
}

func TestUnconfiguredGateway(t *testing.T) {
	g := NewStripeGateway("", "inr")
	_, err := g.CreateCheckoutSession(context.Background(), gateway.CheckoutRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = g.SessionPaid(context.Background(), "cs_test")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
