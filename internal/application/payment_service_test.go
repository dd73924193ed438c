package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/gateway"
)

func TestCardCheckoutFlow(t *testing.T) {
	f := newCheckout(t)
	orders, err := f.svc.Orders.Checkout(f.ctx, f.user.ID, CheckoutInput{PaymentMethod: entity.PaymentCard})
	require.NoError(t, err)
	ids := []string{orders[0].ID, orders[1].ID}

	_, err = f.svc.Payments.CreateCheckoutSession(f.ctx, "intruder", ids)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	sess, err := f.svc.Payments.CreateCheckoutSession(f.ctx, f.user.ID, ids)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", sess.ID)
	assert.Equal(t, "https://shop.test/payment/success?session_id={CHECKOUT_SESSION_ID}", f.pay.req.SuccessURL)
	assert.Equal(t, "https://shop.test/cart", f.pay.req.CancelURL)
	assert.Equal(t, "u@x.io", f.pay.req.Email)
	assert.Len(t, f.pay.req.Lines, 2)

	_, err = f.svc.Payments.VerifySession(f.ctx, f.user.ID, sess.ID)
	assert.ErrorIs(t, err, ErrPaymentIncomplete)

	f.pay.paid = true
	paid, err := f.svc.Payments.VerifySession(f.ctx, f.user.ID, sess.ID)
	require.NoError(t, err)
	require.Len(t, paid, 2)
	for _, o := range paid {
		assert.Equal(t, entity.PaymentPaid, o.PaymentStatus)
		assert.Equal(t, entity.OrderProcessing, o.Status)
	}
	assert.Contains(t, f.events.events, gateway.OrderPaid+":"+f.storeA.ID)

	checked := f.pay.checked
	again, err := f.svc.Payments.VerifySession(f.ctx, f.user.ID, sess.ID)
	require.NoError(t, err)
	assert.Len(t, again, 2)
	assert.Equal(t, checked, f.pay.checked, "paid sessions are not re-checked")

	_, err = f.svc.Payments.CreateCheckoutSession(f.ctx, f.user.ID, ids)
	assert.ErrorIs(t, err, ErrPaymentNotPending)
}

func TestCheckoutSessionRejectsCOD(t *testing.T) {
	f := newCheckout(t)
	orders, err := f.svc.Orders.Checkout(f.ctx, f.user.ID, CheckoutInput{})
	require.NoError(t, err)

	_, err = f.svc.Payments.CreateCheckoutSession(f.ctx, f.user.ID, []string{orders[0].ID})
	assert.ErrorIs(t, err, ErrPaymentNotPending)
	_, err = f.svc.Payments.CreateCheckoutSession(f.ctx, f.user.ID, nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = f.svc.Payments.VerifySession(f.ctx, f.user.ID, "cs_unknown")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
