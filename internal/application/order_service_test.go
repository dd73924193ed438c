package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/gateway"
	mailtpl "github.com/oksasatya/servicemart/pkg/mailer/templates"
)

type checkoutFixture struct {
	*env
	user   *entity.Account
	storeA *entity.Account
	storeB *entity.Account
	pa     *entity.Product
	pb     *entity.Product
}

func newCheckout(t *testing.T) *checkoutFixture {
	e := newEnv(t)
	f := &checkoutFixture{env: e}
	f.user = e.account(t, entity.RoleUser, "u@x.io", entity.ApprovalApproved)
	f.storeA = e.account(t, entity.RoleStore, "a@x.io", entity.ApprovalApproved)
	f.storeB = e.account(t, entity.RoleStore, "b@x.io", entity.ApprovalApproved)
	f.pa = e.product(t, f.storeA.ID, 100, 50, entity.BulkTier{MinQuantity: 10, Price: dec(90)})
	f.pb = e.product(t, f.storeB.ID, 40, 5)

	for _, in := range []AddToCartInput{{f.pa.ID, f.storeA.ID, 12}, {f.pb.ID, f.storeB.ID, 3}} {
		_, err := e.svc.Carts.AddToCart(e.ctx, f.user.ID, in)
		require.NoError(t, err)
	}
	return f
}

func TestCheckoutSplitsByStore(t *testing.T) {
	f := newCheckout(t)

	orders, err := f.svc.Orders.Checkout(f.ctx, f.user.ID, CheckoutInput{PaymentMethod: entity.PaymentCOD})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	byStore := map[string]*entity.Order{}
	for _, o := range orders {
		byStore[o.StoreID] = o
		assert.Equal(t, "Pune", o.ShippingAddress.City)
	}
	assert.True(t, byStore[f.storeA.ID].TotalAmount.Equal(dec(1080)))
	assert.True(t, byStore[f.storeB.ID].TotalAmount.Equal(dec(120)))

	assert.Equal(t, 38, f.stock(t, f.pa.ID))
	assert.Equal(t, 2, f.stock(t, f.pb.ID))

	carts, _ := f.svc.Carts.GetCarts(f.ctx, f.user.ID)
	assert.Empty(t, carts)
	assert.ElementsMatch(t, []string{gateway.OrderCreated + ":" + f.storeA.ID, gateway.OrderCreated + ":" + f.storeB.ID}, f.events.events)
	assert.Equal(t, mailtpl.OrderPlaced, f.mail.last(t).Template)

	_, err = f.svc.Orders.Checkout(f.ctx, f.user.ID, CheckoutInput{})
	assert.ErrorIs(t, err, ErrNothingToCheckout)
}

func TestCheckoutIsAllOrNothing(t *testing.T) {
	f := newCheckout(t)
	pb, _ := f.store.Products().GetByID(f.ctx, f.pb.ID)
	pb.Stock = 1
	require.NoError(t, f.store.Products().Update(f.ctx, pb))

	_, err := f.svc.Orders.Checkout(f.ctx, f.user.ID, CheckoutInput{})
	assert.ErrorIs(t, err, entity.ErrInsufficientStock)

	assert.Equal(t, 50, f.stock(t, f.pa.ID))
	assert.Equal(t, 1, f.stock(t, f.pb.ID))
	orders, _ := f.svc.Orders.ListOrders(f.ctx, f.user.ID)
	assert.Empty(t, orders)
	carts, _ := f.svc.Carts.GetCarts(f.ctx, f.user.ID)
	assert.Len(t, carts, 2)
	assert.Empty(t, f.events.events)
}

func TestCheckoutSubsetOfStores(t *testing.T) {
	f := newCheckout(t)
	orders, err := f.svc.Orders.Checkout(f.ctx, f.user.ID, CheckoutInput{StoreIDs: []string{f.storeB.ID}})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, f.storeB.ID, orders[0].StoreID)

	carts, _ := f.svc.Carts.GetCarts(f.ctx, f.user.ID)
	require.Len(t, carts, 1)
	assert.Equal(t, f.storeA.ID, carts[0].StoreID)
}

func TestCreateOrderPricesServerSide(t *testing.T) {
	f := newCheckout(t)
	o, err := f.svc.Orders.CreateOrder(f.ctx, f.user.ID, CreateOrderInput{
		StoreID: f.storeA.ID,
		Items:   []entity.DraftItem{{ProductID: f.pa.ID, Quantity: 10}},
		ShippingAddress: &entity.Address{
			Street: "9 Lake Rd", City: "Mumbai", Pincode: "400001",
		},
	})
	require.NoError(t, err)
	assert.True(t, o.Items[0].UnitPrice.Equal(dec(90)))
	assert.True(t, o.TotalAmount.Equal(dec(900)))
	assert.Equal(t, "Mumbai", o.ShippingAddress.City)
	assert.Equal(t, entity.PaymentCOD, o.PaymentMethod)

	_, err = f.store.Carts().Get(f.ctx, f.user.ID, f.storeA.ID)
	assert.Error(t, err, "cart for the store is cleared")
	_, err = f.store.Carts().Get(f.ctx, f.user.ID, f.storeB.ID)
	assert.NoError(t, err)

	_, err = f.svc.Orders.CreateOrder(f.ctx, f.user.ID, CreateOrderInput{StoreID: f.storeA.ID})
	assert.ErrorIs(t, err, entity.ErrEmptyOrder)
	_, err = f.svc.Orders.CreateOrder(f.ctx, f.user.ID, CreateOrderInput{
		StoreID: f.storeA.ID, Items: []entity.DraftItem{{ProductID: "missing", Quantity: 1}},
	})
	assert.ErrorIs(t, err, entity.ErrProductNotFound)
}

func TestCreateOrderKeepsUnorderedCartLines(t *testing.T) {
	f := newCheckout(t)
	pc := f.product(t, f.storeA.ID, 20, 10)
	_, err := f.svc.Carts.AddToCart(f.ctx, f.user.ID, AddToCartInput{pc.ID, f.storeA.ID, 2})
	require.NoError(t, err)

	_, err = f.svc.Orders.CreateOrder(f.ctx, f.user.ID, CreateOrderInput{
		StoreID: f.storeA.ID,
		Items:   []entity.DraftItem{{ProductID: f.pa.ID, Quantity: 12}},
	})
	require.NoError(t, err)

	c, err := f.store.Carts().Get(f.ctx, f.user.ID, f.storeA.ID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, pc.ID, c.Items[0].ProductID)
	assert.True(t, c.TotalPrice.Equal(dec(40)))
	assert.True(t, c.TotalSavings.IsZero())
}

func TestCreateOrderNeedsShippingAddress(t *testing.T) {
	e := newEnv(t)
	u := e.account(t, entity.RoleUser, "u@x.io", entity.ApprovalApproved)
	u.ShippingAddress = nil
	require.NoError(t, e.store.Accounts().Update(e.ctx, u))
	st := e.account(t, entity.RoleStore, "s@x.io", entity.ApprovalApproved)
	p := e.product(t, st.ID, 10, 5)

	_, err := e.svc.Orders.CreateOrder(e.ctx, u.ID, CreateOrderInput{StoreID: st.ID, Items: []entity.DraftItem{{ProductID: p.ID, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrShippingRequired)
}

func TestOrderVisibilityAndStatus(t *testing.T) {
	f := newCheckout(t)
	orders, err := f.svc.Orders.Checkout(f.ctx, f.user.ID, CheckoutInput{StoreIDs: []string{f.storeB.ID}})
	require.NoError(t, err)
	o := orders[0]

	_, err = f.svc.Orders.GetOrder(f.ctx, entity.RoleUser, f.user.ID, o.ID)
	assert.NoError(t, err)
	_, err = f.svc.Orders.GetOrder(f.ctx, entity.RoleStore, f.storeB.ID, o.ID)
	assert.NoError(t, err)
	_, err = f.svc.Orders.GetOrder(f.ctx, entity.RoleUser, "someone-else", o.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = f.svc.Orders.UpdateStatus(f.ctx, f.storeA.ID, o.ID, entity.OrderProcessing)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = f.svc.Orders.UpdateStatus(f.ctx, f.storeB.ID, o.ID, entity.OrderDelivered)
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	assert.Equal(t, 2, f.stock(t, f.pb.ID))
	up, err := f.svc.Orders.UpdateStatus(f.ctx, f.storeB.ID, o.ID, entity.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, up.Status)
	assert.Equal(t, 5, f.stock(t, f.pb.ID))
	assert.Contains(t, f.events.events, gateway.OrderStatusChanged+":"+f.storeB.ID)

	list, err := f.svc.Orders.ListStoreOrders(f.ctx, f.storeB.ID, entity.OrderCancelled)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
