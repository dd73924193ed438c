package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/servicemart/internal/domain/entity"
)

func TestAddToCartBulkTierScenario(t *testing.T) {
	e := newEnv(t)
	st := e.account(t, entity.RoleStore, "s@x.io", entity.ApprovalApproved)
	p := e.product(t, st.ID, 100, 50, entity.BulkTier{MinQuantity: 10, Price: dec(90)})

	_, err := e.svc.Carts.AddToCart(e.ctx, "u1", AddToCartInput{ProductID: p.ID, StoreID: st.ID, Quantity: 5})
	require.NoError(t, err)
	c, err := e.svc.Carts.AddToCart(e.ctx, "u1", AddToCartInput{ProductID: p.ID, StoreID: st.ID, Quantity: 6})
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	it := c.Items[0]
	assert.Equal(t, 11, it.Quantity)
	assert.True(t, it.AppliedPrice.Equal(dec(90)))
	assert.True(t, it.DiscountPerUnit.Equal(dec(10)))
	assert.True(t, it.Savings.Equal(dec(110)))
	assert.True(t, c.TotalPrice.Equal(dec(1100)))
	assert.True(t, c.TotalSavings.Equal(dec(110)))

	stores, err := e.svc.Carts.CartStores(e.ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "Store s@x.io", stores[0].StoreName)
	assert.Equal(t, 11, stores[0].ItemCount)
	assert.True(t, stores[0].Payable.Equal(dec(990)))
}

func TestAddToCartRejections(t *testing.T) {
	e := newEnv(t)
	st := e.account(t, entity.RoleStore, "s@x.io", entity.ApprovalApproved)
	other := e.account(t, entity.RoleStore, "o@x.io", entity.ApprovalApproved)
	p := e.product(t, st.ID, 100, 8)

	_, err := e.svc.Carts.AddToCart(e.ctx, "u1", AddToCartInput{ProductID: "missing", StoreID: st.ID, Quantity: 1})
	assert.ErrorIs(t, err, entity.ErrProductNotFound)
	_, err = e.svc.Carts.AddToCart(e.ctx, "u1", AddToCartInput{ProductID: p.ID, StoreID: other.ID, Quantity: 1})
	assert.ErrorIs(t, err, entity.ErrProductNotFound)
	_, err = e.svc.Carts.AddToCart(e.ctx, "u1", AddToCartInput{ProductID: p.ID, StoreID: st.ID, Quantity: 0})
	assert.ErrorIs(t, err, entity.ErrInvalidQuantity)

	_, err = e.svc.Carts.AddToCart(e.ctx, "u1", AddToCartInput{ProductID: p.ID, StoreID: st.ID, Quantity: 5})
	require.NoError(t, err)
	_, err = e.svc.Carts.AddToCart(e.ctx, "u1", AddToCartInput{ProductID: p.ID, StoreID: st.ID, Quantity: 4})
	assert.ErrorIs(t, err, entity.ErrInsufficientStock)

	c, err := e.store.Carts().Get(e.ctx, "u1", st.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestUpdateAndRemoveCartItems(t *testing.T) {
	e := newEnv(t)
	st := e.account(t, entity.RoleStore, "s@x.io", entity.ApprovalApproved)
	p := e.product(t, st.ID, 100, 50, entity.BulkTier{MinQuantity: 10, Price: dec(90)})
	q := e.product(t, st.ID, 20, 50)
	carts := e.svc.Carts

	_, err := carts.AddToCart(e.ctx, "u1", AddToCartInput{ProductID: p.ID, StoreID: st.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = carts.AddToCart(e.ctx, "u1", AddToCartInput{ProductID: q.ID, StoreID: st.ID, Quantity: 1})
	require.NoError(t, err)

	c, err := carts.UpdateQuantity(e.ctx, "u1", st.ID, p.ID, 10)
	require.NoError(t, err)
	it, _ := c.Item(p.ID)
	assert.True(t, it.AppliedPrice.Equal(dec(90)))
	assert.True(t, c.TotalPrice.Equal(dec(1020)))

	_, err = carts.UpdateQuantity(e.ctx, "u1", st.ID, p.ID, 51)
	assert.ErrorIs(t, err, entity.ErrInsufficientStock)
	_, err = carts.UpdateQuantity(e.ctx, "u1", st.ID, "nope", 1)
	assert.ErrorIs(t, err, entity.ErrCartItemNotFound)

	c, err = carts.UpdateQuantity(e.ctx, "u1", st.ID, p.ID, 0)
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)

	_, err = carts.RemoveItem(e.ctx, "u1", st.ID, q.ID)
	require.NoError(t, err)
	all, err := carts.GetCarts(e.ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, all, "empty carts are deleted")

	_, err = carts.RemoveItem(e.ctx, "u1", st.ID, q.ID)
	assert.ErrorIs(t, err, entity.ErrCartItemNotFound)
}

func TestClearCart(t *testing.T) {
	e := newEnv(t)
	a := e.account(t, entity.RoleStore, "a@x.io", entity.ApprovalApproved)
	b := e.account(t, entity.RoleStore, "b@x.io", entity.ApprovalApproved)
	pa := e.product(t, a.ID, 10, 5)
	pb := e.product(t, b.ID, 10, 5)
	for _, in := range []AddToCartInput{{pa.ID, a.ID, 1}, {pb.ID, b.ID, 1}} {
		_, err := e.svc.Carts.AddToCart(e.ctx, "u1", in)
		require.NoError(t, err)
	}

	require.NoError(t, e.svc.Carts.ClearCart(e.ctx, "u1", a.ID))
	all, _ := e.svc.Carts.GetCarts(e.ctx, "u1")
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].StoreID)

	require.NoError(t, e.svc.Carts.ClearCart(e.ctx, "u1", ""))
	all, _ = e.svc.Carts.GetCarts(e.ctx, "u1")
	assert.Empty(t, all)
}
