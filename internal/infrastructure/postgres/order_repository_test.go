package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/repository"
)

var (
	migrateOnce sync.Once
	migrateErr  error
)

// dbSet connects to DATABASE_URL, migrates once and empties the tables.
// Tests are skipped without a database.
func dbSet(t *testing.T) repository.Set {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	migrateOnce.Do(func() {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			migrateErr = err
			return
		}
		defer db.Close()
		driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
		if err != nil {
			migrateErr = err
			return
		}
		m, err := migrate.NewWithDatabaseInstance("file://../../../db/migrations", "postgres", driver)
		if err != nil {
			migrateErr = err
			return
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			migrateErr = err
		}
	})
	require.NoError(t, migrateErr)

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, 4, 1, 0)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = pool.Exec(ctx, `TRUNCATE accounts CASCADE`)
	require.NoError(t, err)
	return NewSet(pool)
}

type pgFixture struct {
	repos  repository.Set
	user   *entity.Account
	storeA *entity.Account
	storeB *entity.Account
	pa     *entity.Product
	pb     *entity.Product
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	ctx := context.Background()
	f := &pgFixture{repos: dbSet(t)}
	mk := func(role entity.Role, email string) *entity.Account {
		a := &entity.Account{Role: role, Email: email, Name: email, Password: "x", ApprovalStatus: entity.ApprovalApproved}
		require.NoError(t, f.repos.Accounts.Create(ctx, a))
		return a
	}
	f.user = mk(entity.RoleUser, "u@x.io")
	f.storeA = mk(entity.RoleStore, "a@x.io")
	f.storeB = mk(entity.RoleStore, "b@x.io")
	mkProduct := func(storeID, name string, price int64, stock int) *entity.Product {
		p := &entity.Product{StoreID: storeID, Name: name, Category: "Cement", BasePrice: decimal.NewFromInt(price), Stock: stock}
		require.NoError(t, f.repos.Products.Create(ctx, p))
		return p
	}
	f.pa = mkProduct(f.storeA.ID, "Cement", 100, 10)
	f.pb = mkProduct(f.storeB.ID, "Sand", 50, 1)
	return f
}

func (f *pgFixture) cart(t *testing.T, storeID string, lines map[*entity.Product]int) {
	t.Helper()
	c := entity.NewCart(f.user.ID, storeID)
	for p, qty := range lines {
		require.NoError(t, c.Add(p, qty))
	}
	require.NoError(t, f.repos.Carts.Save(context.Background(), c))
}

func (f *pgFixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.repos.Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestPGPlaceIsAllOrNothing(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	f.cart(t, f.storeA.ID, map[*entity.Product]int{f.pa: 2})

	_, err := f.repos.Orders.Place(ctx, f.user.ID, []entity.OrderDraft{
		{StoreID: f.storeA.ID, Items: []entity.DraftItem{{ProductID: f.pa.ID, Quantity: 2}}},
		{StoreID: f.storeB.ID, Items: []entity.DraftItem{{ProductID: f.pb.ID, Quantity: 3}}},
	})
	require.ErrorIs(t, err, entity.ErrInsufficientStock)

	mine, err := f.repos.Orders.ListByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
	assert.Equal(t, 10, f.stock(t, f.pa.ID))
	assert.Equal(t, 1, f.stock(t, f.pb.ID))
	_, err = f.repos.Carts.Get(ctx, f.user.ID, f.storeA.ID)
	assert.NoError(t, err, "cart survives the rollback")
}

func TestPGPlaceSplitsStoresAndClearsCarts(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	f.cart(t, f.storeA.ID, map[*entity.Product]int{f.pa: 2})
	f.cart(t, f.storeB.ID, map[*entity.Product]int{f.pb: 1})

	orders, err := f.repos.Orders.Place(ctx, f.user.ID, []entity.OrderDraft{
		{StoreID: f.storeA.ID, Items: []entity.DraftItem{{ProductID: f.pa.ID, Quantity: 2}}},
		{StoreID: f.storeB.ID, Items: []entity.DraftItem{{ProductID: f.pb.ID, Quantity: 1}}},
	})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.True(t, orders[0].TotalAmount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, 8, f.stock(t, f.pa.ID))
	assert.Equal(t, 0, f.stock(t, f.pb.ID))

	carts, err := f.repos.Carts.ListByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, carts)
}

func TestPGPlaceKeepsUnorderedCartLines(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	pc := &entity.Product{StoreID: f.storeA.ID, Name: "Grout", BasePrice: decimal.NewFromInt(30), Stock: 5}
	require.NoError(t, f.repos.Products.Create(ctx, pc))
	f.cart(t, f.storeA.ID, map[*entity.Product]int{f.pa: 2, pc: 2})

	_, err := f.repos.Orders.Place(ctx, f.user.ID, []entity.OrderDraft{
		{StoreID: f.storeA.ID, Items: []entity.DraftItem{{ProductID: f.pa.ID, Quantity: 2}}},
	})
	require.NoError(t, err)

	c, err := f.repos.Carts.Get(ctx, f.user.ID, f.storeA.ID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, pc.ID, c.Items[0].ProductID)
	assert.True(t, c.TotalPrice.Equal(decimal.NewFromInt(60)))
}

func TestPGUpdateStatusRestocksOnCancel(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	orders, err := f.repos.Orders.Place(ctx, f.user.ID, []entity.OrderDraft{
		{StoreID: f.storeA.ID, Items: []entity.DraftItem{{ProductID: f.pa.ID, Quantity: 4}}},
	})
	require.NoError(t, err)
	id := orders[0].ID
	assert.Equal(t, 6, f.stock(t, f.pa.ID))

	_, err = f.repos.Orders.UpdateStatus(ctx, f.storeB.ID, id, entity.OrderCancelled)
	assert.ErrorIs(t, err, repository.ErrNotFound, "another store's order")
	_, err = f.repos.Orders.UpdateStatus(ctx, f.storeA.ID, id, entity.OrderDelivered)
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	o, err := f.repos.Orders.UpdateStatus(ctx, f.storeA.ID, id, entity.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, o.Status)
	assert.Equal(t, 10, f.stock(t, f.pa.ID))
}

func TestPGMalformedIDsAreMissing(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	_, err := f.repos.Products.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.repos.Carts.Get(ctx, f.user.ID, "abc")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.repos.Orders.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.repos.Orders.Place(ctx, f.user.ID, []entity.OrderDraft{
		{StoreID: f.storeA.ID, Items: []entity.DraftItem{{ProductID: "abc", Quantity: 1}}},
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, total, err := f.repos.Products.List(ctx, repository.ProductFilter{StoreID: "abc", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
	reviews, err := f.repos.Reviews.ListByStore(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.NoError(t, f.repos.Carts.Delete(ctx, f.user.ID, "abc"))
}
