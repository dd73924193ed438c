package application

import (
	"bytes"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
)

func TestParsePriceRange(t *testing.T) {
	cases := []struct {
		in      string
		lo, hi  string
		wantErr bool
	}{
		{in: ""},
		{in: "100-500", lo: "100", hi: "500"},
		{in: "100-", lo: "100"},
		{in: "-500", hi: "500"},
		{in: "500-100", wantErr: true},
		{in: "abc-1", wantErr: true},
		{in: "100", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			lo, hi, err := ParsePriceRange(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPriceRange)
				return
			}
			require.NoError(t, err)
			check := func(got *decimal.Decimal, want string) {
				if want == "" {
					assert.Nil(t, got)
					return
				}
				require.NotNil(t, got)
				assert.Equal(t, want, got.String())
			}
			check(lo, tc.lo)
			check(hi, tc.hi)
		})
	}
}

func TestCatalogListFilters(t *testing.T) {
	e := newEnv(t)
	st := e.account(t, entity.RoleStore, "s@x.io", entity.ApprovalApproved)
	cheap := e.product(t, st.ID, 50, 10)
	e.product(t, st.ID, 500, 0)

	page, err := e.svc.Catalog.List(e.ctx, CatalogQuery{PriceRange: "0-100"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, cheap.ID, page.Products[0].ID)

	page, err = e.svc.Catalog.List(e.ctx, CatalogQuery{Availability: repo.AvailabilityOutOfStock})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalProducts)

	page, err = e.svc.Catalog.List(e.ctx, CatalogQuery{Limit: 1, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Products, 1)

	_, err = e.svc.Catalog.List(e.ctx, CatalogQuery{PriceRange: "9-1"})
	assert.ErrorIs(t, err, ErrInvalidPriceRange)

	_, err = e.svc.Catalog.Get(e.ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrProductNotFound)

	cats, err := e.svc.Catalog.Categories(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cement"}, cats)
}

func TestCatalogSearchUsesIndex(t *testing.T) {
	e := newEnv(t)
	st := e.account(t, entity.RoleStore, "s@x.io", entity.ApprovalApproved)
	a := e.product(t, st.ID, 50, 10)
	e.product(t, st.ID, 60, 10)

	e.search.ids = []string{a.ID}
	page, err := e.svc.Catalog.List(e.ctx, CatalogQuery{Search: "anything"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, a.ID, page.Products[0].ID)

	e.search.ids = []string{}
	page, err = e.svc.Catalog.List(e.ctx, CatalogQuery{Search: "anything"})
	require.NoError(t, err)
	assert.Empty(t, page.Products)

	e.search.err = errors.New("es down")
	page, err = e.svc.Catalog.List(e.ctx, CatalogQuery{Search: "product"})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2, "falls back to database matching")
}

func TestStoreProductLifecycle(t *testing.T) {
	e := newEnv(t)
	st := e.account(t, entity.RoleStore, "s@x.io", entity.ApprovalApproved)
	other := e.account(t, entity.RoleStore, "o@x.io", entity.ApprovalApproved)
	stores := e.svc.Stores

	in := ProductInput{Name: "OPC Cement", Category: "Cement", BasePrice: dec(400), Stock: 100,
		BulkPricing: []entity.BulkTier{{MinQuantity: 50, Price: dec(380)}, {MinQuantity: 10, Price: dec(390)}}}
	p, err := stores.CreateProduct(e.ctx, st.ID, in, []Upload{upload("bag.png")})
	require.NoError(t, err)
	assert.Len(t, p.Images, 1)
	assert.Contains(t, e.search.indexed, p.ID)

	bad := in
	bad.BulkPricing = []entity.BulkTier{{MinQuantity: 10, Price: dec(410)}}
	_, err = stores.CreateProduct(e.ctx, st.ID, bad, nil)
	assert.ErrorIs(t, err, entity.ErrInvalidBulkPricing)
	bad = in
	bad.BasePrice = decimal.Zero
	_, err = stores.CreateProduct(e.ctx, st.ID, bad, nil)
	assert.ErrorIs(t, err, ErrInvalidProduct)

	in.Stock = 5
	in.Keep = []string{}
	up, err := stores.UpdateProduct(e.ctx, st.ID, p.ID, in, []Upload{upload("new.png")})
	require.NoError(t, err)
	assert.Equal(t, 5, up.Stock)
	assert.Equal(t, []string{"https://files.test/products/" + st.ID + "/new.png"}, up.Images)

	_, err = stores.UpdateProduct(e.ctx, other.ID, p.ID, in, nil)
	assert.ErrorIs(t, err, entity.ErrProductNotFound)
	assert.ErrorIs(t, stores.DeleteProduct(e.ctx, other.ID, p.ID), entity.ErrProductNotFound)

	page, err := stores.ListProducts(e.ctx, st.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalProducts)

	require.NoError(t, stores.DeleteProduct(e.ctx, st.ID, p.ID))
	page, err = stores.ListProducts(e.ctx, st.ID, 1, 0)
	require.NoError(t, err)
	assert.Zero(t, page.TotalProducts)
}

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportProducts(t *testing.T) {
	e := newEnv(t)
	st := e.account(t, entity.RoleStore, "s@x.io", entity.ApprovalApproved)

	buf := workbook(t, [][]any{
		{"Name", "Category", "BasePrice", "Stock", "Unit"},
		{"TMT Bar", "Steel", "65.5", 200, "kg"},
		{"", "Steel", "10", 1, ""},
		{"Sand", "Aggregates", "cheap", 5, ""},
		{"Gravel", "Aggregates", "30", "many", ""},
		{"Brick", "Masonry", "8", 1000, "piece"},
	})
	res, err := e.svc.Stores.ImportProducts(e.ctx, st.ID, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	require.Len(t, res.Failed, 3)
	assert.Equal(t, 3, res.Failed[0].Row)
	assert.Equal(t, 4, res.Failed[1].Row)
	assert.Equal(t, 5, res.Failed[2].Row)

	page, err := e.svc.Stores.ListProducts(e.ctx, st.ID, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalProducts)
}

func TestImportProductsRejectsBadWorkbook(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Stores.ImportProducts(e.ctx, "s1", bytes.NewBufferString("not a workbook"))
	assert.ErrorIs(t, err, ErrInvalidImport)

	buf := workbook(t, [][]any{{"Name", "Stock"}, {"Brick", 1}})
	_, err = e.svc.Stores.ImportProducts(e.ctx, "s1", buf)
	assert.ErrorIs(t, err, ErrInvalidImport)

	buf = workbook(t, [][]any{{"Name", "BasePrice", "Stock"}})
	_, err = e.svc.Stores.ImportProducts(e.ctx, "s1", buf)
	assert.ErrorIs(t, err, ErrInvalidImport)
}
