package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/application"
	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/interface/middleware"
	"github.com/oksasatya/servicemart/pkg/response"
)

const maxProductImages = 8

// ProductHandler serves the public catalog and the store owner's inventory.
type ProductHandler struct {
	Catalog *application.CatalogService
	Stores  *application.StoreService
	Uploads UploadLimits
	Logger  logrus.FieldLogger
}

func NewProductHandler(catalog *application.CatalogService, stores *application.StoreService, uploads UploadLimits, logger logrus.FieldLogger) *ProductHandler {
	return &ProductHandler{Catalog: catalog, Stores: stores, Uploads: uploads, Logger: logger}
}

// productForm is the multipart body of a product create or update.
// bulkPricing arrives as a JSON array in a single form field.
type productForm struct {
	Name        string `form:"name" binding:"required,max=200"`
	Description string `form:"description" binding:"max=5000"`
	Category    string `form:"category" binding:"max=100"`
	Grade       string `form:"grade" binding:"max=50"`
	Brand       string `form:"brand" binding:"max=100"`
	Unit        string `form:"unit" binding:"max=30"`
	BasePrice   string `form:"basePrice" binding:"required,numeric"`
	Stock       int    `form:"stock" binding:"gte=0"`
	BulkPricing string `form:"bulkPricing"`
}

func (f productForm) input(c *gin.Context) (application.ProductInput, error) {
	price, err := decimal.NewFromString(f.BasePrice)
	if err != nil {
		return application.ProductInput{}, application.ErrInvalidProduct
	}
	in := application.ProductInput{
		Name:        f.Name,
		Description: f.Description,
		Category:    f.Category,
		Grade:       f.Grade,
		Brand:       f.Brand,
		Unit:        f.Unit,
		BasePrice:   price,
		Stock:       f.Stock,
		Keep:        keepList(c, "existingImages"),
	}
	if f.BulkPricing != "" {
		if err := json.Unmarshal([]byte(f.BulkPricing), &in.BulkPricing); err != nil {
			return application.ProductInput{}, entity.ErrInvalidBulkPricing
		}
	}
	return in, nil
}

// List is the public catalog listing.
func (h *ProductHandler) List(c *gin.Context) {
	page, err := h.Catalog.List(c.Request.Context(), application.CatalogQuery{
		Search:       c.Query("search"),
		PriceRange:   c.Query("priceRange"),
		Availability: c.Query("availability"),
		Categories:   c.Query("categories"),
		StoreID:      c.Query("storeId"),
		Page:         queryInt(c, "page"),
		Limit:        queryInt(c, "limit"),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, page, "products", nil)
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "product", nil)
}

func (h *ProductHandler) Categories(c *gin.Context) {
	cats, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cats, "categories", nil)
}

func (h *ProductHandler) ListOwn(c *gin.Context) {
	page, err := h.Stores.ListProducts(c.Request.Context(), middleware.AccountID(c), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, page, "products", nil)
}

func (h *ProductHandler) Create(c *gin.Context) {
	h.save(c, "")
}

func (h *ProductHandler) Update(c *gin.Context) {
	h.save(c, c.Param("id"))
}

func (h *ProductHandler) save(c *gin.Context, id string) {
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}
	in, err := form.input(c)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	imgs, done, err := h.Uploads.files(c, "images", maxProductImages)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer done()

	ctx, storeID := c.Request.Context(), middleware.AccountID(c)
	if id == "" {
		p, err := h.Stores.CreateProduct(ctx, storeID, in, imgs)
		if err != nil {
			fail(c, h.Logger, err)
			return
		}
		response.Success(c, http.StatusCreated, p, "product created", nil)
		return
	}
	p, err := h.Stores.UpdateProduct(ctx, storeID, id, in, imgs)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "product updated", nil)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.Stores.DeleteProduct(c.Request.Context(), middleware.AccountID(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "product deleted", nil)
}

// Import reads an xlsx workbook from the "file" form field.
func (h *ProductHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "file is required", nil)
		return
	}
	if h.Uploads.MaxBytes > 0 && fh.Size > h.Uploads.MaxBytes {
		fail(c, h.Logger, errInvalidUpload)
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer f.Close()

	res, err := h.Stores.ImportProducts(c.Request.Context(), middleware.AccountID(c), f)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "import finished", nil)
}
