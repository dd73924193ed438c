package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/application"
	"github.com/oksasatya/servicemart/internal/interface/middleware"
	"github.com/oksasatya/servicemart/pkg/response"
)

type CartHandler struct {
	Svc    *application.CartService
	Logger logrus.FieldLogger
}

func NewCartHandler(svc *application.CartService, logger logrus.FieldLogger) *CartHandler {
	return &CartHandler{Svc: svc, Logger: logger}
}

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	StoreID   string `json:"storeId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
}

func (h *CartHandler) Add(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cart, err := h.Svc.AddToCart(c.Request.Context(), middleware.AccountID(c), application.AddToCartInput{
		ProductID: req.ProductID, StoreID: req.StoreID, Quantity: req.Quantity,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cart, "added to cart", nil)
}

func (h *CartHandler) Get(c *gin.Context) {
	carts, err := h.Svc.GetCarts(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, carts, "carts", nil)
}

// Update sets a line's quantity; zero removes the line.
func (h *CartHandler) Update(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cart, err := h.Svc.UpdateQuantity(c.Request.Context(), middleware.AccountID(c), req.StoreID, req.ProductID, req.Quantity)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cart, "cart updated", nil)
}

func (h *CartHandler) Remove(c *gin.Context) {
	cart, err := h.Svc.RemoveItem(c.Request.Context(), middleware.AccountID(c), c.Param("storeId"), c.Param("productId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cart, "item removed", nil)
}

// Clear empties one store's cart with ?storeId=, or every cart without it.
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.Svc.ClearCart(c.Request.Context(), middleware.AccountID(c), c.Query("storeId")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "cart cleared", nil)
}

func (h *CartHandler) Stores(c *gin.Context) {
	stores, err := h.Svc.CartStores(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, stores, "cart stores", nil)
}
