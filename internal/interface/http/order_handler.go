package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/application"
	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/interface/middleware"
	"github.com/oksasatya/servicemart/pkg/response"
)

// OrderHandler serves order placement and tracking for users, fulfilment
// for stores, and card payments.
type OrderHandler struct {
	Orders   *application.OrderService
	Payments *application.PaymentService
	Logger   logrus.FieldLogger
}

func NewOrderHandler(orders *application.OrderService, payments *application.PaymentService, logger logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{Orders: orders, Payments: payments, Logger: logger}
}

type createOrderRequest struct {
	StoreID         string             `json:"storeId" binding:"required"`
	Items           []entity.DraftItem `json:"items" binding:"required,min=1"`
	ShippingAddress *addressRequest    `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod" binding:"omitempty,oneof=cod card"`
}

type checkoutRequest struct {
	ShippingAddress *addressRequest `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod" binding:"omitempty,oneof=cod card"`
	StoreIDs        []string        `json:"storeIds"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required,orderstatus"`
}

type checkoutSessionRequest struct {
	OrderIDs []string `json:"orderIds" binding:"required,min=1,dive,required"`
}

// Create places a single-store order from explicit items. Prices always
// come from the catalog.
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	o, err := h.Orders.CreateOrder(c.Request.Context(), middleware.AccountID(c), application.CreateOrderInput{
		StoreID:         req.StoreID,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress.optional(),
		PaymentMethod:   entity.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, o, "order placed", nil)
}

// Checkout turns the user's carts into one order per store.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	orders, err := h.Orders.Checkout(c.Request.Context(), middleware.AccountID(c), application.CheckoutInput{
		ShippingAddress: req.ShippingAddress.optional(),
		PaymentMethod:   entity.PaymentMethod(req.PaymentMethod),
		StoreIDs:        req.StoreIDs,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, orders, "orders placed", gin.H{"count": len(orders)})
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.Orders.ListOrders(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, orders, "orders", nil)
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.Orders.GetOrder(c.Request.Context(), middleware.Role(c), middleware.AccountID(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, o, "order", nil)
}

// ListStore lists the store's orders, optionally filtered by ?status=.
func (h *OrderHandler) ListStore(c *gin.Context) {
	orders, err := h.Orders.ListStoreOrders(c.Request.Context(), middleware.AccountID(c), entity.OrderStatus(c.Query("status")))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, orders, "orders", nil)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	o, err := h.Orders.UpdateStatus(c.Request.Context(), middleware.AccountID(c), c.Param("id"), entity.OrderStatus(req.Status))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, o, "order status updated", nil)
}

func (h *OrderHandler) CreateCheckoutSession(c *gin.Context) {
	var req checkoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sess, err := h.Payments.CreateCheckoutSession(c.Request.Context(), middleware.AccountID(c), req.OrderIDs)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": sess.ID, "url": sess.URL}, "checkout session created", nil)
}

func (h *OrderHandler) VerifyPayment(c *gin.Context) {
	orders, err := h.Payments.VerifySession(c.Request.Context(), middleware.AccountID(c), c.Param("sessionId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, orders, "payment verified", nil)
}
