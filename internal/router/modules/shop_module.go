package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	handlers "github.com/oksasatya/servicemart/internal/interface/http"
)

// ShopModule wires the signed-in buying flow: carts, orders, card payments
// and the feedback a customer leaves afterwards.
type ShopModule struct {
	Carts    *handlers.CartHandler
	Orders   *handlers.OrderHandler
	Feedback *handlers.FeedbackHandler
}

func NewShopModule(carts *handlers.CartHandler, orders *handlers.OrderHandler, feedback *handlers.FeedbackHandler) *ShopModule {
	return &ShopModule{Carts: carts, Orders: orders, Feedback: feedback}
}

func (m *ShopModule) Register(rg *gin.RouterGroup) {
	user := signedIn(entity.RoleUser)

	cart := rg.Group("/cart", user...)
	{
		cart.POST("/add", m.Carts.Add)
		cart.GET("", m.Carts.Get)
		cart.PUT("/update", m.Carts.Update)
		cart.DELETE("/remove/:storeId/:productId", m.Carts.Remove)
		cart.DELETE("/clear", m.Carts.Clear)
		cart.GET("/stores", m.Carts.Stores)
	}

	orders := rg.Group("/orders", user...)
	{
		orders.POST("", m.Orders.Create)
		orders.POST("/checkout", m.Orders.Checkout)
		orders.GET("", m.Orders.List)
		orders.GET("/:id", m.Orders.Get)
	}

	payments := rg.Group("/payments", user...)
	{
		payments.POST("/create-checkout-session", m.Orders.CreateCheckoutSession)
		payments.GET("/verify/:sessionId", m.Orders.VerifyPayment)
	}

	rg.POST("/reviews/:storeId", append(signedIn(entity.RoleUser), m.Feedback.CreateReview)...)
	rg.POST("/testimonials", append(signedIn(), m.Feedback.CreateTestimonial)...)
}
