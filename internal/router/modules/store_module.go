package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	handlers "github.com/oksasatya/servicemart/internal/interface/http"
)

// StoreModule wires the store owner's routes: registration, profile,
// inventory and fulfilment.
type StoreModule struct {
	Auth     *handlers.AuthHandler
	Accounts *handlers.AccountHandler
	Products *handlers.ProductHandler
	Orders   *handlers.OrderHandler
}

func NewStoreModule(auth *handlers.AuthHandler, accounts *handlers.AccountHandler, products *handlers.ProductHandler, orders *handlers.OrderHandler) *StoreModule {
	return &StoreModule{Auth: auth, Accounts: accounts, Products: products, Orders: orders}
}

func (m *StoreModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/store")
	limiter := authLimiter()
	g.POST("/register", limiter, uploadBody(5), m.Auth.RegisterStore)
	g.POST("/login", limiter, m.Auth.Login(entity.RoleStore))

	auth := g.Group("/")
	auth.Use(signedIn(entity.RoleStore)...)
	{
		auth.POST("/logout", m.Auth.Logout)
		auth.GET("/profile", m.Accounts.GetProfile)
		auth.PUT("/profile", m.Accounts.UpdateProfile)
		auth.POST("/profile/upload", uploadBody(1), m.Accounts.UploadAvatar)
		auth.PUT("/settings/password", m.Auth.ChangePassword)

		auth.GET("/products", m.Products.ListOwn)
		auth.POST("/products", uploadBody(8), m.Products.Create)
		auth.POST("/products/import", uploadBody(1), m.Products.Import)
		auth.PUT("/products/:id", uploadBody(8), m.Products.Update)
		auth.DELETE("/products/:id", m.Products.Delete)

		auth.GET("/orders", m.Orders.ListStore)
		auth.GET("/orders/:id", m.Orders.Get)
		auth.PATCH("/orders/:id/status", m.Orders.UpdateStatus)
	}
}
