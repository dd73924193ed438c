package router

import (
	"time"

	"github.com/oksasatya/servicemart/internal/container"
	handlers "github.com/oksasatya/servicemart/internal/interface/http"
	"github.com/oksasatya/servicemart/internal/interface/middleware"
	"github.com/oksasatya/servicemart/internal/router/modules"
)

// Handlers groups the HTTP handlers shared between modules.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Accounts    *handlers.AccountHandler
	Contractors *handlers.ContractorHandler
	Interests   *handlers.InterestHandler
	Products    *handlers.ProductHandler
	Carts       *handlers.CartHandler
	Orders      *handlers.OrderHandler
	Feedback    *handlers.FeedbackHandler
}

func buildHandlers() Handlers {
	svc := container.GetServices()
	logger := container.GetLogger()
	uploads := handlers.UploadLimits{MaxBytes: container.GetConfig().UploadMaxBytes}

	return Handlers{
		Auth:        handlers.NewAuthHandler(svc.Auth, container.GetCookies(), uploads, logger),
		Accounts:    handlers.NewAccountHandler(svc.Accounts, uploads, logger),
		Contractors: handlers.NewContractorHandler(svc.Contractors, uploads, logger),
		Interests:   handlers.NewInterestHandler(svc.Interests, logger),
		Products:    handlers.NewProductHandler(svc.Catalog, svc.Stores, uploads, logger),
		Carts:       handlers.NewCartHandler(svc.Carts, logger),
		Orders:      handlers.NewOrderHandler(svc.Orders, svc.Payments, logger),
		Feedback:    handlers.NewFeedbackHandler(svc.Reviews, svc.Testimonials, logger),
	}
}

// InitModules wires every module from the container into the registry.
// Call once at startup, after the container is populated.
func InitModules(r *Registry) {
	h := buildHandlers()

	// soft per-IP ceiling across the whole API
	r.Use(middleware.RateLimit(container.GetRedis(), 600, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()))

	r.Add(modules.NewHealthModule(container.GetConfig().DebugMetricsEnabled))
	r.Add(modules.NewAuthModule(h.Auth))
	r.Add(modules.NewUserModule(h.Auth, h.Accounts, h.Contractors, h.Interests))
	r.Add(modules.NewContractorModule(h.Auth, h.Accounts, h.Contractors, h.Interests))
	r.Add(modules.NewStoreModule(h.Auth, h.Accounts, h.Products, h.Orders))
	r.Add(modules.NewCatalogModule(h.Products, h.Contractors, h.Feedback))
	r.Add(modules.NewShopModule(h.Carts, h.Orders, h.Feedback))
}
