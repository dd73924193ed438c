package modules

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/servicemart/internal/container"
	handlers "github.com/oksasatya/servicemart/internal/interface/http"
	"github.com/oksasatya/servicemart/internal/interface/middleware"
)

// CatalogModule serves the public, unauthenticated reads.
type CatalogModule struct {
	Products    *handlers.ProductHandler
	Contractors *handlers.ContractorHandler
	Feedback    *handlers.FeedbackHandler
}

func NewCatalogModule(products *handlers.ProductHandler, contractors *handlers.ContractorHandler, feedback *handlers.FeedbackHandler) *CatalogModule {
	return &CatalogModule{Products: products, Contractors: contractors, Feedback: feedback}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByIP(), middleware.AllowMethods(http.MethodHead))

	rg.GET("/products", rl, m.Products.List)
	rg.GET("/products/categories", rl, m.Products.Categories)
	rg.GET("/products/:id", rl, m.Products.Get)
	rg.GET("/job-types", rl, m.Contractors.JobTypes)
	rg.GET("/reviews/:storeId", rl, m.Feedback.ListReviews)
	rg.GET("/testimonials", rl, m.Feedback.ListTestimonials)
}
