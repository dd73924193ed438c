package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/servicemart/internal/container"
	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/interface/middleware"
)

// signedIn authenticates the caller, restricts it to roles when given, and
// applies the per-account limit shared by every protected route.
func signedIn(roles ...entity.Role) []gin.HandlerFunc {
	hs := []gin.HandlerFunc{
		middleware.Auth(container.GetJWT(), container.GetSessions(), container.GetAccounts()),
	}
	if len(roles) > 0 {
		hs = append(hs, middleware.RequireRole(roles...))
	}
	return append(hs, middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByAccountID(), nil))
}

// authLimiter guards the credential and OTP endpoints per IP and path.
func authLimiter() gin.HandlerFunc {
	cfg := container.GetConfig()
	return middleware.RateLimit(container.GetRedis(), cfg.RateLimitAuth, cfg.RateLimitWindow, middleware.KeyByIPAndPath(), nil)
}

// uploadBody caps a multipart request at files uploads plus form overhead.
func uploadBody(files int) gin.HandlerFunc {
	return middleware.MaxBodyBytes(container.GetConfig().UploadMaxBytes*int64(files) + 1<<20)
}
