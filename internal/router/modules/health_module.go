package modules

import (
	"context"
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/servicemart/internal/container"
	"github.com/oksasatya/servicemart/internal/interface/middleware"
	"github.com/oksasatya/servicemart/pkg/helpers"
	"github.com/oksasatya/servicemart/pkg/response"
)

// HealthModule serves liveness and, when enabled, expvar metrics.
type HealthModule struct {
	Metrics bool
}

func NewHealthModule(metrics bool) *HealthModule { return &HealthModule{Metrics: metrics} }

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/health", rl, health)
	if m.Metrics {
		rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	}
}

// health reports 503 when a configured backing store does not answer.
func health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = status(helpers.RedisPing(ctx, rdb, time.Second), &healthy)
	}
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = status(pool.Ping(ctx), &healthy)
	}
	if !healthy {
		response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", checks)
		return
	}
	response.Success(c, http.StatusOK, checks, "ok", nil)
}

func status(err error, healthy *bool) string {
	if err != nil {
		*healthy = false
		return "down"
	}
	return "up"
}
