package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/servicemart/internal/interface/http"
)

// AuthModule exposes the role-agnostic session check.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/auth/check", append(signedIn(), m.Handler.Check)...)
}
