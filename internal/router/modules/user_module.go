package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	handlers "github.com/oksasatya/servicemart/internal/interface/http"
)

// UserModule wires the /user routes: registration, profile, the contractor
// directory and interests.
type UserModule struct {
	Auth        *handlers.AuthHandler
	Accounts    *handlers.AccountHandler
	Contractors *handlers.ContractorHandler
	Interests   *handlers.InterestHandler
}

func NewUserModule(auth *handlers.AuthHandler, accounts *handlers.AccountHandler, contractors *handlers.ContractorHandler, interests *handlers.InterestHandler) *UserModule {
	return &UserModule{Auth: auth, Accounts: accounts, Contractors: contractors, Interests: interests}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/user")
	limiter := authLimiter()
	g.POST("/register", limiter, m.Auth.RegisterUser)
	g.POST("/verify-otp", limiter, m.Auth.VerifyOTP(entity.RoleUser))
	g.POST("/resend-otp", limiter, m.Auth.ResendOTP(entity.RoleUser))
	g.POST("/login", limiter, m.Auth.Login(entity.RoleUser))

	auth := g.Group("/")
	auth.Use(signedIn(entity.RoleUser)...)
	{
		auth.POST("/logout", m.Auth.Logout)
		auth.GET("/profile", m.Accounts.GetProfile)
		auth.PUT("/profile", m.Accounts.UpdateProfile)
		auth.POST("/profile/upload", uploadBody(1), m.Accounts.UploadAvatar)
		auth.PUT("/shipping", m.Accounts.UpdateShipping)
		auth.PUT("/settings/password", m.Auth.ChangePassword)

		auth.GET("/contractors", m.Contractors.List)
		auth.GET("/contractors/:id", m.Contractors.Detail)
		auth.POST("/interests", m.Interests.Submit)
		auth.GET("/interests", m.Interests.ListMine)
	}
}
