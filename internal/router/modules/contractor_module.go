package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	handlers "github.com/oksasatya/servicemart/internal/interface/http"
)

type ContractorModule struct {
	Auth          *handlers.AuthHandler
	Accounts      *handlers.AccountHandler
	Contractors   *handlers.ContractorHandler
	Notifications *handlers.InterestHandler
}

func NewContractorModule(auth *handlers.AuthHandler, accounts *handlers.AccountHandler, contractors *handlers.ContractorHandler, notifications *handlers.InterestHandler) *ContractorModule {
	return &ContractorModule{Auth: auth, Accounts: accounts, Contractors: contractors, Notifications: notifications}
}

func (m *ContractorModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/contractor")
	limiter := authLimiter()
	g.POST("/register/step1", limiter, m.Auth.RegisterContractorStep1)
	g.POST("/register/step2", limiter, m.Auth.RegisterContractorStep2)
	g.POST("/verify-otp", limiter, m.Auth.VerifyOTP(entity.RoleContractor))
	g.POST("/resend-otp", limiter, m.Auth.ResendOTP(entity.RoleContractor))
	g.POST("/login", limiter, m.Auth.Login(entity.RoleContractor))

	auth := g.Group("/")
	auth.Use(signedIn(entity.RoleContractor)...)
	{
		auth.POST("/logout", m.Auth.Logout)
		auth.GET("/profile", m.Accounts.GetProfile)
		auth.PUT("/profile", m.Accounts.UpdateProfile)
		auth.POST("/profile/upload", uploadBody(1), m.Accounts.UploadAvatar)
		auth.PUT("/settings", m.Accounts.UpdateContractorSettings)
		auth.PUT("/settings/password", m.Auth.ChangePassword)

		auth.GET("/projects", m.Contractors.ListProjects)
		auth.POST("/projects", uploadBody(10), m.Contractors.CreateProject)
		auth.PUT("/projects/:id", uploadBody(10), m.Contractors.UpdateProject)
		auth.DELETE("/projects/:id", m.Contractors.DeleteProject)

		auth.GET("/notifications", m.Notifications.Notifications)
		auth.GET("/notifications/unseen-count", m.Notifications.UnseenCount)
		auth.PATCH("/notifications/seen", m.Notifications.MarkAllSeen)
		auth.PATCH("/notifications/:id/seen", m.Notifications.MarkSeen)
	}
}
