package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/application"
	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/interface/middleware"
	"github.com/oksasatya/servicemart/pkg/helpers"
	"github.com/oksasatya/servicemart/pkg/response"
	"github.com/oksasatya/servicemart/pkg/validation"
)

// AuthHandler serves registration, OTP verification, login and logout for
// every role. Role-specific routes get their handler from the factory
// methods below.
type AuthHandler struct {
	Svc     *application.AuthService
	Cookies *helpers.Manager
	Uploads UploadLimits
	Logger  logrus.FieldLogger
}

func NewAuthHandler(svc *application.AuthService, cookies *helpers.Manager, uploads UploadLimits, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: cookies, Uploads: uploads, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" form:"name" binding:"required,max=120"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,pwd"`
	Phone    string `json:"phone" form:"phone" binding:"omitempty,max=20"`
}

func (r registerRequest) input() application.RegisterInput {
	return application.RegisterInput{Name: r.Name, Email: r.Email, Password: r.Password, Phone: r.Phone}
}

type contractorStep2Request struct {
	Email      string   `json:"email" binding:"required,email"`
	JobTypes   []string `json:"jobTypes" binding:"required,min=1,dive,required"`
	Experience int      `json:"experience" binding:"gte=0,lte=80"`
	City       string   `json:"city" binding:"required"`
	Bio        string   `json:"bio" binding:"max=2000"`
}

type registerStoreRequest struct {
	registerRequest
	StoreName string `form:"storeName" binding:"required"`
	GSTIN     string `form:"gstin" binding:"omitempty,len=15"`
	Address   string `form:"address"`
	City      string `form:"city" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,pwd,nefield=CurrentPassword"`
}

func badRequest(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Svc.RegisterUser(c.Request.Context(), req.input()); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"email": req.Email}, "OTP sent to email", nil)
}

func (h *AuthHandler) RegisterContractorStep1(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Svc.RegisterContractorStep1(c.Request.Context(), req.input()); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"email": req.Email}, "step 1 saved", nil)
}

func (h *AuthHandler) RegisterContractorStep2(c *gin.Context) {
	var req contractorStep2Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	err := h.Svc.RegisterContractorStep2(c.Request.Context(), application.ContractorProfileInput{
		Email: req.Email, JobTypes: req.JobTypes, Experience: req.Experience, City: req.City, Bio: req.Bio,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"email": req.Email}, "OTP sent to email", nil)
}

// RegisterStore takes a multipart form: the account fields, the store
// fields and 1 to 5 files under "documents".
func (h *AuthHandler) RegisterStore(c *gin.Context) {
	var req registerStoreRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	docs, done, err := h.Uploads.files(c, "documents", 5)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer done()

	a, err := h.Svc.RegisterStore(c.Request.Context(), application.RegisterStoreInput{
		RegisterInput: req.input(),
		StoreName:     req.StoreName,
		GSTIN:         req.GSTIN,
		Address:       req.Address,
		City:          req.City,
		Documents:     docs,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, a, "store registered, awaiting approval", nil)
}

func (h *AuthHandler) ResendOTP(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req emailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := h.Svc.ResendOTP(c.Request.Context(), role, req.Email); err != nil {
			fail(c, h.Logger, err)
			return
		}
		response.Success[any](c, http.StatusOK, nil, "OTP resent", nil)
	}
}

// VerifyOTP completes a pending registration. Users are signed in straight
// away; contractors wait for approval.
func (h *AuthHandler) VerifyOTP(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		a, sess, err := h.Svc.VerifyOTP(c.Request.Context(), role, req.Email, req.OTP)
		if err != nil {
			fail(c, h.Logger, err)
			return
		}
		if sess == nil {
			response.Success(c, http.StatusCreated, a, "registration complete, awaiting approval", nil)
			return
		}
		h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
		response.Success(c, http.StatusCreated, a, "registration complete", gin.H{"expires_at": sess.ExpiresAt})
	}
}

func (h *AuthHandler) Login(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		a, sess, err := h.Svc.Login(c.Request.Context(), role, req.Email, req.Password)
		if err != nil {
			if !errors.Is(err, application.ErrInvalidCredentials) {
				h.Logger.WithFields(logrus.Fields{"role": role, "email": req.Email}).WithError(err).Info("login refused")
			}
			fail(c, h.Logger, err)
			return
		}
		h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
		response.Success(c, http.StatusOK, gin.H{"account": a, "role": a.Role}, "login successful", gin.H{"expires_at": sess.ExpiresAt})
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		helpers.LogError(helpers.RequestLogger(h.Logger, c), "session delete failed", err, nil)
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// Check reports who the cookie belongs to.
func (h *AuthHandler) Check(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"account": middleware.CurrentAccount(c),
		"role":    middleware.Role(c),
	}, "authenticated", nil)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	err := h.Svc.ChangePassword(c.Request.Context(), middleware.Role(c), middleware.AccountID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password updated", nil)
}
