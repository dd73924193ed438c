package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/application"
	"github.com/oksasatya/servicemart/internal/interface/middleware"
	"github.com/oksasatya/servicemart/pkg/response"
)

// AccountHandler serves the signed-in account's own profile.
type AccountHandler struct {
	Svc     *application.AccountService
	Uploads UploadLimits
	Logger  logrus.FieldLogger
}

func NewAccountHandler(svc *application.AccountService, uploads UploadLimits, logger logrus.FieldLogger) *AccountHandler {
	return &AccountHandler{Svc: svc, Uploads: uploads, Logger: logger}
}

type updateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=120"`
	Phone *string `json:"phone" binding:"omitempty,max=20"`

	JobTypes   []string `json:"jobTypes" binding:"omitempty,dive,required"`
	Experience *int     `json:"experience" binding:"omitempty,gte=0,lte=80"`
	City       *string  `json:"city"`
	Bio        *string  `json:"bio" binding:"omitempty,max=2000"`

	StoreName *string `json:"storeName" binding:"omitempty,min=1"`
	GSTIN     *string `json:"gstin" binding:"omitempty,len=15"`
	Address   *string `json:"address"`
}

type contractorSettingsRequest struct {
	Available *bool `json:"available" binding:"required"`
}

func (h *AccountHandler) GetProfile(c *gin.Context) {
	a, err := h.Svc.GetProfile(c.Request.Context(), middleware.Role(c), middleware.AccountID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, a, "profile", nil)
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.Role(c), middleware.AccountID(c), application.ProfileInput{
		Name: req.Name, Phone: req.Phone,
		JobTypes: req.JobTypes, Experience: req.Experience, City: req.City, Bio: req.Bio,
		StoreName: req.StoreName, GSTIN: req.GSTIN, Address: req.Address,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, a, "profile updated", nil)
}

// UploadAvatar expects one image under the "image" form field.
func (h *AccountHandler) UploadAvatar(c *gin.Context) {
	files, done, err := h.Uploads.files(c, "image", 1)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer done()
	if len(files) == 0 {
		response.Error[any](c, http.StatusBadRequest, "image is required", nil)
		return
	}
	a, err := h.Svc.UploadAvatar(c.Request.Context(), middleware.Role(c), middleware.AccountID(c), files[0])
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, a, "avatar updated", nil)
}

func (h *AccountHandler) UpdateShipping(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.Svc.UpdateShipping(c.Request.Context(), middleware.AccountID(c), req.entity())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, a, "shipping address updated", nil)
}

func (h *AccountHandler) UpdateContractorSettings(c *gin.Context) {
	var req contractorSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.Svc.SetAvailability(c.Request.Context(), middleware.AccountID(c), *req.Available)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, a, "settings updated", nil)
}
