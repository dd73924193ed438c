package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/application"
	"github.com/oksasatya/servicemart/internal/interface/middleware"
	"github.com/oksasatya/servicemart/pkg/response"
)

// InterestHandler covers both sides of an interest: users submit and list
// theirs, contractors read them as notifications.
type InterestHandler struct {
	Svc    *application.InterestService
	Logger logrus.FieldLogger
}

func NewInterestHandler(svc *application.InterestService, logger logrus.FieldLogger) *InterestHandler {
	return &InterestHandler{Svc: svc, Logger: logger}
}

type interestRequest struct {
	ContractorID  string `json:"contractorId" binding:"required"`
	Name          string `json:"name" binding:"max=120"`
	Phone         string `json:"phone" binding:"max=20"`
	Email         string `json:"email" binding:"omitempty,email"`
	JobType       string `json:"jobType"`
	PreferredDate string `json:"preferredDate"`
	Message       string `json:"message" binding:"max=2000"`
}

func (h *InterestHandler) Submit(c *gin.Context) {
	var req interestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	i, err := h.Svc.Submit(c.Request.Context(), middleware.AccountID(c), application.InterestInput{
		ContractorID:  req.ContractorID,
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		JobType:       req.JobType,
		PreferredDate: req.PreferredDate,
		Message:       req.Message,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, i, "interest sent", nil)
}

func (h *InterestHandler) ListMine(c *gin.Context) {
	list, err := h.Svc.ListMine(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "interests", nil)
}

func (h *InterestHandler) Notifications(c *gin.Context) {
	list, err := h.Svc.Notifications(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "notifications", nil)
}

func (h *InterestHandler) UnseenCount(c *gin.Context) {
	n, err := h.Svc.UnseenCount(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"count": n}, "unseen notifications", nil)
}

func (h *InterestHandler) MarkSeen(c *gin.Context) {
	if err := h.Svc.MarkSeen(c.Request.Context(), middleware.AccountID(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "marked as seen", nil)
}

func (h *InterestHandler) MarkAllSeen(c *gin.Context) {
	n, err := h.Svc.MarkAllSeen(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": n}, "all marked as seen", nil)
}
