package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/application"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
	"github.com/oksasatya/servicemart/internal/interface/middleware"
	"github.com/oksasatya/servicemart/pkg/response"
)

type ContractorHandler struct {
	Svc     *application.ContractorService
	Uploads UploadLimits
	Logger  logrus.FieldLogger
}

func NewContractorHandler(svc *application.ContractorService, uploads UploadLimits, logger logrus.FieldLogger) *ContractorHandler {
	return &ContractorHandler{Svc: svc, Uploads: uploads, Logger: logger}
}

type projectForm struct {
	Title       string `form:"title" binding:"max=200"`
	Description string `form:"description" binding:"max=5000"`
	Location    string `form:"location" binding:"max=200"`
	CompletedAt string `form:"completedAt" binding:"omitempty,datetime=2006-01-02"`
}

func (f projectForm) input(c *gin.Context) application.ProjectInput {
	in := application.ProjectInput{
		Title:       f.Title,
		Description: f.Description,
		Location:    f.Location,
		Keep:        keepList(c, "existingImages"),
	}
	if t, err := time.Parse(time.DateOnly, f.CompletedAt); err == nil {
		in.CompletedAt = &t
	}
	return in
}

// List serves the contractor directory: jobType, city, search, available,
// page and limit are all optional.
func (h *ContractorHandler) List(c *gin.Context) {
	page, err := h.Svc.List(c.Request.Context(), repo.ContractorFilter{
		JobType:       c.Query("jobType"),
		City:          c.Query("city"),
		Search:        c.Query("search"),
		AvailableOnly: queryBool(c, "available"),
		Page:          queryInt(c, "page"),
		Limit:         queryInt(c, "limit"),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, page, "contractors", nil)
}

func (h *ContractorHandler) Detail(c *gin.Context) {
	d, err := h.Svc.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, d, "contractor", nil)
}

func (h *ContractorHandler) JobTypes(c *gin.Context) {
	jts, err := h.Svc.ListJobTypes(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, jts, "job types", nil)
}

func (h *ContractorHandler) ListProjects(c *gin.Context) {
	ps, err := h.Svc.ListProjects(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ps, "projects", nil)
}

func (h *ContractorHandler) CreateProject(c *gin.Context) {
	var form projectForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}
	if form.Title == "" {
		response.Error[any](c, http.StatusBadRequest, "title is required", nil)
		return
	}
	imgs, done, err := h.Uploads.files(c, "images", 10)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer done()

	p, err := h.Svc.CreateProject(c.Request.Context(), middleware.AccountID(c), form.input(c), imgs)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "project created", nil)
}

// UpdateProject keeps the images listed in existingImages and appends any
// new uploads.
func (h *ContractorHandler) UpdateProject(c *gin.Context) {
	var form projectForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}
	imgs, done, err := h.Uploads.files(c, "images", 10)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer done()

	p, err := h.Svc.UpdateProject(c.Request.Context(), middleware.AccountID(c), c.Param("id"), form.input(c), imgs)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "project updated", nil)
}

func (h *ContractorHandler) DeleteProject(c *gin.Context) {
	if err := h.Svc.DeleteProject(c.Request.Context(), middleware.AccountID(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "project deleted", nil)
}
