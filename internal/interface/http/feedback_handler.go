package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/application"
	"github.com/oksasatya/servicemart/internal/interface/middleware"
	"github.com/oksasatya/servicemart/pkg/response"
)

// FeedbackHandler serves store reviews and platform testimonials.
type FeedbackHandler struct {
	Reviews      *application.ReviewService
	Testimonials *application.TestimonialService
	Logger       logrus.FieldLogger
}

func NewFeedbackHandler(reviews *application.ReviewService, testimonials *application.TestimonialService, logger logrus.FieldLogger) *FeedbackHandler {
	return &FeedbackHandler{Reviews: reviews, Testimonials: testimonials, Logger: logger}
}

type ratingRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
	Content string `json:"content" binding:"max=2000"`
}

func (h *FeedbackHandler) ListReviews(c *gin.Context) {
	list, err := h.Reviews.List(c.Request.Context(), c.Param("storeId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "reviews", nil)
}

func (h *FeedbackHandler) CreateReview(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	r, err := h.Reviews.Create(c.Request.Context(), middleware.AccountID(c), c.Param("storeId"), req.Rating, req.Comment)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, r, "review added", nil)
}

// ListTestimonials returns the latest ?limit= testimonials.
func (h *FeedbackHandler) ListTestimonials(c *gin.Context) {
	list, err := h.Testimonials.List(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "testimonials", nil)
}

func (h *FeedbackHandler) CreateTestimonial(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Content == "" {
		response.Error[any](c, http.StatusBadRequest, "content is required", nil)
		return
	}
	t, err := h.Testimonials.Create(c.Request.Context(), middleware.Role(c), middleware.AccountID(c), req.Content, req.Rating)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, t, "testimonial added", nil)
}
