package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/careview/careview/internal/application"
	"github.com/careview/careview/internal/interface/middleware"
	"github.com/careview/careview/pkg/response"
	"github.com/careview/careview/pkg/validation"
)

// ReviewHandler exposes review submission and the public paginated feed.
type ReviewHandler struct {
	Svc    *application.ReviewService
	Logger *logrus.Logger
}

func NewReviewHandler(svc *application.ReviewService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{Svc: svc, Logger: logger}
}

type createReviewRequest struct {
	Name        string `json:"name" binding:"required"`
	Image       string `json:"image" binding:"omitempty,url"`
	Description string `json:"description" binding:"required,max=1000"`
	Rating      int    `json:"rating" binding:"required,gte=1,lte=5"`
}

// Create handles POST /api/reviews (protected). The owning user comes from
// the verified token, never from the request body.
func (h *ReviewHandler) Create(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	userID := c.GetString(middleware.CtxUserIDKey)
	rev, err := h.Svc.Create(c.Request.Context(), userID, application.CreateReviewInput{
		Name:        req.Name,
		Image:       req.Image,
		Description: req.Description,
		Rating:      req.Rating,
	})
	if err != nil {
		h.Logger.WithError(err).Error("review submission failed")
		response.Error(c, http.StatusInternalServerError, "failed to submit review")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "review submitted successfully",
		"review":  rev,
	})
}

// List handles GET /api/reviews?page=&limit= (public).
func (h *ReviewHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	res, err := h.Svc.List(c.Request.Context(), page, limit)
	if err != nil {
		h.Logger.WithError(err).Error("review listing failed")
		response.Error(c, http.StatusInternalServerError, "failed to fetch reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":      res.Reviews,
		"currentPage":  res.CurrentPage,
		"totalPages":   res.TotalPages,
		"totalReviews": res.TotalReviews,
	})
}

// queryInt reads a positive integer query parameter, falling back to def on
// absence, garbage, or non-positive values.
func queryInt(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
