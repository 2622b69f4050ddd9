package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careview/careview/internal/container"
	handlers "github.com/careview/careview/internal/interface/http"
	"github.com/careview/careview/internal/interface/middleware"
	"github.com/careview/careview/pkg/helpers"
)

// ReviewModule wires the review feed.
// Public: GET /api/reviews
// Protected: POST /api/reviews
type ReviewModule struct {
	Handler *handlers.ReviewHandler
	JWT     *helpers.JWTManager
}

func NewReviewModule(h *handlers.ReviewHandler, jwt *helpers.JWTManager) *ReviewModule {
	return &ReviewModule{Handler: h, JWT: jwt}
}

func (m *ReviewModule) Register(rg *gin.RouterGroup) {
	listLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/reviews", listLimiter, m.Handler.List)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT, container.GetDenylist()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/reviews", m.Handler.Create)
	}
}
