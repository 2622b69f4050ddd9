package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careview/careview/internal/container"
	handlers "github.com/careview/careview/internal/interface/http"
	"github.com/careview/careview/internal/interface/middleware"
	"github.com/careview/careview/pkg/helpers"
)

// AuthModule wires account routes.
// Public: POST /api/register, POST /api/login
// Protected: GET /api/verify, POST /api/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT, container.GetDenylist()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/verify", m.Handler.Verify)
		auth.POST("/logout", m.Handler.Logout)
	}
}
