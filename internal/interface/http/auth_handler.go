package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/careview/careview/internal/application"
	"github.com/careview/careview/internal/interface/middleware"
	"github.com/careview/careview/pkg/helpers"
	"github.com/careview/careview/pkg/response"
	"github.com/careview/careview/pkg/validation"
)

// AuthHandler exposes registration, login, token verification, and logout.
type AuthHandler struct {
	Svc      *application.AuthService
	Denylist helpers.Denylist
	Logger   *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, denylist helpers.Denylist, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Denylist: denylist, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			// the conflict message necessarily reveals account existence
			response.Error(c, http.StatusConflict, "user already exists")
			return
		}
		h.Logger.WithError(err).Error("registration failed")
		response.Error(c, http.StatusInternalServerError, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":   res.Token,
		"userId":  res.User.ID,
		"name":    res.User.Name,
		"message": "registration successful",
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error(c, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   res.Token,
		"userId":  res.User.ID,
		"name":    res.User.Name,
		"message": "login successful",
	})
}

// Verify handles GET /api/verify. The auth middleware has already validated
// the token; this just reflects the attached identity back to the client.
func (h *AuthHandler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user": gin.H{
			"userId": c.GetString(middleware.CtxUserIDKey),
			"email":  c.GetString(middleware.CtxUserEmailKey),
		},
	})
}

// Logout handles POST /api/logout by denylisting the token's jti until its
// natural expiry. Without a denylist the endpoint still succeeds; the
// client discards the token and it ages out on its own.
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.Denylist != nil {
		jti := c.GetString(middleware.CtxTokenIDKey)
		if exp, ok := c.Get(middleware.CtxTokenExpKey); ok && jti != "" {
			if expTime, ok := exp.(time.Time); ok {
				if err := h.Denylist.Revoke(c.Request.Context(), jti, time.Until(expTime)); err != nil {
					h.Logger.WithError(err).Warn("token revocation failed")
				}
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
