package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/careview/careview/pkg/helpers"
	"github.com/careview/careview/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
	CtxTokenIDKey   = "tokenID"
	CtxTokenExpKey  = "tokenExp"
)

// Auth validates the Bearer token on protected routes.
//
// Per-request state machine:
//   - no Authorization header            -> 401 (credential absent)
//   - header present, verification fails -> 403 (credential invalid)
//   - header present, token revoked      -> 403
//   - otherwise identity is attached to the context and the chain continues
//
// denylist may be nil, in which case revocation checks are skipped and
// tokens stay valid until expiry.
func Auth(jwt *helpers.JWTManager, denylist helpers.Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.AbortError(c, http.StatusForbidden, "invalid token")
			return
		}
		if denylist != nil {
			revoked, err := denylist.IsRevoked(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.AbortError(c, http.StatusForbidden, "invalid token")
				return
			}
			// a denylist read failure fails open: the token still carries a
			// valid signature and expiry
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Set(CtxTokenIDKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExpKey, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
