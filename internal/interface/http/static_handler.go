package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/careview/careview/pkg/response"
)

// NotFoundFallback handles every unmatched route: unknown /api paths get a
// JSON 404, anything else falls back to the client application shell.
func NotFoundFallback(webDir string) gin.HandlerFunc {
	shell := filepath.Join(webDir, "index.html")
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			response.Error(c, http.StatusNotFound, "not found")
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			response.Error(c, http.StatusNotFound, "not found")
			return
		}
		c.File(shell)
	}
}
