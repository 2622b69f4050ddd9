package response

import (
	"github.com/gin-gonic/gin"
)

// The API speaks a flat JSON contract: successes carry their fields at the
// top level, failures are {"error": "..."} with optional field details.

// Error writes a failure body with a short human-readable message.
// Internal causes are never included here; they belong in the server log.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// ValidationError writes a 400-style failure including a field->message map
// that is safe to show verbatim.
func ValidationError(c *gin.Context, status int, message string, details map[string]string) {
	if len(details) == 0 {
		Error(c, status, message)
		return
	}
	c.JSON(status, gin.H{"error": message, "details": details})
}

// AbortError writes a failure and stops the handler chain. Used by middleware.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
