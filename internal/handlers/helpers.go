package handlers

import (
	"github.com/gin-gonic/gin"
)

// Единый конверт ошибок: 4xx => "fail", 5xx => "error".

func failJSON(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "fail", "message": message})
}

func errorJSON(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

// secureRequest mirrors the trust-proxy check: mark cookies secure when the
// request came in over TLS (directly or via a terminating proxy).
func secureRequest(c *gin.Context) bool {
	return c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
}
