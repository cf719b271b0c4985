package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todosync/internal/repositories"
	"todosync/internal/services"
)

const (
	// CookieJWT holds the session token once the full login chain is done.
	CookieJWT = "jwt"

	ctxUserKey = "current_user"
)

// Protect gates a route behind a valid session token, read from the
// Authorization header (Bearer) or the jwt cookie. The resolved user is
// placed in the request context.
func Protect(authSvc services.AuthService, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "fail",
				"message": "You are not logged in! Please log in to get access.",
			})
			return
		}

		userID, err := authSvc.ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "fail",
				"message": "Invalid or expired token",
			})
			return
		}

		user, err := users.GetByID(userID)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "fail",
				"message": "The user belonging to this token does no longer exist.",
			})
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(CookieJWT); err == nil {
		return cookie
	}
	return ""
}
