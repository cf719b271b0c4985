package middleware

import (
	"github.com/gin-gonic/gin"

	"todosync/internal/models"
)

// CurrentUser returns the user attached by Protect, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
