package routes

import (
	"github.com/gin-gonic/gin"

	"todosync/internal/handlers"
	"todosync/internal/middleware"
	"todosync/internal/repositories"
	"todosync/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	oauthHandler *handlers.OAuthHandler,
	taskHandler *handlers.TaskHandler,
	authService services.AuthService,
	userRepo repositories.UserRepository,
) *gin.Engine {

	// ---- public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/verify-otp", authHandler.VerifyOTP)
	r.POST("/verify-2fa", authHandler.Verify2FA)
	r.POST("/logout", authHandler.Logout)
	r.GET("/isLoggedIn", authHandler.IsLoggedIn)

	// Google OAuth
	r.GET("/auth/google", oauthHandler.GoogleLogin)
	r.GET("/auth/google/callback", oauthHandler.GoogleCallback)
	r.GET("/success", oauthHandler.Success)

	// ---- protected
	protected := r.Group("/", middleware.Protect(authService, userRepo))
	{
		protected.GET("/auth/google/disconnect", oauthHandler.GoogleDisconnect)

		protected.GET("/tasks", taskHandler.GetAll)
		protected.POST("/task", taskHandler.Create)
		protected.GET("/task/:taskId", taskHandler.GetByID)
		protected.PATCH("/task/:taskId", taskHandler.Update)
		protected.DELETE("/task/:taskId", taskHandler.Delete)
	}

	return r
}
