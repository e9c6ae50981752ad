package auth

import (
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes mounts /auth. authMW guards the session endpoints.
func RegisterAuthRoutes(router *gin.RouterGroup, svc *Service, users user.UserRepository, authMW gin.HandlerFunc) {
	authController := NewAuthController(svc, users)

	authPublic := router.Group("/auth")
	{
		authPublic.POST("/register", authController.Register)
		authPublic.POST("/login", authController.Login)
		authPublic.POST("/refresh-token", authController.RefreshToken)
	}

	authProtected := router.Group("/auth")
	authProtected.Use(authMW)
	{
		authProtected.GET("/me", authController.Me)
		authProtected.POST("/logout", authController.Logout)
	}
}
