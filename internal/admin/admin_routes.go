package admin

import (
	"github.com/DhavalSuthar-24/dugout/config"
	mw "github.com/DhavalSuthar-24/dugout/internal/middleware"
	"github.com/DhavalSuthar-24/dugout/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func AdminRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, svc *Service) {
	ac := NewAdminController(svc)

	users := router.Group("/admin/users")
	users.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	users.Use(rmiddleware.AdminMiddleware())
	{
		users.GET("", ac.ListUsers)
		users.POST("", ac.CreateUser)
		users.GET("/:user_id", ac.GetUser)
		users.PUT("/:user_id/role", ac.ChangeRole)
		users.PUT("/:user_id/teams", ac.SyncTeams)
		users.DELETE("/:user_id", ac.DeleteUser)
	}
}
