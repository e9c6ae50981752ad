package team

import (
	"github.com/DhavalSuthar-24/dugout/config"
	mw "github.com/DhavalSuthar-24/dugout/internal/middleware"
	"github.com/DhavalSuthar-24/dugout/pkg/rmiddleware"
	"github.com/DhavalSuthar-24/dugout/pkg/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TeamRoutes sets up all team-related routes
func TeamRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, store storage.ObjectStore, log *zap.Logger) {
	teamRepo := NewTeamRepository(db)
	teamController := NewTeamController(teamRepo, store, log)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authRoutes.GET("/teams", teamController.GetAllTeams)
		authRoutes.GET("/teams/:team_id", teamController.GetTeamByID)
		authRoutes.GET("/teams/:team_id/members", teamController.GetTeamMembers)
		authRoutes.GET("/users/me/teams", teamController.GetMyTeams)
	}

	// Roster management by coaches and admins
	staffRoutes := router.Group("/teams")
	staffRoutes.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	staffRoutes.Use(rmiddleware.CoachOrAdminMiddleware())
	{
		staffRoutes.POST("/:team_id/members", teamController.AddTeamMember)
		staffRoutes.PUT("/:team_id/members/:user_id/role", teamController.UpdateTeamMemberRole)
		staffRoutes.DELETE("/:team_id/members/:user_id", teamController.RemoveTeamMember)
	}

	adminRoutes := router.Group("/teams")
	adminRoutes.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	adminRoutes.Use(rmiddleware.AdminMiddleware())
	{
		adminRoutes.POST("", teamController.CreateTeam)
		adminRoutes.PUT("/:team_id", teamController.UpdateTeam)
		adminRoutes.DELETE("/:team_id", teamController.DeleteTeam)
		adminRoutes.POST("/:team_id/photo", teamController.UploadTeamPhoto)
	}
}
