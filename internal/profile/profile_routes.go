package profile

import (
	"github.com/DhavalSuthar-24/dugout/config"
	mw "github.com/DhavalSuthar-24/dugout/internal/middleware"
	"github.com/DhavalSuthar-24/dugout/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ProfileRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, svc *Service) {
	pc := NewProfileController(svc)

	authed := router.Group("/")
	authed.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authed.GET("/dashboard", pc.Dashboard)
		authed.GET("/my-team", pc.MyTeam)

		authed.GET("/profile/me", pc.GetProfile)
		authed.PUT("/profile/me", pc.UpdateProfile)
		authed.GET("/profile/me/stats", pc.ListStats)
		authed.POST("/profile/me/avatar", pc.UploadAvatar)
		authed.DELETE("/profile/me/contacts/:contact_id", pc.DeleteContact)

		authed.GET("/profile/:user_id", pc.GetProfile)
		authed.PUT("/profile/:user_id", pc.UpdateProfile)
		authed.GET("/profile/:user_id/stats", pc.ListStats)
	}

	staff := router.Group("/profile")
	staff.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	staff.Use(rmiddleware.CoachOrAdminMiddleware())
	{
		staff.POST("/:user_id/stats", pc.RecordStat)
	}
}
