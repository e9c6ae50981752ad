package calendar

import (
	"github.com/DhavalSuthar-24/dugout/config"
	mw "github.com/DhavalSuthar-24/dugout/internal/middleware"
	"github.com/DhavalSuthar-24/dugout/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func CalendarRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, svc *Service) {
	cc := NewCalendarController(svc)

	cal := router.Group("/calendar")
	cal.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		cal.GET("/month", cc.GetMonth)
		cal.GET("/week", cc.GetWeek)
		cal.GET("/events", cc.ListEvents)
		cal.GET("/events/:event_id", cc.GetEvent)
	}

	// Per-calendar permission is checked again in the service.
	staff := cal.Group("")
	staff.Use(rmiddleware.CoachOrAdminMiddleware())
	{
		staff.POST("/events", cc.AddEvent)
		staff.PUT("/events/:event_id", cc.UpdateEvent)
		staff.DELETE("/events/:event_id", cc.DeleteEvent)
		staff.GET("/players", cc.ListPlayers)
	}
}
