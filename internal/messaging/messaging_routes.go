package messaging

import (
	"github.com/DhavalSuthar-24/dugout/config"
	mw "github.com/DhavalSuthar-24/dugout/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MessagingRoutes mounts /messages. Role checks for pinning and for group and
// announcement creation live in the service, since every signed-in user
// reaches these routes.
func MessagingRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, svc *Service) {
	mc := NewMessagingController(svc)

	messages := router.Group("/messages")
	messages.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		messages.GET("/conversations", mc.ListConversations)
		messages.POST("/conversations", mc.CreateConversation)
		messages.GET("/conversations/:conversation_id", mc.GetConversation)
		messages.POST("/conversations/:conversation_id/messages", mc.SendMessage)
		messages.POST("/conversations/:conversation_id/read", mc.MarkRead)
		messages.PUT("/conversations/:conversation_id/pin", mc.TogglePin)
		messages.GET("/teams/:team_id/announcements", mc.ListTeamAnnouncements)
		messages.GET("/recipients", mc.ListRecipients)
		messages.GET("/unread", mc.UnreadCount)
	}
}
