package knowledge

import (
	"github.com/DhavalSuthar-24/dugout/config"
	mw "github.com/DhavalSuthar-24/dugout/internal/middleware"
	"github.com/DhavalSuthar-24/dugout/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// KnowledgeRoutes mounts /knowledge for articles and /assistant for the chat
// helper.
func KnowledgeRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, svc *Service) {
	kc := NewKnowledgeController(svc)
	auth := mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db)

	kb := router.Group("/knowledge")
	kb.Use(auth)
	{
		kb.GET("/categories", kc.ListCategories)
		kb.GET("/articles", kc.ListArticles)
		kb.GET("/articles/:article_id", kc.OpenArticle)
	}

	staff := kb.Group("")
	staff.Use(rmiddleware.CoachOrAdminMiddleware())
	{
		staff.POST("/categories", kc.CreateCategory)
		staff.POST("/articles", kc.CreateArticle)
		staff.PUT("/articles/:article_id", kc.UpdateArticle)
		staff.DELETE("/articles/:article_id", kc.DeleteArticle)
	}

	ai := router.Group("/assistant")
	ai.Use(auth)
	{
		ai.GET("/conversations", kc.ListAIConversations)
		ai.POST("/conversations", kc.CreateAIConversation)
		ai.GET("/conversations/:conversation_id/messages", kc.ListAIMessages)
		ai.POST("/ask", kc.Ask)
	}
}
