package nutrition

import (
	"github.com/DhavalSuthar-24/dugout/config"
	mw "github.com/DhavalSuthar-24/dugout/internal/middleware"
	"github.com/DhavalSuthar-24/dugout/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func NutritionRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	nc := NewNutritionController(NewNutritionRepository(db))

	nutrition := router.Group("/nutrition")
	nutrition.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		nutrition.GET("/meals", nc.ListMeals)
		nutrition.GET("/plans", nc.ListPlans)
		nutrition.GET("/plans/:plan_id", nc.GetPlan)
	}

	staff := nutrition.Group("")
	staff.Use(rmiddleware.CoachOrAdminMiddleware())
	{
		staff.POST("/meals", nc.CreateMeal)
		staff.PUT("/meals/:meal_id", nc.UpdateMeal)
		staff.DELETE("/meals/:meal_id", nc.DeleteMeal)
		staff.POST("/plans", nc.CreatePlan)
		staff.DELETE("/plans/:plan_id", nc.DeletePlan)
		staff.POST("/plans/:plan_id/assignments", nc.AssignPlan)
		staff.DELETE("/assignments/:assignment_id", nc.DeleteAssignment)
	}
}
