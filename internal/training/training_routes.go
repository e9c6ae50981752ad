package training

import (
	"github.com/DhavalSuthar-24/dugout/config"
	mw "github.com/DhavalSuthar-24/dugout/internal/middleware"
	"github.com/DhavalSuthar-24/dugout/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TrainingRoutes mounts /training. Reads are open to any signed-in user;
// writes need a coach or admin.
func TrainingRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	tc := NewTrainingController(NewTrainingRepository(db))

	training := router.Group("/training")
	training.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		training.GET("/programs", tc.ListPrograms)
		training.GET("/programs/:program_id", tc.GetProgram)
		training.GET("/days/:day_id", tc.GetDay)
	}

	staff := training.Group("")
	staff.Use(rmiddleware.CoachOrAdminMiddleware())
	{
		staff.POST("/programs", tc.CreateProgram)
		staff.PUT("/programs/:program_id", tc.UpdateProgram)
		staff.DELETE("/programs/:program_id", tc.DeleteProgram)
		staff.POST("/programs/:program_id/days", tc.AddDay)
		staff.DELETE("/days/:day_id", tc.DeleteDay)
		staff.POST("/days/:day_id/exercises", tc.AddExercise)
		staff.DELETE("/exercises/:exercise_id", tc.DeleteExercise)
		staff.GET("/programs/:program_id/assignments", tc.ListAssignments)
		staff.POST("/programs/:program_id/assignments", tc.AssignProgram)
		staff.DELETE("/assignments/:assignment_id", tc.DeleteAssignment)
	}
}
