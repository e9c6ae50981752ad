package cmd

import (
	"github.com/DhavalSuthar-24/dugout/internal/calendar"
	"github.com/DhavalSuthar-24/dugout/internal/knowledge"
	"github.com/DhavalSuthar-24/dugout/internal/messaging"
	"github.com/DhavalSuthar-24/dugout/internal/nutrition"
	"github.com/DhavalSuthar-24/dugout/internal/profile"
	"github.com/DhavalSuthar-24/dugout/internal/team"
	"github.com/DhavalSuthar-24/dugout/internal/training"
	"github.com/DhavalSuthar-24/dugout/internal/user"
)

// schema lists every table in creation order.
func schema() []interface{} {
	return []interface{}{
		&user.User{}, &user.PlayerProfile{}, &user.UserContact{}, &user.RefreshToken{},
		&team.Team{}, &team.TeamMember{},
		&training.Program{}, &training.Day{}, &training.Exercise{}, &training.Assignment{},
		&nutrition.Meal{}, &nutrition.MealPlan{}, &nutrition.MealPlanItem{}, &nutrition.MealPlanAssignment{},
		&calendar.ScheduleEvent{},
		&messaging.Conversation{}, &messaging.ConversationParticipant{}, &messaging.Message{}, &messaging.MessageRead{},
		&knowledge.Category{}, &knowledge.Article{}, &knowledge.ArticleView{},
		&knowledge.AIConversation{}, &knowledge.AIMessage{},
		&profile.PerformanceStat{},
	}
}
