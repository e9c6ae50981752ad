package profile

import (
	"github.com/DhavalSuthar-24/dugout/internal/calendar"
	"github.com/DhavalSuthar-24/dugout/internal/messaging"
	"github.com/DhavalSuthar-24/dugout/internal/models"
	"github.com/DhavalSuthar-24/dugout/internal/nutrition"
	"github.com/DhavalSuthar-24/dugout/internal/team"
	"github.com/DhavalSuthar-24/dugout/internal/training"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"gorm.io/datatypes"
)

const (
	DashboardEvents     = 3
	MyTeamEvents        = 5
	MyTeamAnnouncements = 5
)

// PerformanceStat is one dated measurement sheet for a player. Every metric
// is optional.
type PerformanceStat struct {
	models.BaseModel
	PlayerID         uint           `json:"player_id" gorm:"not null;index"`
	Date             datatypes.Date `json:"date" gorm:"not null;index"`
	BattingAverage   *float64       `json:"batting_average"`
	OnBasePct        *float64       `json:"on_base_pct"`
	SluggingPct      *float64       `json:"slugging_pct"`
	ERA              *float64       `json:"era" gorm:"column:era"`
	ExitVelocity     *float64       `json:"exit_velocity"`
	LaunchAngle      *float64       `json:"launch_angle"`
	SpinRate         *float64       `json:"spin_rate"`
	AvgDistance      *float64       `json:"avg_distance"`
	HardHitRate      *float64       `json:"hard_hit_rate"`
	LineDriveRate    *float64       `json:"line_drive_rate"`
	ThrowingVelocity *float64       `json:"throwing_velocity"`
	SixtyYardTime    *float64       `json:"sixty_yard_time"`
	RecoveryScore    *float64       `json:"recovery_score"`
	Strain           *float64       `json:"strain"`
	SleepHours       *float64       `json:"sleep_hours"`
	Notes            string         `json:"notes"`
	RecordedBy       uint           `json:"recorded_by"`
}

// TrainingAssignmentView flags whether the assignment covers today.
type TrainingAssignmentView struct {
	training.Assignment
	Active bool `json:"active"`
}

type MealPlanAssignmentView struct {
	nutrition.MealPlanAssignment
	Active bool `json:"active"`
}

// Profile is everything the profile page shows for one user.
type Profile struct {
	User                user.UserResponse        `json:"user"`
	PlayerProfile       *user.PlayerProfile      `json:"player_profile"`
	Memberships         []team.TeamMember        `json:"memberships"`
	TrainingAssignments []TrainingAssignmentView `json:"training_assignments"`
	MealPlanAssignments []MealPlanAssignmentView `json:"meal_plan_assignments"`
	Contacts            []user.UserContact       `json:"contacts"`
}

type Dashboard struct {
	Team        *team.Team               `json:"team"`
	Upcoming    []calendar.ScheduleEvent `json:"upcoming"`
	LatestStats *PerformanceStat         `json:"latest_stats"`
}

type MyTeam struct {
	Team          *team.Team               `json:"team"`
	Teams         []team.Team              `json:"teams"`
	Players       []team.TeamMember        `json:"players"`
	Coaches       []team.TeamMember        `json:"coaches"`
	Upcoming      []calendar.ScheduleEvent `json:"upcoming"`
	Announcements []messaging.Announcement `json:"announcements"`
}

// --- DTOs for requests ---

type PlayerFields struct {
	JerseyNumber *int   `json:"jersey_number" binding:"omitempty,gte=0,lte=99"`
	Position     string `json:"position" binding:"max=40"`
	Grade        string `json:"grade" binding:"max=20"`
	Height       string `json:"height" binding:"max=20"`
	Weight       *int   `json:"weight" binding:"omitempty,gte=0,lte=500"`
	Bats         string `json:"bats" binding:"omitempty,oneof=L R S"`
	Throws       string `json:"throws" binding:"omitempty,oneof=L R"`
}

type ContactRequest struct {
	ID          uint             `json:"id"`
	ContactType user.ContactType `json:"contact_type" binding:"required,oneof=email phone"`
	Value       string           `json:"value" binding:"required,max=200"`
	Label       string           `json:"label" binding:"max=50"`
	SortOrder   int              `json:"sort_order"`
}

type UpdateProfileRequest struct {
	FullName string           `json:"full_name" binding:"required,max=120"`
	Phone    string           `json:"phone" binding:"max=40"`
	Player   *PlayerFields    `json:"player"`
	Contacts []ContactRequest `json:"contacts" binding:"max=6,dive"`
}

type StatRequest struct {
	Date             string   `json:"date" binding:"required,isodate"`
	BattingAverage   *float64 `json:"batting_average" binding:"omitempty,gte=0,lte=1"`
	OnBasePct        *float64 `json:"on_base_pct" binding:"omitempty,gte=0,lte=1"`
	SluggingPct      *float64 `json:"slugging_pct" binding:"omitempty,gte=0,lte=4"`
	ERA              *float64 `json:"era" binding:"omitempty,gte=0"`
	ExitVelocity     *float64 `json:"exit_velocity" binding:"omitempty,gte=0"`
	LaunchAngle      *float64 `json:"launch_angle"`
	SpinRate         *float64 `json:"spin_rate" binding:"omitempty,gte=0"`
	AvgDistance      *float64 `json:"avg_distance" binding:"omitempty,gte=0"`
	HardHitRate      *float64 `json:"hard_hit_rate" binding:"omitempty,gte=0,lte=100"`
	LineDriveRate    *float64 `json:"line_drive_rate" binding:"omitempty,gte=0,lte=100"`
	ThrowingVelocity *float64 `json:"throwing_velocity" binding:"omitempty,gte=0"`
	SixtyYardTime    *float64 `json:"sixty_yard_time" binding:"omitempty,gte=0"`
	RecoveryScore    *float64 `json:"recovery_score" binding:"omitempty,gte=0,lte=100"`
	Strain           *float64 `json:"strain" binding:"omitempty,gte=0"`
	SleepHours       *float64 `json:"sleep_hours" binding:"omitempty,gte=0,lte=24"`
	Notes            string   `json:"notes"`
}
