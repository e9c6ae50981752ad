package calendar

import (
	"github.com/DhavalSuthar-24/dugout/internal/models"
	"github.com/DhavalSuthar-24/dugout/internal/nutrition"
	"github.com/DhavalSuthar-24/dugout/internal/training"
	"gorm.io/datatypes"
)

type EventType string

const (
	EventGame     EventType = "game"
	EventPractice EventType = "practice"
	EventWorkout  EventType = "workout"
	EventMeal     EventType = "meal"
)

func (t EventType) Valid() bool {
	switch t {
	case EventGame, EventPractice, EventWorkout, EventMeal:
		return true
	}
	return false
}

type HomeAway string

const (
	Home HomeAway = "home"
	Away HomeAway = "away"
)

// ScheduleEvent is one dated entry on a team calendar or on a single
// player's calendar, never both.
type ScheduleEvent struct {
	models.BaseModel
	EventType EventType      `json:"event_type" gorm:"type:varchar(16);not null"`
	EventDate datatypes.Date `json:"event_date" gorm:"not null;index"`
	EventTime *string        `json:"event_time" gorm:"type:varchar(8)"`
	Location  string         `json:"location"`
	Address   string         `json:"address"`
	Opponent  string         `json:"opponent"`
	HomeAway  *HomeAway      `json:"home_away" gorm:"type:varchar(8)"`
	Title     string         `json:"title"`
	Notes     string         `json:"notes"`
	// IsOptional marks RSVP-style team events.
	IsOptional bool `json:"is_optional" gorm:"default:false"`
	models.Scoped
	TrainingDayID *uint           `json:"training_day_id" gorm:"index"`
	MealID        *uint           `json:"meal_id" gorm:"index"`
	CreatedBy     uint            `json:"created_by"`
	TrainingDay   *training.Day   `json:"training_day,omitempty" gorm:"foreignKey:TrainingDayID"`
	Meal          *nutrition.Meal `json:"meal,omitempty" gorm:"foreignKey:MealID"`
}

// DisplayTitle is what a calendar badge shows.
func (e ScheduleEvent) DisplayTitle() string {
	switch {
	case e.Title != "":
		return e.Title
	case e.EventType == EventGame && e.Opponent != "":
		return "vs " + e.Opponent
	}
	return string(e.EventType)
}

// PlayerOption is a player a caller may put on the calendar.
type PlayerOption struct {
	ID       uint     `json:"id"`
	FullName string   `json:"full_name"`
	Teams    []string `json:"teams"`
}

// SubmitResult holds whichever row a submitted draft produced.
type SubmitResult struct {
	Event              *ScheduleEvent                `json:"event,omitempty"`
	TrainingAssignment *training.Assignment          `json:"training_assignment,omitempty"`
	MealPlanAssignment *nutrition.MealPlanAssignment `json:"meal_plan_assignment,omitempty"`
}

// --- DTOs for requests ---

type TeamEventInput struct {
	EventType  EventType `json:"event_type" binding:"required,oneof=game practice"`
	Opponent   string    `json:"opponent" binding:"max=200"`
	EventTime  *string   `json:"event_time" binding:"omitempty,clock"`
	Location   string    `json:"location" binding:"max=200"`
	Address    string    `json:"address" binding:"max=300"`
	HomeAway   *HomeAway `json:"home_away" binding:"omitempty,oneof=home away"`
	IsOptional bool      `json:"is_optional"`
	Title      string    `json:"title" binding:"max=200"`
	Notes      string    `json:"notes"`
}

type WorkoutInput struct {
	Title string `json:"title" binding:"required,max=200"`
	Notes string `json:"notes"`
}

// AddEventRequest is a complete add-event draft as sent by a client. The
// server replays it step by step through AddEventDraft.
type AddEventRequest struct {
	Date     string `json:"date" binding:"required,isodate"`
	Scope    string `json:"scope" binding:"required,oneof=team player"`
	TargetID uint   `json:"target_id" binding:"required"`

	Kind     EventKind `json:"kind" binding:"required,oneof=team-event workout meal"`
	Coverage Coverage  `json:"coverage" binding:"omitempty,oneof=single full"`
	Source   Source    `json:"source" binding:"omitempty,oneof=existing create"`

	TeamEvent *TeamEventInput        `json:"team_event"`
	ProgramID uint                   `json:"program_id"`
	DayID     uint                   `json:"day_id"`
	MealID    uint                   `json:"meal_id"`
	PlanID    uint                   `json:"plan_id"`
	Workout   *WorkoutInput          `json:"workout"`
	NewMeal   *nutrition.MealRequest `json:"new_meal"`
}

// UpdateEventRequest replaces the editable fields of an event. Meal carries
// the linked meal's new values for meal events.
type UpdateEventRequest struct {
	Title     string                 `json:"title" binding:"max=200"`
	EventTime *string                `json:"event_time" binding:"omitempty,clock"`
	Location  string                 `json:"location" binding:"max=200"`
	Notes     string                 `json:"notes"`
	Meal      *nutrition.MealRequest `json:"meal"`
}
