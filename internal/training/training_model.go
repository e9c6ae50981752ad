package training

import (
	"fmt"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/models"
	"gorm.io/datatypes"
)

type ExerciseCategory string

const (
	CategoryHitting      ExerciseCategory = "hitting"
	CategoryPitching     ExerciseCategory = "pitching"
	CategoryFielding     ExerciseCategory = "fielding"
	CategoryConditioning ExerciseCategory = "conditioning"
	CategoryRecovery     ExerciseCategory = "recovery"
	CategoryOther        ExerciseCategory = "other"
)

func (c ExerciseCategory) Valid() bool {
	switch c {
	case CategoryHitting, CategoryPitching, CategoryFielding, CategoryConditioning, CategoryRecovery, CategoryOther:
		return true
	}
	return false
}

// Program is a reusable multi-day workout template.
type Program struct {
	models.BaseModel
	Name          string `json:"name" gorm:"not null"`
	Description   string `json:"description"`
	DurationWeeks *int   `json:"duration_weeks"`
	CreatedBy     uint   `json:"created_by" gorm:"index"`
	Days          []Day  `json:"days,omitempty" gorm:"foreignKey:ProgramID"`
}

func (Program) TableName() string { return "training_programs" }

type Day struct {
	models.BaseModel
	ProgramID uint       `json:"program_id" gorm:"not null;index"`
	DayNumber int        `json:"day_number" gorm:"not null"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes"`
	Exercises []Exercise `json:"exercises,omitempty" gorm:"foreignKey:DayID"`
	Program   *Program   `json:"program,omitempty"`
}

func (Day) TableName() string { return "training_days" }

// Label is the day's title, or "Day N" when it has none.
func (d Day) Label() string {
	if d.Title != "" {
		return d.Title
	}
	return fmt.Sprintf("Day %d", d.DayNumber)
}

type Exercise struct {
	models.BaseModel
	DayID       uint             `json:"day_id" gorm:"not null;index"`
	Category    ExerciseCategory `json:"category" gorm:"type:varchar(16);not null"`
	Name        string           `json:"name" gorm:"not null"`
	Description string           `json:"description"`
	Sets        *int             `json:"sets"`
	Reps        string           `json:"reps"`
	Weight      string           `json:"weight"`
	VideoURL    string           `json:"video_url"`
	ImageURL    string           `json:"image_url"`
	SortOrder   int              `json:"sort_order" gorm:"default:0"`
}

func (Exercise) TableName() string { return "training_exercises" }

// Assignment gives a program to exactly one team or one player.
type Assignment struct {
	models.BaseModel
	ProgramID uint `json:"program_id" gorm:"not null;index"`
	models.Scoped
	StartDate  *datatypes.Date `json:"start_date"`
	EndDate    *datatypes.Date `json:"end_date"`
	AssignedBy uint            `json:"assigned_by"`
	Program    *Program        `json:"program,omitempty"`
}

func (Assignment) TableName() string { return "training_program_assignments" }

// ActiveOn reports whether day falls inside the assignment's date range. A
// missing bound is open.
func (a Assignment) ActiveOn(day datatypes.Date) bool {
	d := time.Time(day)
	if a.StartDate != nil && time.Time(*a.StartDate).After(d) {
		return false
	}
	if a.EndDate != nil && time.Time(*a.EndDate).Before(d) {
		return false
	}
	return true
}

// --- DTOs for requests ---

type CreateProgramRequest struct {
	Name          string `json:"name" binding:"required,max=200"`
	Description   string `json:"description"`
	DurationWeeks *int   `json:"duration_weeks" binding:"omitempty,gte=1,lte=104"`
}

type UpdateProgramRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string `json:"description"`
	DurationWeeks *int    `json:"duration_weeks" binding:"omitempty,gte=1,lte=104"`
}

type AddDayRequest struct {
	Title string `json:"title" binding:"max=200"`
	Notes string `json:"notes"`
}

type AddExerciseRequest struct {
	Category    ExerciseCategory `json:"category" binding:"required,oneof=hitting pitching fielding conditioning recovery other"`
	Name        string           `json:"name" binding:"required,max=200"`
	Description string           `json:"description"`
	Sets        *int             `json:"sets" binding:"omitempty,gte=0"`
	Reps        string           `json:"reps"`
	Weight      string           `json:"weight"`
	VideoURL    string           `json:"video_url" binding:"omitempty,url"`
	ImageURL    string           `json:"image_url" binding:"omitempty,url"`
}

// AssignRequest targets a team or a player; dates are YYYY-MM-DD.
type AssignRequest struct {
	Scope     string  `json:"scope" binding:"required,oneof=team player"`
	TargetID  uint    `json:"target_id" binding:"required"`
	StartDate *string `json:"start_date" binding:"omitempty,isodate"`
	EndDate   *string `json:"end_date" binding:"omitempty,isodate"`
}
